package service

import (
	"context"
	"errors"
	"testing"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/model"
)

func newTestUserAdminService(t *testing.T) (*UserAdminService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewUserAdminService(repo, auth.NewPasswordService(4), testLogger(t))
	return svc, repo
}

func TestAdminCreate_AnyRoleAllowed(t *testing.T) {
	svc, _ := newTestUserAdminService(t)

	// Unlike self-service signup, an admin may create other admins.
	for i, role := range []string{"student", "lecturer", "admin"} {
		user, err := svc.Create(context.Background(), AdminUserInput{
			Name:     "User " + role,
			Email:    role + "@example.com",
			Password: "longenough",
			Role:     role,
		})
		if err != nil {
			t.Fatalf("Create(role=%s) error = %v", role, err)
		}
		if string(user.Role) != role {
			t.Errorf("user %d role = %q, want %q", i, user.Role, role)
		}
		if !user.IsActive {
			t.Errorf("user %d should default to active", i)
		}
	}
}

func TestAdminCreate_Validation(t *testing.T) {
	svc, _ := newTestUserAdminService(t)

	_, err := svc.Create(context.Background(), AdminUserInput{
		Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: "wizard",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(role=wizard) error = %v, want ErrValidation", err)
	}

	// Password is optional in the shared input shape (updates may omit
	// it) but required on create.
	_, err = svc.Create(context.Background(), AdminUserInput{
		Name: "Ada", Email: "ada@example.com", Role: "student",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(no password) error = %v, want ErrValidation", err)
	}
}

func TestAdminUpdate(t *testing.T) {
	svc, repo := newTestUserAdminService(t)

	user, err := svc.Create(context.Background(), AdminUserInput{
		Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: "student",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	originalHash := repo.users[user.ID].PasswordHash

	// Promote to lecturer without touching the password.
	updated, err := svc.Update(context.Background(), user.ID, AdminUserInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Role: "lecturer",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Role != model.RoleLecturer {
		t.Errorf("role = %q, want lecturer", updated.Role)
	}
	if repo.users[user.ID].PasswordHash != originalHash {
		t.Error("empty password on update must keep the existing hash")
	}

	// A new password replaces the hash.
	if _, err := svc.Update(context.Background(), user.ID, AdminUserInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Role: "lecturer", Password: "a new password",
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if repo.users[user.ID].PasswordHash == originalHash {
		t.Error("supplying a password on update must rehash it")
	}
}

func TestAdminUpdate_NotFound(t *testing.T) {
	svc, _ := newTestUserAdminService(t)

	_, err := svc.Update(context.Background(), "missing", AdminUserInput{
		Name: "Ghost", Email: "ghost@example.com", Role: "student",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestAdminDeactivate(t *testing.T) {
	svc, repo := newTestUserAdminService(t)

	user, err := svc.Create(context.Background(), AdminUserInput{
		Name: "Ada", Email: "ada@example.com", Password: "longenough", Role: "student",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Deactivate(context.Background(), user.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	// Deactivation flips the flag; the record survives because
	// enrollments and submissions still reference it.
	stored, ok := repo.users[user.ID]
	if !ok {
		t.Fatal("deactivated user must not be deleted")
	}
	if stored.IsActive {
		t.Error("user should be inactive after Deactivate()")
	}
}
