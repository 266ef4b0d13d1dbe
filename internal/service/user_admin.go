package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/validate"
)

// UserAdminService is the admin-only user management surface.
// Unlike signup, it may create any role, including other admins.
type UserAdminService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserAdminService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserAdminService {
	return &UserAdminService{users: users, passwords: passwords, logger: logger}
}

// AdminUserInput is the payload for creating or updating a user as admin.
// Password is optional on update (empty keeps the current one).
type AdminUserInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role"     validate:"required"`
	IsActive *bool  `json:"is_active"`
}

func (s *UserAdminService) Create(ctx context.Context, in AdminUserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, apperror.ValidationFailed("role", "role must be student, lecturer or admin")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created by admin",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *UserAdminService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserAdminService) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	clampList(&f.ListOptions)
	return s.users.List(ctx, f)
}

// Update edits any field of any user, including role and active flag.
func (s *UserAdminService) Update(ctx context.Context, id string, in AdminUserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return nil, apperror.ValidationFailed("role", "role must be student, lecturer or admin")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = role
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated by admin", slog.String("userID", id))
	return user, nil
}

// Deactivate is the admin "delete": accounts are never hard-deleted
// (enrollments and submissions reference them), they're switched off.
// Deactivated users cannot log in; existing tokens stop working at the
// latest when they expire, immediately when a revocation list is live.
func (s *UserAdminService) Deactivate(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user deactivated", slog.String("userID", id))
	return nil
}
