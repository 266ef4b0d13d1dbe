package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/academihub/academihub/internal/apperror"
)

type signupForm struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func TestStruct_Valid(t *testing.T) {
	form := signupForm{Name: "Ada Lovelace", Email: "ada@example.com", Password: "correct-horse"}
	if err := Struct(form); err != nil {
		t.Fatalf("Struct() error = %v for a valid payload", err)
	}
}

func TestStruct_FailureIsValidationError(t *testing.T) {
	form := signupForm{Name: "Ada", Email: "not-an-email", Password: "long-enough-pw"}

	err := Struct(form)
	if err == nil {
		t.Fatal("Struct() accepted an invalid email")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Struct() error does not wrap apperror.ErrValidation: %v", err)
	}
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	// The client displays the field name; it must be the JSON name
	// ("email"), not the Go name ("Email").
	form := signupForm{Name: "Ada", Email: "nope", Password: "long-enough-pw"}

	var appErr *apperror.AppError
	if !errors.As(Struct(form), &appErr) {
		t.Fatal("Struct() did not return an *apperror.AppError")
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
}

func TestStruct_TranslatedMessage(t *testing.T) {
	form := signupForm{Name: "Ada", Email: "ada@example.com", Password: "short"}

	var appErr *apperror.AppError
	if !errors.As(Struct(form), &appErr) {
		t.Fatal("Struct() did not return an *apperror.AppError")
	}
	// The english translation spells out the constraint, e.g.
	// "password must be at least 8 characters in length".
	if !strings.Contains(appErr.Message, "password") {
		t.Errorf("Message = %q, want it to mention the field", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "8") {
		t.Errorf("Message = %q, want it to mention the limit", appErr.Message)
	}
}
