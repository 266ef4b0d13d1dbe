// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services validate, enforce
// rules and orchestrate; repositories read and write the database. Every
// service takes its repository as an interface, so tests inject in-memory
// mocks and never touch SQLite.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/email"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/validate"
)

// AuthService handles signup, login, Google Sign-In and logout.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	revoker   *auth.Revoker
	mailer    email.Service
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	revoker *auth.Revoker,
	mailer email.Service,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		revoker:   revoker,
		mailer:    mailer,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// respond with both in one step. The wire shape is {token, user}.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// SignupInput is the payload for POST /api/auth/signup.
// Role is the caller's choice of student or lecturer; admin accounts can
// only be created by an existing admin through /api/admin/users.
type SignupInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required"`
}

// Signup registers a new account and logs it in (returns a token).
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	role, ok := model.ParseRole(in.Role)
	if !ok || role == model.RoleAdmin {
		return nil, apperror.ValidationFailed("role", "role must be student or lecturer")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing signup password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	s.mailer.Send(email.Message{
		To:      user.Email,
		Subject: "Welcome to AcademiHub",
		Body:    fmt.Sprintf("Hi %s, your %s account is ready.", user.Name, user.Role),
	})

	return s.issue(user)
}

// LoginInput is the payload for POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates by email and password, records last_login, and
// issues a token.
//
// Wrong email and wrong password return the same message — no account
// enumeration through error text.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	// Google-only accounts have no password hash; password login is not
	// available for them, and saying so would leak account details.
	if user.PasswordHash == "" {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("this account has been deactivated")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; last_login is bookkeeping.
		s.logger.Error("failed to record last login",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

// GoogleSignIn completes "Sign in with Google": the handler has already
// exchanged the authorization code for a profile.
//
// Matching order: existing Google-linked account, then an existing
// password account with the same email (the Google identity gets linked),
// then a brand-new student account. New Google users default to the
// student role; an admin can promote them afterwards.
func (s *AuthService) GoogleSignIn(ctx context.Context, gu *auth.GoogleUser) (*AuthResult, error) {
	if gu == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user, err := s.users.GetByGoogleID(ctx, gu.ID)
	if err != nil {
		// Not linked yet — try to link by verified email, else create.
		if gu.VerifiedEmail {
			if existing, emailErr := s.users.GetByEmail(ctx, strings.ToLower(gu.Email)); emailErr == nil {
				existing.GoogleID = gu.ID
				if existing.AvatarURL == "" {
					existing.AvatarURL = gu.Picture
				}
				if err := s.users.Update(ctx, existing); err != nil {
					return nil, err
				}
				user = existing
			}
		}

		if user == nil {
			user = &model.User{
				Name:      gu.Name,
				Email:     strings.ToLower(gu.Email),
				Role:      model.RoleStudent,
				IsActive:  true,
				AvatarURL: gu.Picture,
				GoogleID:  gu.ID,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return nil, err
			}
			s.mailer.Send(email.Message{
				To:      user.Email,
				Subject: "Welcome to AcademiHub",
				Body:    fmt.Sprintf("Hi %s, your student account is ready.", user.Name),
			})
		}
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("this account has been deactivated")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to record last login",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("user authenticated via Google", slog.String("userID", user.ID))

	return s.issue(user)
}

// Logout revokes the presented token when a revocation list is configured.
// Without one, logout is purely client-side (the token ages out).
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	if err := s.revoker.Revoke(ctx, tokenStr); err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}
	return nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
