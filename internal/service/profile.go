package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/upload"
	"github.com/academihub/academihub/internal/validate"
)

// ProfileService handles the authenticated user's own profile: reads,
// edits, avatar management, and the role-dispatched dashboard stats.
type ProfileService struct {
	users  repository.UserRepository
	stats  repository.StatsRepository
	files  upload.Store
	logger *slog.Logger
}

func NewProfileService(
	users repository.UserRepository,
	stats repository.StatsRepository,
	files upload.Store,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		users:  users,
		stats:  stats,
		files:  files,
		logger: logger,
	}
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateInput is the payload for PUT /api/profile. Only name and email are
// editable — role is immutable from the profile surface by design.
type UpdateInput struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// Update edits the caller's name and email and returns the updated record.
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Email = in.Email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("userID", userID))
	return user, nil
}

// UpdateAvatar stores a new avatar image and records its URL.
// filename and size come from the multipart header; the content is checked
// only by extension and declared size, matching the upload policy.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID, filename string, size int64, r io.Reader) (*model.User, error) {
	if s.files == nil {
		return nil, apperror.Unavailable("file uploads are not configured")
	}
	if err := upload.CheckAvatar(filename, size); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.files.Save(ctx, upload.Key("avatars", filename), io.LimitReader(r, upload.MaxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("service/profile: storing avatar for %s: %w", userID, err)
	}

	user.AvatarURL = url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("avatar updated", slog.String("userID", userID))
	return user, nil
}

// DeleteAvatar clears the stored avatar URL. The underlying object is left
// for storage janitoring; the profile simply stops referencing it.
func (s *ProfileService) DeleteAvatar(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AvatarURL = ""
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Dashboard returns the stats variant matching the caller's role — the
// closed union dispatch at the heart of the role-specific dashboards.
// Exactly one of the three shapes is ever produced per call; a role
// outside the known three cannot reach this method (ParseRole gates every
// entry point), but is still handled as an explicit error rather than a
// zero value.
func (s *ProfileService) Dashboard(ctx context.Context, userID string, role model.Role) (model.Dashboard, error) {
	switch role {
	case model.RoleStudent:
		return s.stats.StudentStats(ctx, userID)
	case model.RoleLecturer:
		return s.stats.LecturerStats(ctx, userID)
	case model.RoleAdmin:
		return s.stats.AdminStats(ctx)
	default:
		return nil, apperror.Forbidden(fmt.Sprintf("unknown role %q", role))
	}
}
