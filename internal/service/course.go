package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// Pagination defaults shared by every list operation.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

func clampList(opts *repository.ListOptions) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
}

// CourseService handles course CRUD for lecturers and admins, plus the
// public course catalogue.
type CourseService struct {
	courses repository.CourseRepository
	logger  *slog.Logger
}

func NewCourseService(courses repository.CourseRepository, logger *slog.Logger) *CourseService {
	return &CourseService{courses: courses, logger: logger}
}

// CourseInput is the payload for creating or updating a course.
type CourseInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	Capacity    int    `json:"capacity"`
	IsActive    *bool  `json:"is_active"` // nil on create means active
}

// validateCourseInput enforces the course field rules. The credits
// messages are contractual: clients assert on "greater than" and "less
// than" for out-of-range values, so they're spelled out here rather than
// delegated to validator tags.
func validateCourseInput(in *CourseInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "course title is required")
	}
	if len(in.Title) > 200 {
		return apperror.ValidationFailed("title", "course title must be 200 characters or less")
	}
	if in.Code == "" {
		return apperror.ValidationFailed("code", "course code is required")
	}
	if len(in.Code) > 20 {
		return apperror.ValidationFailed("code", "course code must be 20 characters or less")
	}
	if in.Credits < model.MinCourseCredits {
		return apperror.ValidationFailed("credits",
			fmt.Sprintf("credits must be greater than %d", model.MinCourseCredits-1))
	}
	if in.Credits > model.MaxCourseCredits {
		return apperror.ValidationFailed("credits",
			fmt.Sprintf("credits must be less than %d", model.MaxCourseCredits+1))
	}
	if in.Capacity < 0 {
		return apperror.ValidationFailed("capacity", "capacity cannot be negative")
	}
	return nil
}

// Create saves a new course owned by the given lecturer.
func (s *CourseService) Create(ctx context.Context, lecturerID string, in CourseInput) (*model.Course, error) {
	if err := validateCourseInput(&in); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:       in.Title,
		Code:        in.Code,
		Description: in.Description,
		Credits:     in.Credits,
		LecturerID:  lecturerID,
		Capacity:    in.Capacity,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		slog.String("courseID", course.ID),
		slog.String("code", course.Code),
		slog.String("lecturerID", lecturerID),
	)
	return course, nil
}

// GetByID retrieves a single course.
func (s *CourseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "course ID is required")
	}
	return s.courses.GetByID(ctx, id)
}

// List retrieves courses matching the filter, with clamped pagination.
func (s *CourseService) List(ctx context.Context, f repository.CourseFilter) ([]model.Course, error) {
	clampList(&f.ListOptions)
	courses, err := s.courses.List(ctx, f)
	if err != nil {
		s.logger.Error("failed to list courses", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// Update modifies a course. Lecturers may only touch their own courses;
// asAdmin callers bypass the ownership check.
func (s *CourseService) Update(ctx context.Context, callerID string, asAdmin bool, id string, in CourseInput) (*model.Course, error) {
	if err := validateCourseInput(&in); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asAdmin && course.LecturerID != callerID {
		return nil, apperror.Forbidden("you can only modify your own courses")
	}

	course.Title = in.Title
	course.Code = in.Code
	course.Description = in.Description
	course.Credits = in.Credits
	course.Capacity = in.Capacity
	if in.IsActive != nil {
		course.IsActive = *in.IsActive
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course updated", slog.String("courseID", course.ID))
	return course, nil
}

// Delete removes a course (and, via cascade, its enrollments and
// assignments). Same ownership rule as Update.
func (s *CourseService) Delete(ctx context.Context, callerID string, asAdmin bool, id string) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !asAdmin && course.LecturerID != callerID {
		return apperror.Forbidden("you can only delete your own courses")
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("course deleted", slog.String("courseID", id))
	return nil
}
