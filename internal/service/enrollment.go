package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/email"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// EnrollmentService handles the student enrollment lifecycle and the admin
// approval workflow.
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	mailer      email.Service
	logger      *slog.Logger
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	mailer email.Service,
	logger *slog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		mailer:      mailer,
		logger:      logger,
	}
}

// Enroll creates a pending enrollment for the student in the course.
//
// Rules, in check order:
//   - the course must exist and be active
//   - the student must not already hold a pending or active enrollment in
//     it (rejected and completed ones don't block re-enrolling)
//   - an active-enrollment capacity limit, when the course sets one
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, apperror.ValidationFailed("course_id", "this course is not open for enrollment")
	}

	existing, err := s.enrollments.List(ctx, repository.EnrollmentFilter{
		CourseID:    courseID,
		StudentID:   studentID,
		ListOptions: repository.ListOptions{Limit: MaxListLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("checking existing enrollments: %w", err)
	}
	for _, e := range existing {
		if e.Blocking() {
			return nil, apperror.Conflict("you are already enrolled in this course")
		}
	}

	if course.Capacity > 0 {
		active, err := s.enrollments.ActiveCount(ctx, courseID)
		if err != nil {
			return nil, err
		}
		if active >= course.Capacity {
			return nil, apperror.Conflict("this course is full")
		}
	}

	enrollment := &model.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    model.EnrollmentPending,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	enrollment.CourseTitle = course.Title

	s.logger.Info("enrollment requested",
		slog.String("enrollmentID", enrollment.ID),
		slog.String("courseID", courseID),
		slog.String("studentID", studentID),
	)
	return enrollment, nil
}

// ListOwn returns the student's enrollments across all courses.
func (s *EnrollmentService) ListOwn(ctx context.Context, studentID string, opts repository.ListOptions) ([]model.Enrollment, error) {
	clampList(&opts)
	return s.enrollments.List(ctx, repository.EnrollmentFilter{
		StudentID:   studentID,
		ListOptions: opts,
	})
}

// List is the admin view: all enrollments, optionally filtered by status
// or course.
func (s *EnrollmentService) List(ctx context.Context, f repository.EnrollmentFilter) ([]model.Enrollment, error) {
	clampList(&f.ListOptions)
	return s.enrollments.List(ctx, f)
}

// SetStatus is the admin state transition: approve (→active), reject
// (→rejected) or complete (→completed, with an optional final grade).
// An approval emails the student.
func (s *EnrollmentService) SetStatus(ctx context.Context, id string, status model.EnrollmentStatus, grade *float64) (*model.Enrollment, error) {
	if _, ok := model.ParseEnrollmentStatus(string(status)); !ok {
		return nil, apperror.ValidationFailed("status", "status must be pending, active, rejected or completed")
	}
	if grade != nil && (*grade < 0 || *grade > 100) {
		return nil, apperror.ValidationFailed("grade", "grade must be between 0 and 100")
	}

	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasPending := enrollment.Status == model.EnrollmentPending
	enrollment.Status = status
	if grade != nil {
		enrollment.Grade = grade
	}

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	if wasPending && status == model.EnrollmentActive {
		if student, err := s.users.GetByID(ctx, enrollment.StudentID); err == nil {
			s.mailer.Send(email.Message{
				To:      student.Email,
				Subject: "Enrollment approved",
				Body:    fmt.Sprintf("Your enrollment in %s has been approved.", enrollment.CourseTitle),
			})
		}
	}

	s.logger.Info("enrollment status changed",
		slog.String("enrollmentID", id),
		slog.String("status", string(status)),
	)
	return enrollment, nil
}
