// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the production implementation;
// tests use hand-written in-memory mocks.
package repository

import (
	"context"

	"github.com/academihub/academihub/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// UserFilter narrows admin user listings. Nil Active means "any".
type UserFilter struct {
	Query  string // substring match on name or email
	Role   model.Role
	Active *bool
	ListOptions
}

// CourseFilter narrows course listings. Nil Active means "any".
type CourseFilter struct {
	Query      string // substring match on title or code
	LecturerID string
	Active     *bool
	ListOptions
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	CourseID  string
	StudentID string
	Status    model.EnrollmentStatus
	ListOptions
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	AssignmentID string
	StudentID    string
	LecturerID   string // submissions for any assignment in this lecturer's courses
	ListOptions
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	TouchLastLogin(ctx context.Context, id string) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, f CourseFilter) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	List(ctx context.Context, f EnrollmentFilter) ([]model.Enrollment, error)
	Update(ctx context.Context, e *model.Enrollment) error
	// ActiveCount returns the number of active enrollments in a course,
	// used to enforce capacity.
	ActiveCount(ctx context.Context, courseID string) (int, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Assignment, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, s *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, f SubmissionFilter) ([]model.Submission, error)
	Update(ctx context.Context, s *model.Submission) error
}

// StatsRepository computes the per-role dashboard aggregates. The shapes
// are a closed union keyed by role; see model.Dashboard.
type StatsRepository interface {
	StudentStats(ctx context.Context, studentID string) (*model.StudentStats, error)
	LecturerStats(ctx context.Context, lecturerID string) (*model.LecturerStats, error)
	AdminStats(ctx context.Context) (*model.AdminStats, error)
}
