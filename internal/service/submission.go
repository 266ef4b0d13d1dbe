package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/email"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// SubmissionService handles students turning in work and lecturers
// grading it.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	mailer      email.Service
	logger      *slog.Logger
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	mailer email.Service,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		assignments: assignments,
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		mailer:      mailer,
		logger:      logger,
	}
}

// SubmitInput is the payload for POST /api/submissions.
type SubmitInput struct {
	AssignmentID string `json:"assignment_id"`
	Content      string `json:"content"`
	FileURL      string `json:"file_url"`
}

// Submit records a student's answer to an assignment. The student must
// hold an active enrollment in the assignment's course. One submission
// per student per assignment; a second attempt conflicts.
func (s *SubmissionService) Submit(ctx context.Context, studentID string, in SubmitInput) (*model.Submission, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.AssignmentID == "" {
		return nil, apperror.ValidationFailed("assignment_id", "assignment_id is required")
	}
	if in.Content == "" && in.FileURL == "" {
		return nil, apperror.ValidationFailed("content", "a submission needs content or an attached file")
	}

	assignment, err := s.assignments.GetByID(ctx, in.AssignmentID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.List(ctx, repository.EnrollmentFilter{
		CourseID:    assignment.CourseID,
		StudentID:   studentID,
		Status:      model.EnrollmentActive,
		ListOptions: repository.ListOptions{Limit: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("checking enrollment: %w", err)
	}
	if len(enrolled) == 0 {
		return nil, apperror.Forbidden("you must be enrolled in the course to submit")
	}

	submission := &model.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		Content:      in.Content,
		FileURL:      in.FileURL,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("submission received",
		slog.String("submissionID", submission.ID),
		slog.String("assignmentID", assignment.ID),
	)
	return submission, nil
}

// List returns submissions scoped by the caller's role: students see their
// own, lecturers see submissions across their courses, admins see
// everything. The assignment filter narrows any of the three.
func (s *SubmissionService) List(ctx context.Context, callerID string, role model.Role, assignmentID string, opts repository.ListOptions) ([]model.Submission, error) {
	clampList(&opts)

	f := repository.SubmissionFilter{
		AssignmentID: assignmentID,
		ListOptions:  opts,
	}
	switch role {
	case model.RoleStudent:
		f.StudentID = callerID
	case model.RoleLecturer:
		f.LecturerID = callerID
	case model.RoleAdmin:
		// unscoped
	default:
		return nil, apperror.Forbidden(fmt.Sprintf("unknown role %q", role))
	}

	return s.submissions.List(ctx, f)
}

// GradeInput is the payload for PUT /api/submissions/{id}/grade.
type GradeInput struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

// Grade records a grade and feedback on a submission. Only the lecturer
// who owns the assignment's course may grade it; grades are 0–100
// inclusive. The student is emailed.
func (s *SubmissionService) Grade(ctx context.Context, lecturerID, submissionID string, in GradeInput) (*model.Submission, error) {
	if in.Grade < 0 || in.Grade > 100 {
		return nil, apperror.ValidationFailed("grade", "grade must be between 0 and 100")
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if course.LecturerID != lecturerID {
		return nil, apperror.Forbidden("you can only grade submissions in your own courses")
	}

	now := time.Now()
	submission.Grade = &in.Grade
	submission.Feedback = strings.TrimSpace(in.Feedback)
	submission.GradedAt = &now

	if err := s.submissions.Update(ctx, submission); err != nil {
		return nil, err
	}

	if student, err := s.users.GetByID(ctx, submission.StudentID); err == nil {
		s.mailer.Send(email.Message{
			To:      student.Email,
			Subject: fmt.Sprintf("Graded: %s", assignment.Title),
			Body:    fmt.Sprintf("Your submission for %q received %.1f/%d.", assignment.Title, in.Grade, assignment.MaxPoints),
		})
	}

	s.logger.Info("submission graded",
		slog.String("submissionID", submissionID),
		slog.Float64("grade", in.Grade),
	)
	return submission, nil
}
