package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/upload"
)

// AssignmentService handles coursework published by lecturers.
type AssignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	files       upload.Store
	logger      *slog.Logger
}

func NewAssignmentService(
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	files upload.Store,
	logger *slog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		courses:     courses,
		files:       files,
		logger:      logger,
	}
}

// AssignmentInput is the payload for POST /api/assignments. The optional
// briefing document arrives separately as a multipart file.
type AssignmentInput struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	MaxPoints   int       `json:"max_points"`
}

// Attachment is an optional uploaded document accompanying an assignment.
type Attachment struct {
	Filename string
	Reader   io.Reader
}

// Create publishes an assignment on one of the lecturer's own courses.
func (s *AssignmentService) Create(ctx context.Context, lecturerID string, in AssignmentInput, doc *Attachment) (*model.Assignment, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "assignment title is required")
	}
	if in.DueDate.IsZero() {
		return nil, apperror.ValidationFailed("due_date", "due date is required")
	}
	if in.MaxPoints <= 0 {
		in.MaxPoints = 100
	}

	course, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	if course.LecturerID != lecturerID {
		return nil, apperror.Forbidden("you can only add assignments to your own courses")
	}

	assignment := &model.Assignment{
		CourseID:    course.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		MaxPoints:   in.MaxPoints,
	}

	if doc != nil {
		if s.files == nil {
			return nil, apperror.Unavailable("file uploads are not configured")
		}
		if err := upload.CheckDocument(doc.Filename); err != nil {
			return nil, err
		}
		url, err := s.files.Save(ctx, upload.Key("assignments", doc.Filename), doc.Reader)
		if err != nil {
			return nil, fmt.Errorf("service/assignment: storing attachment: %w", err)
		}
		assignment.AttachmentURL = url
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("assignment created",
		slog.String("assignmentID", assignment.ID),
		slog.String("courseID", course.ID),
	)
	return assignment, nil
}

// ListByCourse returns a course's assignments, oldest due date first.
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID string) ([]model.Assignment, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, apperror.ValidationFailed("course_id", "course_id is required")
	}

	// Existence check so an unknown course 404s instead of listing empty.
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	return s.assignments.ListByCourse(ctx, courseID)
}
