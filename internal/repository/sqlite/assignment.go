package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// AssignmentDB implements repository.AssignmentRepository.
type AssignmentDB struct {
	conn *sql.DB
}

// Assignments returns the assignment repository view of this database.
func (db *DB) Assignments() *AssignmentDB {
	return &AssignmentDB{conn: db.conn}
}

var _ repository.AssignmentRepository = (*AssignmentDB)(nil)

const assignmentColumns = `id, course_id, title, description, due_date, max_points, attachment_url, created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	err := row.Scan(
		&a.ID,
		&a.CourseID,
		&a.Title,
		&a.Description,
		&a.DueDate,
		&a.MaxPoints,
		&a.AttachmentURL,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentDB) Create(ctx context.Context, a *model.Assignment) error {
	a.ID = xid.New().String()
	a.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO assignments (id, course_id, title, description, due_date, max_points, attachment_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.CourseID,
		a.Title,
		a.Description,
		a.DueDate,
		a.MaxPoints,
		a.AttachmentURL,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting assignment (course=%s): %w", a.CourseID, err)
	}

	return nil
}

func (r *AssignmentDB) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = ?`, id)

	a, err := scanAssignment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("assignment", id)
		}
		return nil, fmt.Errorf("sqlite: getting assignment %s: %w", id, err)
	}
	return a, nil
}

func (r *AssignmentDB) ListByCourse(ctx context.Context, courseID string) ([]model.Assignment, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE course_id = ? ORDER BY due_date ASC`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing assignments for course %s: %w", courseID, err)
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning assignment row: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// SubmissionDB implements repository.SubmissionRepository.
type SubmissionDB struct {
	conn *sql.DB
}

// Submissions returns the submission repository view of this database.
func (db *DB) Submissions() *SubmissionDB {
	return &SubmissionDB{conn: db.conn}
}

var _ repository.SubmissionRepository = (*SubmissionDB)(nil)

const submissionColumns = `id, assignment_id, student_id, content, file_url, submitted_at, grade, feedback, graded_at`

func scanSubmission(row interface{ Scan(...any) error }) (*model.Submission, error) {
	var s model.Submission
	err := row.Scan(
		&s.ID,
		&s.AssignmentID,
		&s.StudentID,
		&s.Content,
		&s.FileURL,
		&s.SubmittedAt,
		&s.Grade,
		&s.Feedback,
		&s.GradedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionDB) Create(ctx context.Context, s *model.Submission) error {
	s.ID = xid.New().String()
	s.SubmittedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO submissions (id, assignment_id, student_id, content, file_url, submitted_at, feedback)
		 VALUES (?, ?, ?, ?, ?, ?, '')`,
		s.ID,
		s.AssignmentID,
		s.StudentID,
		s.Content,
		s.FileURL,
		s.SubmittedAt,
	)
	if err != nil {
		// One submission per student per assignment (UNIQUE constraint).
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperror.Conflict("you have already submitted for this assignment")
		}
		return fmt.Errorf("sqlite: inserting submission (assignment=%s student=%s): %w", s.AssignmentID, s.StudentID, err)
	}

	return nil
}

func (r *SubmissionDB) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	s, err := scanSubmission(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("submission", id)
		}
		return nil, fmt.Errorf("sqlite: getting submission %s: %w", id, err)
	}
	return s, nil
}

func (r *SubmissionDB) List(ctx context.Context, f repository.SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT s.id, s.assignment_id, s.student_id, s.content, s.file_url, s.submitted_at, s.grade, s.feedback, s.graded_at
	          FROM submissions s`
	var args []any

	// Lecturer scope needs a join up to the course's owner.
	if f.LecturerID != "" {
		query += ` JOIN assignments a ON a.id = s.assignment_id
		           JOIN courses c ON c.id = a.course_id`
	}
	query += ` WHERE 1=1`
	if f.LecturerID != "" {
		query += ` AND c.lecturer_id = ?`
		args = append(args, f.LecturerID)
	}
	if f.AssignmentID != "" {
		query += ` AND s.assignment_id = ?`
		args = append(args, f.AssignmentID)
	}
	if f.StudentID != "" {
		query += ` AND s.student_id = ?`
		args = append(args, f.StudentID)
	}

	query += ` ORDER BY s.submitted_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning submission row: %w", err)
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

func (r *SubmissionDB) Update(ctx context.Context, s *model.Submission) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE submissions SET content = ?, file_url = ?, grade = ?, feedback = ?, graded_at = ? WHERE id = ?`,
		s.Content,
		s.FileURL,
		s.Grade,
		s.Feedback,
		s.GradedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating submission %s: %w", s.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating submission %s: %w", s.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("submission", s.ID)
	}
	return nil
}
