package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// EnrollmentDB implements repository.EnrollmentRepository.
type EnrollmentDB struct {
	conn *sql.DB
}

// Enrollments returns the enrollment repository view of this database.
func (db *DB) Enrollments() *EnrollmentDB {
	return &EnrollmentDB{conn: db.conn}
}

var _ repository.EnrollmentRepository = (*EnrollmentDB)(nil)

func (r *EnrollmentDB) Create(ctx context.Context, e *model.Enrollment) error {
	now := time.Now()
	e.ID = xid.New().String()
	e.EnrolledAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = model.EnrollmentPending
	}

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO enrollments (id, course_id, student_id, status, grade, enrolled_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.CourseID,
		e.StudentID,
		e.Status,
		e.Grade,
		e.EnrolledAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting enrollment (course=%s student=%s): %w", e.CourseID, e.StudentID, err)
	}

	return nil
}

func (r *EnrollmentDB) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT e.id, e.course_id, e.student_id, e.status, e.grade, e.enrolled_at, e.updated_at, c.title
		 FROM enrollments e JOIN courses c ON c.id = e.course_id
		 WHERE e.id = ?`, id)

	e, err := scanEnrollment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("enrollment", id)
		}
		return nil, fmt.Errorf("sqlite: getting enrollment %s: %w", id, err)
	}
	return e, nil
}

func scanEnrollment(row interface{ Scan(...any) error }) (*model.Enrollment, error) {
	var e model.Enrollment
	err := row.Scan(
		&e.ID,
		&e.CourseID,
		&e.StudentID,
		&e.Status,
		&e.Grade,
		&e.EnrolledAt,
		&e.UpdatedAt,
		&e.CourseTitle,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentDB) List(ctx context.Context, f repository.EnrollmentFilter) ([]model.Enrollment, error) {
	// Course title is joined in so list consumers don't need a fetch per row.
	query := `SELECT e.id, e.course_id, e.student_id, e.status, e.grade, e.enrolled_at, e.updated_at, c.title
	          FROM enrollments e JOIN courses c ON c.id = e.course_id
	          WHERE 1=1`
	var args []any

	if f.CourseID != "" {
		query += ` AND e.course_id = ?`
		args = append(args, f.CourseID)
	}
	if f.StudentID != "" {
		query += ` AND e.student_id = ?`
		args = append(args, f.StudentID)
	}
	if f.Status != "" {
		query += ` AND e.status = ?`
		args = append(args, f.Status)
	}

	query += ` ORDER BY e.enrolled_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentDB) Update(ctx context.Context, e *model.Enrollment) error {
	e.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE enrollments SET status = ?, grade = ?, updated_at = ? WHERE id = ?`,
		e.Status,
		e.Grade,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating enrollment %s: %w", e.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating enrollment %s: %w", e.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("enrollment", e.ID)
	}
	return nil
}

func (r *EnrollmentDB) ActiveCount(ctx context.Context, courseID string) (int, error) {
	var n int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id = ? AND status = ?`,
		courseID, model.EnrollmentActive,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting active enrollments for course %s: %w", courseID, err)
	}
	return n, nil
}
