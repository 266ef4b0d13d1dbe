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

// CourseDB implements repository.CourseRepository.
type CourseDB struct {
	conn *sql.DB
}

// Courses returns the course repository view of this database.
func (db *DB) Courses() *CourseDB {
	return &CourseDB{conn: db.conn}
}

var _ repository.CourseRepository = (*CourseDB)(nil)

const courseColumns = `id, title, code, description, credits, lecturer_id, capacity, is_active, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Code,
		&c.Description,
		&c.Credits,
		&c.LecturerID,
		&c.Capacity,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseDB) Create(ctx context.Context, course *model.Course) error {
	now := time.Now()
	course.ID = xid.New().String()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO courses (id, title, code, description, credits, lecturer_id, capacity, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.Title,
		course.Code,
		course.Description,
		course.Credits,
		course.LecturerID,
		course.Capacity,
		course.IsActive,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperror.Conflict(fmt.Sprintf("a course with code %s already exists", course.Code))
		}
		return fmt.Errorf("sqlite: inserting course (code=%s): %w", course.Code, err)
	}

	return nil
}

func (r *CourseDB) GetByID(ctx context.Context, id string) (*model.Course, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)

	c, err := scanCourse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("course", id)
		}
		return nil, fmt.Errorf("sqlite: getting course %s: %w", id, err)
	}
	return c, nil
}

func (r *CourseDB) List(ctx context.Context, f repository.CourseFilter) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE 1=1`
	var args []any

	if f.Query != "" {
		query += ` AND (title LIKE ? OR code LIKE ?)`
		like := "%" + f.Query + "%"
		args = append(args, like, like)
	}
	if f.LecturerID != "" {
		query += ` AND lecturer_id = ?`
		args = append(args, f.LecturerID)
	}
	if f.Active != nil {
		query += ` AND is_active = ?`
		args = append(args, *f.Active)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning course row: %w", err)
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *CourseDB) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE courses SET title = ?, code = ?, description = ?, credits = ?, capacity = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		course.Title,
		course.Code,
		course.Description,
		course.Credits,
		course.Capacity,
		course.IsActive,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperror.Conflict(fmt.Sprintf("a course with code %s already exists", course.Code))
		}
		return fmt.Errorf("sqlite: updating course %s: %w", course.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating course %s: %w", course.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("course", course.ID)
	}
	return nil
}

func (r *CourseDB) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting course %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting course %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("course", id)
	}
	return nil
}
