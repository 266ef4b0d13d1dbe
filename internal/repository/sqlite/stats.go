package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// StatsDB implements repository.StatsRepository with aggregate queries.
// Stats are computed fresh on every call and never cached or persisted —
// they're dashboard numbers, not records.
type StatsDB struct {
	conn *sql.DB
}

// Stats returns the stats repository view of this database.
func (db *DB) Stats() *StatsDB {
	return &StatsDB{conn: db.conn}
}

var _ repository.StatsRepository = (*StatsDB)(nil)

func (r *StatsDB) StudentStats(ctx context.Context, studentID string) (*model.StudentStats, error) {
	var s model.StudentStats

	// COALESCE keeps AVG from coming back NULL when no graded enrollment
	// exists yet; a fresh student sees 0.0, not an error.
	err := r.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('pending','active','completed')),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'active'),
			COALESCE(AVG(grade) FILTER (WHERE grade IS NOT NULL), 0)
		FROM enrollments WHERE student_id = ?`,
		studentID,
	).Scan(&s.TotalCourses, &s.CompletedCourses, &s.ActiveCourses, &s.AverageGrade)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing student stats for %s: %w", studentID, err)
	}

	return &s, nil
}

func (r *StatsDB) LecturerStats(ctx context.Context, lecturerID string) (*model.LecturerStats, error) {
	var s model.LecturerStats

	err := r.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active = 1)
		FROM courses WHERE lecturer_id = ?`,
		lecturerID,
	).Scan(&s.TotalCourses, &s.ActiveCourses)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing lecturer stats for %s: %w", lecturerID, err)
	}

	// Distinct students across all of the lecturer's courses — a student
	// enrolled in two of their courses counts once.
	err = r.conn.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT e.student_id)
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE c.lecturer_id = ? AND e.status = 'active'`,
		lecturerID,
	).Scan(&s.TotalStudents)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting lecturer students for %s: %w", lecturerID, err)
	}

	return &s, nil
}

func (r *StatsDB) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var s model.AdminStats

	err := r.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM enrollments WHERE status = 'pending')`,
	).Scan(&s.TotalUsers, &s.TotalCourses, &s.PendingEnrollments)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing admin stats: %w", err)
	}

	return &s, nil
}
