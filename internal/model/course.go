package model

import "time"

// Course credit bounds. The numbers are part of the validation contract —
// error messages quote them, and both the server and the client SDK enforce
// the same range.
const (
	MinCourseCredits = 1
	MaxCourseCredits = 10
)

// Course represents a course offered by a lecturer.
type Course struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Code        string    `json:"code"        db:"code"` // short catalogue code, e.g. "CS101"
	Description string    `json:"description" db:"description"`
	Credits     int       `json:"credits"     db:"credits"`
	LecturerID  string    `json:"lecturer_id" db:"lecturer_id"`
	Capacity    int       `json:"capacity"    db:"capacity"` // 0 means unlimited
	IsActive    bool      `json:"is_active"   db:"is_active"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}
