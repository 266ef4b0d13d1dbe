package model

import "time"

// EnrollmentStatus is the lifecycle of a student's membership in a course.
//
//	pending  → created by POST /courses/{id}/enroll, awaiting admin approval
//	active   → approved; counts toward course capacity and student stats
//	rejected → denied by an admin; the student may enroll again later
//	completed → course finished; the grade (if any) is final
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentRejected  EnrollmentStatus = "rejected"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// ParseEnrollmentStatus validates a raw status string.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, bool) {
	switch EnrollmentStatus(s) {
	case EnrollmentPending, EnrollmentActive, EnrollmentRejected, EnrollmentCompleted:
		return EnrollmentStatus(s), true
	}
	return "", false
}

// Enrollment links a student to a course.
// Grade is a pointer because "no grade yet" and "grade 0" are different facts.
type Enrollment struct {
	ID         string           `json:"id"          db:"id"`
	CourseID   string           `json:"course_id"   db:"course_id"`
	StudentID  string           `json:"student_id"  db:"student_id"`
	Status     EnrollmentStatus `json:"status"      db:"status"`
	Grade      *float64         `json:"grade,omitempty" db:"grade"`
	EnrolledAt time.Time        `json:"enrolled_at" db:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updated_at"  db:"updated_at"`

	// CourseTitle is joined in on list queries so clients don't need a
	// second fetch per row. Not a column on the enrollments table.
	CourseTitle string `json:"course_title,omitempty" db:"-"`
}

// Blocking reports whether this enrollment prevents the student from
// enrolling in the same course again. Rejected and completed enrollments
// don't block a fresh attempt.
func (e Enrollment) Blocking() bool {
	return e.Status == EnrollmentPending || e.Status == EnrollmentActive
}
