package client

import "time"

// Wire types mirroring the server's JSON shapes. The client holds only
// transient copies of server-owned records; nothing here is a source of
// truth except the Session.

// Role is the account role driving dashboard dispatch.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// Known reports whether r is one of the three roles this client can
// dispatch on.
func (r Role) Known() bool {
	return r == RoleStudent || r == RoleLecturer || r == RoleAdmin
}

// User is a profile as the API returns it. Password material never
// appears on the wire.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Credits     int       `json:"credits"`
	LecturerID  string    `json:"lecturer_id"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	StudentID   string    `json:"student_id"`
	Status      string    `json:"status"` // pending, active, rejected, completed
	Grade       *float64  `json:"grade,omitempty"`
	EnrolledAt  time.Time `json:"enrolled_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseTitle string    `json:"course_title,omitempty"`
}

// Blocking reports whether this enrollment prevents enrolling in the same
// course again.
func (e Enrollment) Blocking() bool {
	return e.Status == "pending" || e.Status == "active"
}

type Assignment struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"course_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DueDate       time.Time `json:"due_date"`
	MaxPoints     int       `json:"max_points"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Submission struct {
	ID           string     `json:"id"`
	AssignmentID string     `json:"assignment_id"`
	StudentID    string     `json:"student_id"`
	Content      string     `json:"content"`
	FileURL      string     `json:"file_url,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	Grade        *float64   `json:"grade,omitempty"`
	Feedback     string     `json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
}

// Dashboard is the closed union of per-role stats shapes, mirroring the
// server's. Exactly one variant is fetched per session, selected by the
// persisted user's role.
type Dashboard interface {
	dashboard()
}

type StudentStats struct {
	TotalCourses     int     `json:"total_courses"`
	CompletedCourses int     `json:"completed_courses"`
	ActiveCourses    int     `json:"active_courses"`
	AverageGrade     float64 `json:"average_grade"`
}

type LecturerStats struct {
	TotalCourses  int `json:"total_courses"`
	TotalStudents int `json:"total_students"`
	ActiveCourses int `json:"active_courses"`
}

type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	TotalCourses       int `json:"total_courses"`
	PendingEnrollments int `json:"pending_enrollments"`
}

func (*StudentStats) dashboard()  {}
func (*LecturerStats) dashboard() {}
func (*AdminStats) dashboard()    {}

// SyllabusWeek is one row of a generated course outline.
type SyllabusWeek struct {
	Week    int    `json:"week"`
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
}

type Syllabus struct {
	Title string         `json:"title"`
	Weeks []SyllabusWeek `json:"weeks"`
}

// Recommendation is a suggested course for the calling student.
type Recommendation struct {
	Course Course `json:"course"`
	Reason string `json:"reason"`
}
