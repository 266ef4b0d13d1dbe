package model

// Dashboard is the closed union of per-role stats shapes. Exactly one
// variant exists per session, selected by the user's role.
//
// CLOSED UNION IN GO:
// Go has no sum types, so we use the sealed-interface idiom: an interface
// with an unexported marker method that only types in this package can
// implement. A caller switching on the concrete type can rely on the set
// being exactly {StudentStats, LecturerStats, AdminStats}.
type Dashboard interface {
	dashboard()
}

// StudentStats summarises a student's enrollments and grades.
type StudentStats struct {
	TotalCourses     int     `json:"total_courses"`
	CompletedCourses int     `json:"completed_courses"`
	ActiveCourses    int     `json:"active_courses"`
	AverageGrade     float64 `json:"average_grade"`
}

// LecturerStats summarises a lecturer's courses and their reach.
type LecturerStats struct {
	TotalCourses  int `json:"total_courses"`
	TotalStudents int `json:"total_students"`
	ActiveCourses int `json:"active_courses"`
}

// AdminStats summarises the whole platform.
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	TotalCourses       int `json:"total_courses"`
	PendingEnrollments int `json:"pending_enrollments"`
}

func (StudentStats) dashboard()  {}
func (LecturerStats) dashboard() {}
func (AdminStats) dashboard()    {}
