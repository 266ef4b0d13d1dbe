package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Admin operations. The server enforces the admin role on all of these;
// calling them with any other session yields a KindAuth error.

// UserQuery filters and paginates the admin user list.
type UserQuery struct {
	Q      string
	Role   Role
	Active *bool
	Limit  int
	Offset int
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Role != "" {
		v.Set("role", string(q.Role))
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// AdminUserInput creates or updates an account as admin. Password is
// required on create and optional on update (empty keeps the current one).
type AdminUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (c *Client) AdminUsers(ctx context.Context, q UserQuery) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", q.values(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) AdminCreateUser(ctx context.Context, in AdminUserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id string, in AdminUserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(id), nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminDeactivateUser is the admin "delete": the account is switched off,
// never removed.
func (c *Client) AdminDeactivateUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil, nil)
}

// AdminCourseInput is a course payload with an explicit owner, used when
// an admin creates a course on a lecturer's behalf.
type AdminCourseInput struct {
	CourseInput
	LecturerID string `json:"lecturer_id"`
}

func (c *Client) AdminCourses(ctx context.Context, q CourseQuery) ([]Course, error) {
	var courses []Course
	if err := c.do(ctx, http.MethodGet, "/api/admin/courses", q.values(), nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) AdminCreateCourse(ctx context.Context, in AdminCourseInput) (*Course, error) {
	if err := checkCourseInput(in.CourseInput); err != nil {
		return nil, err
	}
	var course Course
	if err := c.do(ctx, http.MethodPost, "/api/admin/courses", nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) AdminUpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	if err := checkCourseInput(in); err != nil {
		return nil, err
	}
	var course Course
	if err := c.do(ctx, http.MethodPut, "/api/admin/courses/"+url.PathEscape(id), nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// AdminDeleteCourse hard-deletes any course regardless of owner.
func (c *Client) AdminDeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/courses/"+url.PathEscape(id), nil, nil, nil)
}

// EnrollmentQuery filters the admin enrollment queue.
type EnrollmentQuery struct {
	Status   string
	CourseID string
	Limit    int
	Offset   int
}

func (q EnrollmentQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.CourseID != "" {
		v.Set("course_id", q.CourseID)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func (c *Client) AdminEnrollments(ctx context.Context, q EnrollmentQuery) ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := c.do(ctx, http.MethodGet, "/api/admin/enrollments", q.values(), nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// AdminSetEnrollment approves ("active"), rejects or completes an
// enrollment; grade only applies when completing.
func (c *Client) AdminSetEnrollment(ctx context.Context, id, status string, grade *float64) (*Enrollment, error) {
	var e Enrollment
	err := c.do(ctx, http.MethodPut, "/api/admin/enrollments/"+url.PathEscape(id), nil, map[string]any{
		"status": status,
		"grade":  grade,
	}, &e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AdminStatsReport fetches the platform-wide numbers.
func (c *Client) AdminStatsReport(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
