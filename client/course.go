package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Course credit bounds, shared with the server. The messages below quote
// the numbers just outside the range, matching the server's validation
// text exactly so callers see one wording regardless of which side
// rejected the value.
const (
	minCourseCredits = 1
	maxCourseCredits = 10
)

// CourseInput is the payload for creating or updating a course.
type CourseInput struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	Capacity    int    `json:"capacity"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// checkCourseInput is the client-side half of the validation contract:
// out-of-range credits are rejected locally and no request is issued.
func checkCourseInput(in CourseInput) error {
	if in.Credits < minCourseCredits {
		return &Error{
			Kind:    KindValidation,
			Field:   "credits",
			Message: fmt.Sprintf("credits must be greater than %d", minCourseCredits-1),
		}
	}
	if in.Credits > maxCourseCredits {
		return &Error{
			Kind:    KindValidation,
			Field:   "credits",
			Message: fmt.Sprintf("credits must be less than %d", maxCourseCredits+1),
		}
	}
	return nil
}

// CourseQuery filters and paginates the course catalogue.
type CourseQuery struct {
	Q          string
	LecturerID string
	Active     *bool
	Limit      int
	Offset     int
}

func (q CourseQuery) values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.LecturerID != "" {
		v.Set("lecturer_id", q.LecturerID)
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

// Courses lists the catalogue.
func (c *Client) Courses(ctx context.Context, q CourseQuery) ([]Course, error) {
	var courses []Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", q.values(), nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course fetches a single course.
func (c *Client) Course(ctx context.Context, id string) (*Course, error) {
	var course Course
	if err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(id), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course owned by the calling lecturer.
func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	if err := checkCourseInput(in); err != nil {
		return nil, err
	}
	var course Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse edits one of the calling lecturer's courses.
func (c *Client) UpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	if err := checkCourseInput(in); err != nil {
		return nil, err
	}
	var course Course
	if err := c.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(id), nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes one of the calling lecturer's courses.
func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/courses/"+url.PathEscape(id), nil, nil, nil)
}

// Enroll requests enrollment in a course.
//
// If the most recently fetched enrollments list already shows a pending
// or active enrollment in the course, Enroll short-circuits with
// ErrAlreadyEnrolled and no request is issued — the server would reject
// it with the same conflict anyway, so the round-trip is pure waste. The
// local list can be stale; the server check remains authoritative for
// anything it missed.
func (c *Client) Enroll(ctx context.Context, courseID string) (*Enrollment, error) {
	c.mu.Lock()
	for _, e := range c.lastEnrollments {
		if e.CourseID == courseID && e.Blocking() {
			c.mu.Unlock()
			return nil, ErrAlreadyEnrolled
		}
	}
	c.mu.Unlock()

	var enrollment Enrollment
	err := c.do(ctx, http.MethodPost, "/api/courses/"+url.PathEscape(courseID)+"/enroll", nil, nil, &enrollment)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastEnrollments = append(c.lastEnrollments, enrollment)
	c.mu.Unlock()
	return &enrollment, nil
}

// Enrollments lists the caller's enrollments and remembers the result for
// Enroll's duplicate check.
func (c *Client) Enrollments(ctx context.Context) ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := c.do(ctx, http.MethodGet, "/api/enrollments", nil, nil, &enrollments); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastEnrollments = enrollments
	c.mu.Unlock()
	return enrollments, nil
}
