package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
)

// countingHandler wraps a handler and counts the requests that actually
// reach it, so tests can prove a call was rejected locally.
type countingHandler struct {
	requests atomic.Int64
	inner    http.Handler
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.requests.Add(1)
	h.inner.ServeHTTP(w, r)
}

// =========================================================================
// CLIENT-SIDE CREDIT VALIDATION
// =========================================================================

func TestClient_CreateCourseRejectsCreditsLocally(t *testing.T) {
	handler := &countingHandler{inner: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, Course{ID: "c1"})
	})}
	c, _ := newTestClient(t, handler)
	loginAs(c, RoleLecturer, "tok-abc")

	cases := []struct {
		credits int
		message string
	}{
		{0, "credits must be greater than 0"},
		{-3, "credits must be greater than 0"},
		{11, "credits must be less than 11"},
		{99, "credits must be less than 11"},
	}
	for _, tc := range cases {
		_, err := c.CreateCourse(context.Background(), CourseInput{
			Title: "Compilers", Code: "CS401", Credits: tc.credits,
		})
		apiErr := asError(t, err)
		if apiErr.Kind != KindValidation {
			t.Errorf("credits %d: Kind = %v, want KindValidation", tc.credits, apiErr.Kind)
		}
		if apiErr.Field != "credits" {
			t.Errorf("credits %d: Field = %q, want credits", tc.credits, apiErr.Field)
		}
		// The wording matches the server's own validation text so the
		// caller sees one message whichever side rejects the value.
		if apiErr.Message != tc.message {
			t.Errorf("credits %d: Message = %q, want %q", tc.credits, apiErr.Message, tc.message)
		}
	}

	if got := handler.requests.Load(); got != 0 {
		t.Errorf("local rejections issued %d requests, want 0", got)
	}

	// Both bounds are inclusive: 1 and 10 go through to the server.
	for _, ok := range []int{1, 10} {
		if _, err := c.CreateCourse(context.Background(), CourseInput{
			Title: "Compilers", Code: "CS401", Credits: ok,
		}); err != nil {
			t.Errorf("credits %d: unexpected error %v", ok, err)
		}
	}
	if got := handler.requests.Load(); got != 2 {
		t.Errorf("in-range creates issued %d requests, want 2", got)
	}
}

func TestClient_UpdateCourseRejectsCreditsLocally(t *testing.T) {
	handler := &countingHandler{inner: http.NotFoundHandler()}
	c, _ := newTestClient(t, handler)
	loginAs(c, RoleLecturer, "tok-abc")

	_, err := c.UpdateCourse(context.Background(), "c1", CourseInput{Title: "Compilers", Code: "CS401", Credits: 0})
	if asError(t, err).Field != "credits" {
		t.Errorf("err = %v", err)
	}
	if got := handler.requests.Load(); got != 0 {
		t.Errorf("local rejection issued %d requests, want 0", got)
	}
}

// =========================================================================
// CATALOGUE QUERIES
// =========================================================================

func TestClient_CoursesSendsQueryParams(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []Course{})
	}))

	active := true
	if _, err := c.Courses(context.Background(), CourseQuery{
		Q: "algebra", Active: &active, Limit: 10, Offset: 20,
	}); err != nil {
		t.Fatalf("Courses: %v", err)
	}

	for _, want := range []string{"q=algebra", "active=true", "limit=10", "offset=20"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

// =========================================================================
// ENROLL SHORT-CIRCUIT
// =========================================================================

func TestClient_EnrollShortCircuitsKnownEnrollments(t *testing.T) {
	enrollments := []Enrollment{
		{ID: "e1", CourseID: "c-active", StudentID: "u1", Status: "active"},
		{ID: "e2", CourseID: "c-pending", StudentID: "u1", Status: "pending"},
		{ID: "e3", CourseID: "c-rejected", StudentID: "u1", Status: "rejected"},
		{ID: "e4", CourseID: "c-completed", StudentID: "u1", Status: "completed"},
	}
	handler := &countingHandler{inner: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, enrollments)
		default:
			// POST .../enroll for a course the cache does not block.
			writeJSON(w, http.StatusCreated, Enrollment{ID: "e5", CourseID: "c-new", StudentID: "u1", Status: "pending"})
		}
	})}
	c, _ := newTestClient(t, handler)
	loginAs(c, RoleStudent, "tok-abc")

	if _, err := c.Enrollments(context.Background()); err != nil {
		t.Fatalf("Enrollments: %v", err)
	}
	afterList := handler.requests.Load()

	// Pending and active enrollments block without touching the wire.
	for _, courseID := range []string{"c-active", "c-pending"} {
		_, err := c.Enroll(context.Background(), courseID)
		if !errors.Is(err, ErrAlreadyEnrolled) {
			t.Errorf("Enroll(%s): err = %v, want ErrAlreadyEnrolled", courseID, err)
		}
	}
	if got := handler.requests.Load(); got != afterList {
		t.Errorf("short-circuited enrolls issued %d extra requests", got-afterList)
	}

	// Rejected and completed enrollments do not block a retry.
	for _, courseID := range []string{"c-rejected", "c-completed", "c-new"} {
		if _, err := c.Enroll(context.Background(), courseID); err != nil {
			t.Errorf("Enroll(%s): %v", courseID, err)
		}
	}
}

func TestClient_EnrollRemembersNewEnrollment(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, Enrollment{ID: "e1", CourseID: "c1", StudentID: "u1", Status: "pending"})
	}))
	loginAs(c, RoleStudent, "tok-abc")

	if _, err := c.Enroll(context.Background(), "c1"); err != nil {
		t.Fatalf("first Enroll: %v", err)
	}

	// The fresh enrollment joins the local cache, so a repeat is caught
	// before the server ever sees it.
	_, err := c.Enroll(context.Background(), "c1")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second Enroll: err = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestClient_EnrollWithEmptyCacheHitsServer(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusConflict, "conflict", "you already have an enrollment in this course", "")
	}))
	loginAs(c, RoleStudent, "tok-abc")

	// Nothing cached: the server stays authoritative and its conflict
	// comes back verbatim.
	_, err := c.Enroll(context.Background(), "c1")
	apiErr := asError(t, err)
	if apiErr.Kind != KindConflict || apiErr.Status != http.StatusConflict {
		t.Errorf("err = %v", apiErr)
	}
}

func TestClient_SubmitAssignment(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, Submission{
			ID: "s1", AssignmentID: in["assignment_id"], StudentID: "u1", Content: in["content"],
		})
	}))
	loginAs(c, RoleStudent, "tok-abc")

	sub, err := c.Submit(context.Background(), SubmitInput{AssignmentID: "a1", Content: "my answer"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.AssignmentID != "a1" || sub.Content != "my answer" {
		t.Errorf("submission = %+v", sub)
	}
}
