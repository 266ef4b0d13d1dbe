package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

// statsHandler serves every role's stats fields in one body; the client
// decodes only the shape its dispatch picked.
func statsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total_courses":       4,
			"completed_courses":   1,
			"active_courses":      2,
			"average_grade":       81.5,
			"total_students":      37,
			"total_users":         120,
			"pending_enrollments": 9,
		})
	})
}

func TestFetchDashboard_DispatchesOnRole(t *testing.T) {
	t.Run("student", func(t *testing.T) {
		c, _ := newTestClient(t, statsHandler())
		loginAs(c, RoleStudent, "tok-abc")

		got, err := c.FetchDashboard(context.Background())
		if err != nil {
			t.Fatalf("FetchDashboard: %v", err)
		}
		stats, ok := got.(*StudentStats)
		if !ok {
			t.Fatalf("got %T, want *StudentStats", got)
		}
		if stats.TotalCourses != 4 || stats.AverageGrade != 81.5 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("lecturer", func(t *testing.T) {
		c, _ := newTestClient(t, statsHandler())
		loginAs(c, RoleLecturer, "tok-abc")

		got, err := c.FetchDashboard(context.Background())
		if err != nil {
			t.Fatalf("FetchDashboard: %v", err)
		}
		stats, ok := got.(*LecturerStats)
		if !ok {
			t.Fatalf("got %T, want *LecturerStats", got)
		}
		if stats.TotalStudents != 37 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("admin", func(t *testing.T) {
		c, _ := newTestClient(t, statsHandler())
		loginAs(c, RoleAdmin, "tok-abc")

		got, err := c.FetchDashboard(context.Background())
		if err != nil {
			t.Fatalf("FetchDashboard: %v", err)
		}
		stats, ok := got.(*AdminStats)
		if !ok {
			t.Fatalf("got %T, want *AdminStats", got)
		}
		if stats.TotalUsers != 120 || stats.PendingEnrollments != 9 {
			t.Errorf("stats = %+v", stats)
		}
	})
}

func TestFetchDashboard_LoggedOut(t *testing.T) {
	handler := &countingHandler{inner: statsHandler()}
	c, _ := newTestClient(t, handler)

	got, err := c.FetchDashboard(context.Background())
	if !errors.Is(err, ErrLoggedOut) {
		t.Errorf("err = %v, want ErrLoggedOut", err)
	}
	if got != nil {
		t.Errorf("dashboard = %v, want nil", got)
	}
	if handler.requests.Load() != 0 {
		t.Error("logged-out dispatch should not touch the server")
	}
}

func TestFetchDashboard_UnknownRole(t *testing.T) {
	handler := &countingHandler{inner: statsHandler()}
	c, _ := newTestClient(t, handler)
	loginAs(c, Role("superuser"), "tok-abc")

	got, err := c.FetchDashboard(context.Background())
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("err = %v, want ErrUnknownRole", err)
	}
	if got != nil {
		t.Errorf("dashboard = %v, want nil", got)
	}
	if handler.requests.Load() != 0 {
		t.Error("unknown-role dispatch should not touch the server")
	}

	// The documented recovery path: clear the session and start over.
	c.Session().Clear()
	if _, err := c.FetchDashboard(context.Background()); !errors.Is(err, ErrLoggedOut) {
		t.Errorf("after Clear: err = %v, want ErrLoggedOut", err)
	}
}
