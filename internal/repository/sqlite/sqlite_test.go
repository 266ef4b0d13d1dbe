package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/academihub/academihub/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Benefits:
// - Fast: no disk I/O
// - Isolated: each test gets its own database
// - Clean: automatically destroyed when the connection closes
//
// newTestDB is a "test helper" — a function used only in tests to reduce boilerplate.
// The `t.Helper()` call tells Go's test framework to report errors at the CALLER's
// line number, not inside this function. This makes test failure output much clearer.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup registers a function to run when the test finishes.
	// This is like defer, but scoped to the test — even works in subtests.
	t.Cleanup(func() { db.Close() })
	return db
}

// The schema enforces foreign keys, so helpers build rows bottom-up:
// a course needs a lecturer, an enrollment needs a course and a student.

func createTestUser(t *testing.T, db *DB, name, email string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestCourse(t *testing.T, db *DB, title, code, lecturerID string) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:      title,
		Code:       code,
		Credits:    3,
		LecturerID: lecturerID,
		Capacity:   30,
		IsActive:   true,
	}
	if err := db.Courses().Create(context.Background(), course); err != nil {
		t.Fatalf("failed to create test course %s: %v", code, err)
	}
	return course
}

func createTestEnrollment(t *testing.T, db *DB, courseID, studentID string, status model.EnrollmentStatus) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		Status:    status,
	}
	if err := db.Enrollments().Create(context.Background(), e); err != nil {
		t.Fatalf("failed to create test enrollment: %v", err)
	}
	return e
}

func createTestAssignment(t *testing.T, db *DB, courseID, title string) *model.Assignment {
	t.Helper()
	a := &model.Assignment{
		CourseID:  courseID,
		Title:     title,
		DueDate:   time.Now().Add(7 * 24 * time.Hour),
		MaxPoints: 100,
	}
	if err := db.Assignments().Create(context.Background(), a); err != nil {
		t.Fatalf("failed to create test assignment %s: %v", title, err)
	}
	return a
}
