package sqlite

import (
	"context"
	"testing"

	"github.com/academihub/academihub/internal/model"
)

func TestStudentStats(t *testing.T) {
	db := newTestDB(t)
	lecturer := createTestUser(t, db, "Grace", "grace@example.com", model.RoleLecturer)
	ada := createTestUser(t, db, "Ada", "ada@example.com", model.RoleStudent)

	compilers := createTestCourse(t, db, "Compilers", "CS401", lecturer.ID)
	databases := createTestCourse(t, db, "Databases", "CS305", lecturer.ID)
	networks := createTestCourse(t, db, "Networks", "CS210", lecturer.ID)
	algebra := createTestCourse(t, db, "Algebra", "MATH201", lecturer.ID)

	createTestEnrollment(t, db, compilers.ID, ada.ID, model.EnrollmentActive)
	createTestEnrollment(t, db, networks.ID, ada.ID, model.EnrollmentPending)
	// Rejected enrollments don't count toward the student's totals.
	createTestEnrollment(t, db, algebra.ID, ada.ID, model.EnrollmentRejected)

	completed := createTestEnrollment(t, db, databases.ID, ada.ID, model.EnrollmentCompleted)
	grade := 80.0
	completed.Grade = &grade
	if err := db.Enrollments().Update(context.Background(), completed); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stats, err := db.Stats().StudentStats(context.Background(), ada.ID)
	if err != nil {
		t.Fatalf("StudentStats() error = %v", err)
	}

	if stats.TotalCourses != 3 {
		t.Errorf("TotalCourses = %d, want 3", stats.TotalCourses)
	}
	if stats.ActiveCourses != 1 {
		t.Errorf("ActiveCourses = %d, want 1", stats.ActiveCourses)
	}
	if stats.CompletedCourses != 1 {
		t.Errorf("CompletedCourses = %d, want 1", stats.CompletedCourses)
	}
	if stats.AverageGrade != 80.0 {
		t.Errorf("AverageGrade = %v, want 80", stats.AverageGrade)
	}
}

func TestStudentStats_FreshStudent(t *testing.T) {
	db := newTestDB(t)
	ada := createTestUser(t, db, "Ada", "ada@example.com", model.RoleStudent)

	stats, err := db.Stats().StudentStats(context.Background(), ada.ID)
	if err != nil {
		t.Fatalf("StudentStats() error = %v", err)
	}

	// No enrollments at all: everything is zero, including the average —
	// never an error or a NULL scan failure.
	if stats.TotalCourses != 0 || stats.ActiveCourses != 0 || stats.CompletedCourses != 0 {
		t.Errorf("fresh student stats = %+v, want all zeros", stats)
	}
	if stats.AverageGrade != 0 {
		t.Errorf("AverageGrade = %v, want 0", stats.AverageGrade)
	}
}

func TestLecturerStats(t *testing.T) {
	db := newTestDB(t)
	grace := createTestUser(t, db, "Grace", "grace@example.com", model.RoleLecturer)
	alan := createTestUser(t, db, "Alan", "alan@example.com", model.RoleLecturer)
	ada := createTestUser(t, db, "Ada", "ada@example.com", model.RoleStudent)
	john := createTestUser(t, db, "John", "john@example.com", model.RoleStudent)

	compilers := createTestCourse(t, db, "Compilers", "CS401", grace.ID)
	databases := createTestCourse(t, db, "Databases", "CS305", grace.ID)
	createTestCourse(t, db, "Punch Cards", "HIST101", alan.ID)

	databases.IsActive = false
	if err := db.Courses().Update(context.Background(), databases); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Ada is active in both of Grace's courses but must count once.
	createTestEnrollment(t, db, compilers.ID, ada.ID, model.EnrollmentActive)
	createTestEnrollment(t, db, databases.ID, ada.ID, model.EnrollmentActive)
	// Pending students don't count yet.
	createTestEnrollment(t, db, compilers.ID, john.ID, model.EnrollmentPending)

	stats, err := db.Stats().LecturerStats(context.Background(), grace.ID)
	if err != nil {
		t.Fatalf("LecturerStats() error = %v", err)
	}

	if stats.TotalCourses != 2 {
		t.Errorf("TotalCourses = %d, want 2", stats.TotalCourses)
	}
	if stats.ActiveCourses != 1 {
		t.Errorf("ActiveCourses = %d, want 1", stats.ActiveCourses)
	}
	if stats.TotalStudents != 1 {
		t.Errorf("TotalStudents = %d, want 1 (distinct students)", stats.TotalStudents)
	}
}

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	grace := createTestUser(t, db, "Grace", "grace@example.com", model.RoleLecturer)
	ada := createTestUser(t, db, "Ada", "ada@example.com", model.RoleStudent)
	createTestUser(t, db, "Root", "root@example.com", model.RoleAdmin)

	compilers := createTestCourse(t, db, "Compilers", "CS401", grace.ID)
	databases := createTestCourse(t, db, "Databases", "CS305", grace.ID)

	createTestEnrollment(t, db, compilers.ID, ada.ID, model.EnrollmentPending)
	createTestEnrollment(t, db, databases.ID, ada.ID, model.EnrollmentActive)

	stats, err := db.Stats().AdminStats(context.Background())
	if err != nil {
		t.Fatalf("AdminStats() error = %v", err)
	}

	if stats.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", stats.TotalUsers)
	}
	if stats.TotalCourses != 2 {
		t.Errorf("TotalCourses = %d, want 2", stats.TotalCourses)
	}
	if stats.PendingEnrollments != 1 {
		t.Errorf("PendingEnrollments = %d, want 1", stats.PendingEnrollments)
	}
}
