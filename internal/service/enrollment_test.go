package service

import (
	"context"
	"errors"
	"testing"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/model"
)

type enrollmentFixture struct {
	svc         *EnrollmentService
	courses     *mockCourseRepo
	enrollments *mockEnrollmentRepo
	users       *mockUserRepo
	mailer      *mockMailer
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	f := &enrollmentFixture{
		courses:     newMockCourseRepo(),
		enrollments: newMockEnrollmentRepo(),
		users:       newMockUserRepo(),
		mailer:      &mockMailer{},
	}
	f.svc = NewEnrollmentService(f.enrollments, f.courses, f.users, f.mailer, testLogger(t))
	return f
}

func (f *enrollmentFixture) addCourse(t *testing.T, code string, capacity int, active bool) *model.Course {
	t.Helper()
	course := &model.Course{Title: "Course " + code, Code: code, Credits: 3, LecturerID: "lecturer-1", Capacity: capacity, IsActive: active}
	if err := f.courses.Create(context.Background(), course); err != nil {
		t.Fatalf("seeding course: %v", err)
	}
	return course
}

// =========================================================================
// ENROLL TESTS
// =========================================================================

func TestEnroll(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	e, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	if e.Status != model.EnrollmentPending {
		t.Errorf("status = %q, want pending (admin approval comes later)", e.Status)
	}
	if e.CourseTitle != course.Title {
		t.Errorf("CourseTitle = %q, want %q", e.CourseTitle, course.Title)
	}
}

func TestEnroll_InactiveCourse(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, false)

	_, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Enroll(inactive course) error = %v, want ErrValidation", err)
	}
}

func TestEnroll_UnknownCourse(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.Enroll(context.Background(), "student-1", "no-such-course")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Enroll(unknown course) error = %v, want ErrNotFound", err)
	}
}

func TestEnroll_DuplicateBlocked(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	// A pending or active enrollment blocks a second attempt.
	for _, status := range []model.EnrollmentStatus{model.EnrollmentPending, model.EnrollmentActive} {
		f.enrollments.enrollments = map[string]*model.Enrollment{}
		seed := &model.Enrollment{CourseID: course.ID, StudentID: "student-1", Status: status}
		if err := f.enrollments.Create(context.Background(), seed); err != nil {
			t.Fatalf("seeding enrollment: %v", err)
		}

		_, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
		if !errors.Is(err, apperror.ErrConflict) {
			t.Errorf("Enroll() with %s enrollment error = %v, want ErrConflict", status, err)
		}
	}
}

func TestEnroll_RejectedAndCompletedDontBlock(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	// A rejected or completed enrollment is history, not a hold — the
	// student may try again (retaking a course is allowed).
	for _, status := range []model.EnrollmentStatus{model.EnrollmentRejected, model.EnrollmentCompleted} {
		f.enrollments.enrollments = map[string]*model.Enrollment{}
		seed := &model.Enrollment{CourseID: course.ID, StudentID: "student-1", Status: status}
		if err := f.enrollments.Create(context.Background(), seed); err != nil {
			t.Fatalf("seeding enrollment: %v", err)
		}

		if _, err := f.svc.Enroll(context.Background(), "student-1", course.ID); err != nil {
			t.Errorf("Enroll() after %s enrollment error = %v, want nil", status, err)
		}
	}
}

func TestEnroll_CapacityFull(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 2, true)

	for _, student := range []string{"student-1", "student-2"} {
		seed := &model.Enrollment{CourseID: course.ID, StudentID: student, Status: model.EnrollmentActive}
		if err := f.enrollments.Create(context.Background(), seed); err != nil {
			t.Fatalf("seeding enrollment: %v", err)
		}
	}

	_, err := f.svc.Enroll(context.Background(), "student-3", course.ID)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Enroll(full course) error = %v, want ErrConflict", err)
	}
}

func TestEnroll_ZeroCapacityMeansUnlimited(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 0, true)

	seed := &model.Enrollment{CourseID: course.ID, StudentID: "student-1", Status: model.EnrollmentActive}
	if err := f.enrollments.Create(context.Background(), seed); err != nil {
		t.Fatalf("seeding enrollment: %v", err)
	}

	if _, err := f.svc.Enroll(context.Background(), "student-2", course.ID); err != nil {
		t.Errorf("Enroll(capacity=0) error = %v, want nil", err)
	}
}

// =========================================================================
// STATUS TRANSITION TESTS
// =========================================================================

func TestSetStatus_ApprovalEmailsStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	student := &model.User{Name: "Ada", Email: "ada@example.com", Role: model.RoleStudent, IsActive: true}
	if err := f.users.Create(context.Background(), student); err != nil {
		t.Fatalf("seeding student: %v", err)
	}

	e, err := f.svc.Enroll(context.Background(), student.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	updated, err := f.svc.SetStatus(context.Background(), e.ID, model.EnrollmentActive, nil)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if updated.Status != model.EnrollmentActive {
		t.Errorf("status = %q, want active", updated.Status)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1 approval notification", len(f.mailer.sent))
	}
	if f.mailer.sent[0].To != "ada@example.com" {
		t.Errorf("email sent to %q, want student", f.mailer.sent[0].To)
	}
}

func TestSetStatus_RejectDoesNotEmail(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	e, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	if _, err := f.svc.SetStatus(context.Background(), e.ID, model.EnrollmentRejected, nil); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("sent %d emails, want none for a rejection", len(f.mailer.sent))
	}
}

func TestSetStatus_CompleteWithGrade(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	e, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	grade := 92.5
	updated, err := f.svc.SetStatus(context.Background(), e.ID, model.EnrollmentCompleted, &grade)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if updated.Grade == nil || *updated.Grade != 92.5 {
		t.Errorf("grade = %v, want 92.5", updated.Grade)
	}
}

func TestSetStatus_Validation(t *testing.T) {
	f := newEnrollmentFixture(t)
	course := f.addCourse(t, "CS401", 30, true)

	e, err := f.svc.Enroll(context.Background(), "student-1", course.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	_, err = f.svc.SetStatus(context.Background(), e.ID, "graduated", nil)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("SetStatus(bad status) error = %v, want ErrValidation", err)
	}

	bad := 101.0
	_, err = f.svc.SetStatus(context.Background(), e.ID, model.EnrollmentCompleted, &bad)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("SetStatus(grade=101) error = %v, want ErrValidation", err)
	}

	negative := -1.0
	_, err = f.svc.SetStatus(context.Background(), e.ID, model.EnrollmentCompleted, &negative)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("SetStatus(grade=-1) error = %v, want ErrValidation", err)
	}
}
