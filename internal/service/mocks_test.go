package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/email"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// WHAT IS A MOCK?
// A mock is a fake implementation of an interface used in tests.
// Instead of talking to a real database, it stores data in memory.
//
// WHY MOCK?
// 1. SPEED: No database setup, no disk I/O, tests run in microseconds
// 2. ISOLATION: Tests only test the service logic, not the database
// 3. CONTROL: You can simulate errors (database down, connection timeout)
//    that would be hard to trigger with a real database
//
// HOW IT WORKS:
// Each mock implements the same repository interface as the sqlite
// package. The services don't know or care which one they get —
// swappable implementations are the whole point of the interfaces.
//
// In production code, you'd use a library like `github.com/stretchr/testify/mock`
// for more sophisticated mocks. For learning, hand-written mocks are clearer.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict(fmt.Sprintf("an account with email %s already exists", user.Email))
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetByGoogleID(_ context.Context, googleID string) (*model.User, error) {
	if googleID != "" {
		for _, u := range m.users {
			if u.GoogleID == googleID {
				result := *u
				return &result, nil
			}
		}
	}
	return nil, apperror.NotFound("user", googleID)
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, error) {
	result := []model.User{}
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(f.Query)) {
			continue
		}
		result = append(result, *u)
	}
	return paginate(result, f.ListOptions), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) TouchLastLogin(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

type mockCourseRepo struct {
	courses map[string]*model.Course
	nextID  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if strings.EqualFold(c.Code, course.Code) {
			return apperror.Conflict(fmt.Sprintf("a course with code %s already exists", course.Code))
		}
	}
	m.nextID++
	course.ID = fmt.Sprintf("course-%d", m.nextID)
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	stored := *course
	m.courses[course.ID] = &stored
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, apperror.NotFound("course", id)
	}
	result := *c
	return &result, nil
}

func (m *mockCourseRepo) List(_ context.Context, f repository.CourseFilter) ([]model.Course, error) {
	result := []model.Course{}
	for _, c := range m.courses {
		if f.LecturerID != "" && c.LecturerID != f.LecturerID {
			continue
		}
		if f.Active != nil && c.IsActive != *f.Active {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(c.Title+" "+c.Code), strings.ToLower(f.Query)) {
			continue
		}
		result = append(result, *c)
	}
	return paginate(result, f.ListOptions), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return apperror.NotFound("course", course.ID)
	}
	stored := *course
	m.courses[course.ID] = &stored
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return apperror.NotFound("course", id)
	}
	delete(m.courses, id)
	return nil
}

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	nextID      int
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	m.nextID++
	e.ID = fmt.Sprintf("enrollment-%d", m.nextID)
	e.EnrolledAt = time.Now()
	e.UpdatedAt = e.EnrolledAt
	if e.Status == "" {
		e.Status = model.EnrollmentPending
	}
	stored := *e
	m.enrollments[e.ID] = &stored
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, apperror.NotFound("enrollment", id)
	}
	result := *e
	return &result, nil
}

func (m *mockEnrollmentRepo) List(_ context.Context, f repository.EnrollmentFilter) ([]model.Enrollment, error) {
	result := []model.Enrollment{}
	for _, e := range m.enrollments {
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		if f.StudentID != "" && e.StudentID != f.StudentID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		result = append(result, *e)
	}
	return paginate(result, f.ListOptions), nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	if _, ok := m.enrollments[e.ID]; !ok {
		return apperror.NotFound("enrollment", e.ID)
	}
	stored := *e
	m.enrollments[e.ID] = &stored
	return nil
}

func (m *mockEnrollmentRepo) ActiveCount(_ context.Context, courseID string) (int, error) {
	count := 0
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.Status == model.EnrollmentActive {
			count++
		}
	}
	return count, nil
}

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	nextID      int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	m.nextID++
	a.ID = fmt.Sprintf("assignment-%d", m.nextID)
	a.CreatedAt = time.Now()
	stored := *a
	m.assignments[a.ID] = &stored
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, apperror.NotFound("assignment", id)
	}
	result := *a
	return &result, nil
}

func (m *mockAssignmentRepo) ListByCourse(_ context.Context, courseID string) ([]model.Assignment, error) {
	result := []model.Assignment{}
	for _, a := range m.assignments {
		if a.CourseID == courseID {
			result = append(result, *a)
		}
	}
	return result, nil
}

type mockSubmissionRepo struct {
	submissions map[string]*model.Submission
	nextID      int
	lastFilter  repository.SubmissionFilter
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[string]*model.Submission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	// Mirrors the UNIQUE(assignment_id, student_id) constraint.
	for _, existing := range m.submissions {
		if existing.AssignmentID == s.AssignmentID && existing.StudentID == s.StudentID {
			return apperror.Conflict("you have already submitted for this assignment")
		}
	}
	m.nextID++
	s.ID = fmt.Sprintf("submission-%d", m.nextID)
	s.SubmittedAt = time.Now()
	stored := *s
	m.submissions[s.ID] = &stored
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	s, ok := m.submissions[id]
	if !ok {
		return nil, apperror.NotFound("submission", id)
	}
	result := *s
	return &result, nil
}

func (m *mockSubmissionRepo) List(_ context.Context, f repository.SubmissionFilter) ([]model.Submission, error) {
	result := []model.Submission{}
	for _, s := range m.submissions {
		if f.AssignmentID != "" && s.AssignmentID != f.AssignmentID {
			continue
		}
		if f.StudentID != "" && s.StudentID != f.StudentID {
			continue
		}
		// The lecturer join is exercised against real SQLite; here the
		// filter is recorded but not resolved. Tests that need lecturer
		// scoping inspect lastFilter instead.
		result = append(result, *s)
	}
	m.lastFilter = f
	return paginate(result, f.ListOptions), nil
}

func (m *mockSubmissionRepo) Update(_ context.Context, s *model.Submission) error {
	if _, ok := m.submissions[s.ID]; !ok {
		return apperror.NotFound("submission", s.ID)
	}
	stored := *s
	m.submissions[s.ID] = &stored
	return nil
}

type mockStatsRepo struct {
	student  model.StudentStats
	lecturer model.LecturerStats
	admin    model.AdminStats
}

func (m *mockStatsRepo) StudentStats(_ context.Context, _ string) (*model.StudentStats, error) {
	s := m.student
	return &s, nil
}

func (m *mockStatsRepo) LecturerStats(_ context.Context, _ string) (*model.LecturerStats, error) {
	s := m.lecturer
	return &s, nil
}

func (m *mockStatsRepo) AdminStats(_ context.Context) (*model.AdminStats, error) {
	s := m.admin
	return &s, nil
}

// mockMailer records sent messages so tests can assert on notifications.
type mockMailer struct {
	sent []email.Message
}

func (m *mockMailer) Send(msg email.Message) {
	m.sent = append(m.sent, msg)
}

// mockStore is an in-memory upload.Store.
type mockStore struct {
	saved map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{saved: make(map[string]string)}
}

func (m *mockStore) Save(_ context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[key] = string(b)
	return "/uploads/" + key, nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

func paginate[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
