package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/model"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/service"
)

// AdminHandler is the admin-only management surface: user accounts, any
// course, the enrollment approval queue and platform stats. Every route
// it serves sits behind RequireRole(admin).
type AdminHandler struct {
	users       *service.UserAdminService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	profiles    *service.ProfileService
	logger      *slog.Logger
}

func NewAdminHandler(
	users *service.UserAdminService,
	courses *service.CourseService,
	enrollments *service.EnrollmentService,
	profiles *service.ProfileService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{users: users, courses: courses, enrollments: enrollments, profiles: profiles, logger: logger}
}

// HandleListUsers lists accounts.
//
// HTTP: GET /api/admin/users?q=&role=&active=&limit=&offset=
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	f := repository.UserFilter{
		Query:       r.URL.Query().Get("q"),
		Active:      parseActive(r),
		ListOptions: parseListOptions(r),
	}
	if v := r.URL.Query().Get("role"); v != "" {
		if role, ok := model.ParseRole(v); ok {
			f.Role = role
		}
	}

	users, err := h.users.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUser returns a single account.
//
// HTTP: GET /api/admin/users/{id}
func (h *AdminHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleCreateUser creates an account of any role.
//
// HTTP: POST /api/admin/users
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in service.AdminUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleUpdateUser edits an account, including role and active flag.
//
// HTTP: PUT /api/admin/users/{id}
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in service.AdminUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDeleteUser deactivates an account. Accounts are never removed
// from the database, so repeat deletes succeed.
//
// HTTP: DELETE /api/admin/users/{id}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deactivated"})
}

// adminCourseRequest is the course payload with an explicit owner, since
// an admin creates courses on behalf of a lecturer.
type adminCourseRequest struct {
	service.CourseInput
	LecturerID string `json:"lecturer_id"`
}

// HandleCreateCourse creates a course owned by the named lecturer.
//
// HTTP: POST /api/admin/courses
func (h *AdminHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req adminCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	owner, err := h.users.GetByID(r.Context(), req.LecturerID)
	if err != nil {
		writeError(w, apperror.ValidationFailed("lecturer_id", "lecturer_id must name an existing user"))
		return
	}
	if owner.Role != model.RoleLecturer {
		writeError(w, apperror.ValidationFailed("lecturer_id", "courses can only be owned by lecturers"))
		return
	}

	course, err := h.courses.Create(r.Context(), owner.ID, req.CourseInput)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// HandleUpdateCourse edits any course regardless of owner.
//
// HTTP: PUT /api/admin/courses/{id}
func (h *AdminHandler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var in service.CourseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.courses.Update(r.Context(), "", true, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleDeleteCourse removes any course regardless of owner.
//
// HTTP: DELETE /api/admin/courses/{id}
func (h *AdminHandler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), "", true, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// HandleListEnrollments is the approval queue view.
//
// HTTP: GET /api/admin/enrollments?status=&course_id=&limit=&offset=
func (h *AdminHandler) HandleListEnrollments(w http.ResponseWriter, r *http.Request) {
	f := repository.EnrollmentFilter{
		CourseID:    r.URL.Query().Get("course_id"),
		ListOptions: parseListOptions(r),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		if status, ok := model.ParseEnrollmentStatus(v); ok {
			f.Status = status
		}
	}

	enrollments, err := h.enrollments.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

// enrollmentStatusRequest is the payload for the status transition
// endpoint. Grade only applies when completing.
type enrollmentStatusRequest struct {
	Status string   `json:"status"`
	Grade  *float64 `json:"grade"`
}

// HandleSetEnrollmentStatus approves, rejects or completes an
// enrollment.
//
// HTTP: PUT /api/admin/enrollments/{id}
func (h *AdminHandler) HandleSetEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	var req enrollmentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	enrollment, err := h.enrollments.SetStatus(
		r.Context(),
		chi.URLParam(r, "id"),
		model.EnrollmentStatus(req.Status),
		req.Grade,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

// HandleStats returns the platform-wide admin dashboard numbers.
//
// HTTP: GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	stats, err := h.profiles.Dashboard(r.Context(), id.UserID, model.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
