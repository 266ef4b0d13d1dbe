package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/repository"
	"github.com/academihub/academihub/internal/service"
)

// CourseHandler serves the course catalogue, lecturer course management
// and student enrollment.
type CourseHandler struct {
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	logger      *slog.Logger
}

func NewCourseHandler(courses *service.CourseService, enrollments *service.EnrollmentService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, enrollments: enrollments, logger: logger}
}

// parseListOptions reads limit/offset query params, leaving zero values
// for the service layer to clamp.
func parseListOptions(r *http.Request) repository.ListOptions {
	var opts repository.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}
	return opts
}

// parseActive reads an optional active=true/false query param.
func parseActive(r *http.Request) *bool {
	switch r.URL.Query().Get("active") {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// HandleList returns the course catalogue.
//
// HTTP: GET /api/courses?q=&active=&lecturer_id=&limit=&offset=
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := repository.CourseFilter{
		Query:       r.URL.Query().Get("q"),
		LecturerID:  r.URL.Query().Get("lecturer_id"),
		Active:      parseActive(r),
		ListOptions: parseListOptions(r),
	}

	courses, err := h.courses.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleGetByID returns a single course.
//
// HTTP: GET /api/courses/{id}
func (h *CourseHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	course, err := h.courses.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleCreate creates a course owned by the calling lecturer.
//
// HTTP: POST /api/courses  (role: lecturer)
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in service.CourseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.courses.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// HandleUpdate edits one of the calling lecturer's courses.
//
// HTTP: PUT /api/courses/{id}  (role: lecturer)
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in service.CourseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.courses.Update(r.Context(), id.UserID, false, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleDelete removes one of the calling lecturer's courses.
//
// HTTP: DELETE /api/courses/{id}  (role: lecturer)
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	if err := h.courses.Delete(r.Context(), id.UserID, false, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

// HandleEnroll requests enrollment of the calling student in a course.
//
// HTTP: POST /api/courses/{id}/enroll  (role: student)
// 409 when a pending or active enrollment already exists.
func (h *CourseHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	enrollment, err := h.enrollments.Enroll(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

// HandleMyEnrollments lists the calling student's enrollments.
//
// HTTP: GET /api/enrollments  (role: student)
func (h *CourseHandler) HandleMyEnrollments(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	enrollments, err := h.enrollments.ListOwn(r.Context(), id.UserID, parseListOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}
