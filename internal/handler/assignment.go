package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/academihub/academihub/internal/apperror"
	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/service"
)

// AssignmentHandler serves assignment publishing and the submit/grade
// workflow around it.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	submissions *service.SubmissionService
	logger      *slog.Logger
}

func NewAssignmentHandler(assignments *service.AssignmentService, submissions *service.SubmissionService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, submissions: submissions, logger: logger}
}

// maxAssignmentForm bounds the multipart form for assignment creation;
// briefing documents tend to be small PDFs.
const maxAssignmentForm = 20 << 20

// HandleCreate publishes an assignment. The request is multipart when a
// briefing document is attached, plain JSON otherwise.
//
// HTTP: POST /api/assignments  (role: lecturer)
func (h *AssignmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in service.AssignmentInput
	var doc *service.Attachment

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAssignmentForm); err != nil {
			writeError(w, apperror.ValidationFailed("", "request body must be valid multipart form data"))
			return
		}
		in.CourseID = r.FormValue("course_id")
		in.Title = r.FormValue("title")
		in.Description = r.FormValue("description")
		if v := r.FormValue("due_date"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, apperror.ValidationFailed("due_date", "due_date must be an RFC 3339 timestamp"))
				return
			}
			in.DueDate = t
		}
		if v := r.FormValue("max_points"); v != "" {
			if err := json.Unmarshal([]byte(v), &in.MaxPoints); err != nil {
				writeError(w, apperror.ValidationFailed("max_points", "max_points must be a number"))
				return
			}
		}
		if file, header, err := r.FormFile("attachment"); err == nil {
			defer file.Close()
			doc = &service.Attachment{Filename: header.Filename, Reader: file}
		}
	} else {
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
	}

	assignment, err := h.assignments.Create(r.Context(), id.UserID, in, doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

// HandleList lists a course's assignments.
//
// HTTP: GET /api/assignments?course_id=
func (h *AssignmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignments.ListByCourse(r.Context(), r.URL.Query().Get("course_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// HandleSubmit records the calling student's answer to an assignment.
//
// HTTP: POST /api/submissions  (role: student)
func (h *AssignmentHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in service.SubmitInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.submissions.Submit(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

// HandleListSubmissions lists submissions scoped to the caller's role.
//
// HTTP: GET /api/submissions?assignment_id=&limit=&offset=
func (h *AssignmentHandler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	submissions, err := h.submissions.List(
		r.Context(),
		id.UserID,
		id.Role,
		r.URL.Query().Get("assignment_id"),
		parseListOptions(r),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

// HandleGrade records a grade and feedback on a submission.
//
// HTTP: PUT /api/submissions/{id}/grade  (role: lecturer)
func (h *AssignmentHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in service.GradeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	submission, err := h.submissions.Grade(r.Context(), id.UserID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submission)
}
