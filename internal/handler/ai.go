package handler

import (
	"log/slog"
	"net/http"

	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/service"
)

// AIHandler serves the assistant features: syllabus drafting for
// lecturers and course recommendations for students.
type AIHandler struct {
	svc    *service.SyllabusService
	logger *slog.Logger
}

func NewAIHandler(svc *service.SyllabusService, logger *slog.Logger) *AIHandler {
	return &AIHandler{svc: svc, logger: logger}
}

// HandleGenerateSyllabus drafts a week-by-week syllabus from a title and
// topic list.
//
// HTTP: POST /api/ai/syllabus  (role: lecturer)
func (h *AIHandler) HandleGenerateSyllabus(w http.ResponseWriter, r *http.Request) {
	var in service.SyllabusInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	syllabus, err := h.svc.Generate(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, syllabus)
}

// HandleRecommend suggests courses the calling student is not yet
// enrolled in.
//
// HTTP: POST /api/ai/recommend  (role: student)
func (h *AIHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	recs, err := h.svc.Recommend(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
