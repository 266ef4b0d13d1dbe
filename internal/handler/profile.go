package handler

import (
	"log/slog"
	"net/http"

	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/service"
	"github.com/academihub/academihub/internal/upload"
)

// ProfileHandler serves the authenticated user's own profile, avatar and
// role-dispatched dashboard stats. All routes sit behind RequireAuth, so
// IdentityFromContext always succeeds here; the guard stays anyway.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HandleGet returns the caller's profile.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	user, err := h.svc.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate edits name and email.
//
// HTTP: PUT /api/profile
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var in service.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.Update(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleStats returns the dashboard stats shape for the caller's role.
// Students get student stats, lecturers lecturer stats, admins platform
// stats — one variant per session, chosen by the role in the token.
//
// HTTP: GET /api/profile/stats
func (h *ProfileHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	stats, err := h.svc.Dashboard(r.Context(), id.UserID, id.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleAvatarUpload stores a new profile image.
//
// HTTP: POST /api/profile/avatar
// Body: multipart/form-data with an "avatar" file part.
// Images only, 5MB ceiling — checked before a byte is stored.
func (h *ProfileHandler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	// Parse at most the avatar ceiling plus form overhead into memory.
	if err := r.ParseMultipartForm(upload.MaxAvatarSize + 1<<20); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "request must be multipart form data"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "an avatar file is required", Field: "avatar"})
		return
	}
	defer file.Close()

	user, err := h.svc.UpdateAvatar(r.Context(), id.UserID, header.Filename, header.Size, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleAvatarDelete clears the profile image.
//
// HTTP: DELETE /api/profile/avatar
func (h *ProfileHandler) HandleAvatarDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	user, err := h.svc.DeleteAvatar(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
