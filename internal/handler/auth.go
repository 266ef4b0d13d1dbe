package handler

import (
	"log/slog"
	"net/http"

	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/service"
)

// AuthHandler exposes signup, login, Google Sign-In and logout.
//
// The token travels in the response body and comes back as an
// Authorization bearer header — no cookies. Clients own token storage;
// the client package in this module persists it alongside the user record.
type AuthHandler struct {
	svc    *service.AuthService
	google *auth.GoogleProvider // nil when Google Sign-In isn't configured
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, google *auth.GoogleProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, google: google, logger: logger}
}

// HandleSignup registers an account.
//
// HTTP: POST /api/auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin authenticates by email/password.
//
// HTTP: POST /api/auth/login
// Response: {"token": "...", "user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGoogleSignIn completes "Sign in with Google".
//
// HTTP: POST /api/auth/google/signin
// Body: {"code": "<authorization code from Google's consent flow>"}
//
// The code-for-profile exchange is server-to-server; the client never
// sees Google's access token.
func (h *AuthHandler) HandleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "Google Sign-In is not configured",
		})
		return
	}

	var in struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.Code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "authorization code is required",
			Field:   "code",
		})
		return
	}

	gu, err := h.google.Exchange(r.Context(), in.Code)
	if err != nil {
		h.logger.Error("google sign-in exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Google sign-in failed",
		})
		return
	}

	result, err := h.svc.GoogleSignIn(r.Context(), gu)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleLogout revokes the presented token (when a revocation list is
// configured) so it stops working before its natural expiry.
//
// HTTP: POST /api/auth/logout
//
// Always returns 200: logout is idempotent, and a request without a
// token has nothing to revoke but isn't wrong.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if tokenStr, err := auth.BearerToken(r); err == nil {
		if err := h.svc.Logout(r.Context(), tokenStr); err != nil {
			h.logger.Error("token revocation failed", slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
