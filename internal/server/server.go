// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config → passed to New() → New() creates:
//   sqlite.DB → repositories → services → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
// Optional integrations (redis revocation list, Backblaze B2 storage,
// Sendgrid email, Google Sign-In) are wired only when configured; the
// server runs fine without any of them.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/academihub/academihub/internal/auth"
	"github.com/academihub/academihub/internal/config"
	"github.com/academihub/academihub/internal/email"
	"github.com/academihub/academihub/internal/handler"
	"github.com/academihub/academihub/internal/middleware"
	"github.com/academihub/academihub/internal/model"
	sqliteRepo "github.com/academihub/academihub/internal/repository/sqlite"
	"github.com/academihub/academihub/internal/service"
	"github.com/academihub/academihub/internal/upload"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection and, when configured, the redis
// client behind the token revocation list. Both are closed during graceful
// shutdown in Start().
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	revoker *auth.Revoker
}

// New assembles the entire dependency chain:
//  1. Open the database (sqlite.New runs migrations)
//  2. Connect optional integrations (redis, B2, Sendgrid, Google)
//  3. Create the service layer on top of the repository interfaces
//  4. Create handlers on top of the services and wire them to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories). The handler never touches the database directly, the
// service never touches HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware, dependencies and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                            → liveness probe
//	GET    /metrics                            → Prometheus metrics
//	GET    /uploads/*                          → locally stored files (disk storage only)
//	POST   /api/auth/signup                    → create account
//	POST   /api/auth/login                     → email+password login
//	POST   /api/auth/google/signin             → Google Sign-In code exchange
//	POST   /api/auth/logout                    → revoke current token
//	GET    /api/courses                        → course catalogue
//	GET    /api/courses/{id}                   → single course
//	GET    /api/assignments?course_id=         → course assignments
//	                      (everything below requires a bearer token)
//	GET    /api/profile                        → own profile
//	PUT    /api/profile                        → update own profile
//	GET    /api/profile/stats                  → role-specific dashboard stats
//	POST   /api/profile/avatar                 → upload avatar
//	DELETE /api/profile/avatar                 → remove avatar
//	POST   /api/courses                        → create course          (lecturer)
//	PUT    /api/courses/{id}                   → update own course      (lecturer)
//	DELETE /api/courses/{id}                   → delete own course      (lecturer)
//	POST   /api/courses/{id}/enroll            → request enrollment     (student)
//	GET    /api/enrollments                    → own enrollments        (student)
//	POST   /api/assignments                    → publish assignment     (lecturer)
//	POST   /api/submissions                    → submit work            (student)
//	GET    /api/submissions                    → role-scoped submissions
//	PUT    /api/submissions/{id}/grade         → grade a submission     (lecturer)
//	POST   /api/ai/syllabus                    → draft a syllabus       (lecturer)
//	POST   /api/ai/recommend                   → course suggestions     (student)
//	/api/admin/...                             → user/course/enrollment management (admin)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID → RealIP → Recoverer → Logger run on every request, in that
// order. RequireAuth/RequireRole apply per route group below.
func (s *Server) setupRoutes() error {
	cfg := s.config

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth primitives ===
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(cfg.BcryptCost)

	// Token revocation list is optional: without redis, logout is a
	// client-side operation and tokens simply age out.
	if cfg.RedisAddr != "" {
		revoker, err := auth.NewRevoker(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.AccessTokenTTL)
		if err != nil {
			s.logger.Warn("redis unavailable, token revocation disabled", slog.String("error", err.Error()))
		} else {
			s.revoker = revoker
			s.logger.Info("token revocation list enabled", slog.String("addr", cfg.RedisAddr))
		}
	}

	var google *auth.GoogleProvider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		google = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		s.logger.Info("google sign-in enabled")
	}

	// === File storage ===
	// B2 when fully configured, otherwise local disk under DataDir.
	var files upload.Store
	var disk *upload.DiskStore
	if cfg.B2AccountID != "" && cfg.B2AppKey != "" && cfg.B2Bucket != "" {
		b2, err := upload.NewB2Store(context.Background(), cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			return fmt.Errorf("connecting to b2: %w", err)
		}
		files = b2
		s.logger.Info("file storage: backblaze b2", slog.String("bucket", cfg.B2Bucket))
	} else {
		disk, err = upload.NewDiskStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("creating upload directory: %w", err)
		}
		files = disk
		s.logger.Info("file storage: local disk", slog.String("dir", cfg.DataDir))
	}

	// === Email ===
	var mailer email.Service
	if cfg.SendgridAPIKey != "" {
		mailer = email.NewSendgridService(cfg.SendgridAPIKey, cfg.EmailFrom, s.logger)
		s.logger.Info("email: sendgrid", slog.String("from", cfg.EmailFrom))
	} else {
		mailer = email.NewConsoleService(s.logger)
	}

	// === Services ===
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.revoker, mailer, s.logger)
	profileService := service.NewProfileService(s.db.Users(), s.db.Stats(), files, s.logger)
	courseService := service.NewCourseService(s.db.Courses(), s.logger)
	enrollmentService := service.NewEnrollmentService(s.db.Enrollments(), s.db.Courses(), s.db.Users(), mailer, s.logger)
	assignmentService := service.NewAssignmentService(s.db.Assignments(), s.db.Courses(), files, s.logger)
	submissionService := service.NewSubmissionService(s.db.Submissions(), s.db.Assignments(), s.db.Enrollments(), s.db.Courses(), s.db.Users(), mailer, s.logger)
	userAdminService := service.NewUserAdminService(s.db.Users(), passwords, s.logger)
	syllabusService := service.NewSyllabusService(s.db.Courses(), s.db.Enrollments(), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, google, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	courseHandler := handler.NewCourseHandler(courseService, enrollmentService, s.logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, submissionService, s.logger)
	adminHandler := handler.NewAdminHandler(userAdminService, courseService, enrollmentService, profileService, s.logger)
	aiHandler := handler.NewAIHandler(syllabusService, s.logger)

	// === Operational endpoints ===
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	s.router.Handle("/metrics", promhttp.Handler())

	// Locally stored uploads are served straight off disk. With B2 the
	// URLs point at the bucket, so there's nothing to serve here.
	if disk != nil {
		fileServer := http.FileServer(http.Dir(disk.Root()))
		s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	requireAuth := auth.RequireAuth(tokens, s.revoker)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes: no token needed
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/google/signin", authHandler.HandleGoogleSignIn)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/courses", courseHandler.HandleList)
		r.Get("/courses/{id}", courseHandler.HandleGetByID)
		r.Get("/assignments", assignmentHandler.HandleList)

		// Authenticated routes, any role
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/profile", profileHandler.HandleGet)
			r.Put("/profile", profileHandler.HandleUpdate)
			r.Get("/profile/stats", profileHandler.HandleStats)
			r.Post("/profile/avatar", profileHandler.HandleAvatarUpload)
			r.Delete("/profile/avatar", profileHandler.HandleAvatarDelete)
			r.Get("/submissions", assignmentHandler.HandleListSubmissions)
		})

		// Student routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleStudent))

			r.Post("/courses/{id}/enroll", courseHandler.HandleEnroll)
			r.Get("/enrollments", courseHandler.HandleMyEnrollments)
			r.Post("/submissions", assignmentHandler.HandleSubmit)
			r.Post("/ai/recommend", aiHandler.HandleRecommend)
		})

		// Lecturer routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleLecturer))

			r.Post("/courses", courseHandler.HandleCreate)
			r.Put("/courses/{id}", courseHandler.HandleUpdate)
			r.Delete("/courses/{id}", courseHandler.HandleDelete)
			r.Post("/assignments", assignmentHandler.HandleCreate)
			r.Put("/submissions/{id}/grade", assignmentHandler.HandleGrade)
			r.Post("/ai/syllabus", aiHandler.HandleGenerateSyllabus)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, auth.RequireRole(model.RoleAdmin))

			r.Get("/users", adminHandler.HandleListUsers)
			r.Post("/users", adminHandler.HandleCreateUser)
			r.Get("/users/{id}", adminHandler.HandleGetUser)
			r.Put("/users/{id}", adminHandler.HandleUpdateUser)
			r.Delete("/users/{id}", adminHandler.HandleDeleteUser)
			r.Get("/courses", courseHandler.HandleList)
			r.Post("/courses", adminHandler.HandleCreateCourse)
			r.Put("/courses/{id}", adminHandler.HandleUpdateCourse)
			r.Delete("/courses/{id}", adminHandler.HandleDeleteCourse)
			r.Get("/enrollments", adminHandler.HandleListEnrollments)
			r.Put("/enrollments/{id}", adminHandler.HandleSetEnrollmentStatus)
			r.Get("/stats", adminHandler.HandleStats)
		})
	})

	return nil
}

// Router exposes the configured mux so tests can drive the full stack
// with httptest without opening a listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and handles graceful shutdown:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
//     and the redis client if one is connected
func (s *Server) Start() error {
	defer s.db.Close()
	defer s.revoker.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
