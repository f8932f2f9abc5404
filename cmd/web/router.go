package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/feedback-board/internal/config"
	"github.com/crucial707/feedback-board/internal/handlers"
	"github.com/crucial707/feedback-board/internal/middleware"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/crucial707/feedback-board/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires the full handler chain over the given database. Split out
// from main so the integration test can build the same router against a mock.
func newRouter(db *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(db)
	feedbackRepo := repo.NewFeedbackRepo(db)
	sessions := session.NewManager(cfg.SessionSecret, time.Duration(cfg.SessionExpireHours)*time.Hour)

	authHandler := &handlers.AuthHandler{Users: userRepo, Sessions: sessions}
	userHandler := &handlers.UserHandler{Users: userRepo, Feedback: feedbackRepo, Sessions: sessions}
	feedbackHandler := &handlers.FeedbackHandler{Feedback: feedbackRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.SessionContext(sessions))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handlers.RenderError(w, req, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handlers.RenderError(w, req, http.StatusMethodNotAllowed)
	})

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	// Public, rate limited: credential endpoints resist brute force.
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.RegisterSubmit)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.LoginSubmit)
	})
	r.Get("/logout", authHandler.Logout)

	// Session-aware routes; the handlers enforce the ownership rules.
	r.Get("/", userHandler.Home)
	r.Get("/users/{username}", userHandler.Profile)
	r.Post("/users/{username}/delete", userHandler.DeleteUser)
	r.Get("/users/{username}/feedback/add", feedbackHandler.AddForm)
	r.Post("/users/{username}/feedback/add", feedbackHandler.AddSubmit)
	r.Get("/feedback/{id}/update", feedbackHandler.UpdateForm)
	r.Post("/feedback/{id}/update", feedbackHandler.UpdateSubmit)
	r.Post("/feedback/{id}/delete", feedbackHandler.Delete)

	return r
}
