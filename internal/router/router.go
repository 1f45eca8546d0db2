// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// diyverse API. Reads are public; writes require a signed-in viewer.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"diyverse/internal/handlers"
	"diyverse/internal/middleware"
)

// Handlers bundles the handler groups served by the router.
type Handlers struct {
	Projects   *handlers.Projects
	Comments   *handlers.Comments
	Engagement *handlers.Engagement
	Assets     *handlers.Assets
	Live       *handlers.Live
}

// New creates and returns the configured Chi router. commentLimiter may be
// nil to disable comment rate limiting.
func New(sessions middleware.SessionReader, h Handlers, commentLimiter *middleware.RateLimiter, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadViewer(sessions))

	// Health check: no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF(secureCookies))

		r.Get("/projects", h.Projects.List)
		r.Get("/profiles/{profileID}/projects/{slug}", h.Projects.Show)
		r.Get("/projects/{id}/comments", h.Comments.List)
		r.Get("/projects/{id}/engagement", h.Engagement.Show)
		r.Get("/projects/{id}/live", h.Live.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireViewer)

			r.Get("/me/projects", h.Projects.Mine)
			r.Get("/me/saved", h.Projects.Saved)
			r.Post("/me/avatar", h.Assets.Avatar)

			r.Post("/projects", h.Projects.Create)
			r.Put("/projects/{id}", h.Projects.Update)
			r.Delete("/projects/{id}", h.Projects.Delete)

			r.Post("/drafts", h.Assets.Draft)
			r.Post("/projects/{id}/assets", h.Assets.Upload)

			r.Post("/projects/{id}/like", h.Engagement.Like)
			r.Post("/projects/{id}/save", h.Engagement.Save)

			r.With(limit(commentLimiter)).Post("/projects/{id}/comments", h.Comments.Add)
			r.Delete("/projects/{id}/comments/{commentID}", h.Comments.Delete)
			r.Post("/projects/{id}/comments/{commentID}/like", h.Comments.ToggleLike)
		})
	})

	return r
}

// limit returns the limiter's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
