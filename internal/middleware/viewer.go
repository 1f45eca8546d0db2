// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"diyverse/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionReader is the part of the session store the middleware needs.
type SessionReader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadViewer retrieves the session from Valkey and stores it in the
// request context. It does not enforce sign-in; anonymous requests pass
// through without a viewer.
func LoadViewer(store SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session lookup failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireViewer rejects requests without a signed-in viewer with 401.
// Must be applied after LoadViewer in the middleware chain.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "sign in to do that")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil for anonymous requests.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// ViewerID returns the signed-in profile ID, or nil for anonymous requests.
func ViewerID(ctx context.Context) *uuid.UUID {
	data := SessionFromCtx(ctx)
	if data == nil {
		return nil
	}
	id := data.ProfileID
	return &id
}
