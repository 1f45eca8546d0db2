// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers serves the diyverse JSON API: project listings and
// views, publishing and editing, comments and engagement.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"diyverse/internal/comments"
	"diyverse/internal/content"
	"diyverse/internal/engagement"
	"diyverse/internal/snapshot"
	"diyverse/internal/store"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON sends v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// uuidParam parses a UUID URL parameter, answering 404 if it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads a non-negative integer query parameter.
func intQuery(r *http.Request, name string, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// fail maps a service error to a status code and message. Unexpected
// errors are logged and reported as 500 without detail.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var verrs content.ValidationErrors
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, snapshot.ErrSuperseded):
		// The client went away; nobody reads the answer.
		slog.Debug("request abandoned", "method", r.Method, "path", r.URL.Path)
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "please fix the highlighted fields",
			"fields": verrs,
		})
	case errors.Is(err, content.ErrUnauthorized),
		errors.Is(err, comments.ErrUnauthorized),
		errors.Is(err, engagement.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, content.ErrForbidden),
		errors.Is(err, comments.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, comments.ErrNotFound),
		errors.Is(err, comments.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrSlugTaken):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  err.Error(),
			"fields": map[string]string{"slug": err.Error()},
		})
	case errors.Is(err, content.ErrConfirmation),
		errors.Is(err, comments.ErrEmptyBody),
		errors.Is(err, comments.ErrInvalidParent),
		errors.Is(err, engagement.ErrUnsupportedKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrUploadsUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
