// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"diyverse/internal/handlers"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
	"diyverse/internal/session"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// stubSessions resolves every request to the same session, or none.
type stubSessions struct {
	data *session.Data
}

func (s stubSessions) Get(context.Context, *http.Request) (*session.Data, error) {
	return s.data, nil
}

type stubComments struct{}

func (stubComments) Load(context.Context, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return nil, nil
}

func (stubComments) Add(context.Context, uuid.UUID, *uuid.UUID, string, *uuid.UUID) ([]models.RootComment, error) {
	return nil, nil
}

func (stubComments) Delete(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return nil, nil
}

func (stubComments) ToggleLike(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return nil, nil
}

type stubLedger struct{}

func (stubLedger) State(context.Context, models.EngagementKind, uuid.UUID, *uuid.UUID) (models.EngagementState, error) {
	return models.EngagementState{Count: 2}, nil
}

func (stubLedger) Toggle(_ context.Context, _ models.EngagementKind, _ uuid.UUID, _ *uuid.UUID, current models.EngagementState) (models.EngagementState, error) {
	return models.EngagementState{Count: current.Count + 1, ViewerHas: true}, nil
}

// stubProjects finds every project as public, except the private one.
type stubProjects struct {
	private uuid.UUID
}

func (s stubProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	return &models.Project{ID: id, OwnerID: uuid.New(), IsPublic: id != s.private}, nil
}

var privateProject = uuid.New()

func newTestRouter(viewer *session.Data, limiter *middleware.RateLimiter) http.Handler {
	projects := stubProjects{private: privateProject}
	return New(stubSessions{data: viewer}, Handlers{
		Projects:   handlers.NewProjects(nil, nil, nil, nil),
		Comments:   handlers.NewComments(stubComments{}),
		Engagement: handlers.NewEngagement(stubLedger{}, projects),
		Assets:     handlers.NewAssets(nil, nil, nil),
		Live:       handlers.NewLive(stubComments{}, stubLedger{}, projects, time.Hour),
	}, limiter, false)
}

const testToken = "test-token"

// send issues a request carrying a matching CSRF cookie and header.
func send(h http.Handler, method, path string) *httptest.ResponseRecorder {
	var body *strings.Reader
	if method == http.MethodGet {
		body = strings.NewReader("")
	} else {
		body = strings.NewReader(`{"body":"nice"}`)
	}
	req := httptest.NewRequest(method, path, body)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: testToken})
	req.Header.Set(middleware.CSRFHeaderName, testToken)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestWritesRequireViewer(t *testing.T) {
	h := newTestRouter(nil, nil)
	project := uuid.New().String()

	writes := []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodPut, "/api/projects/" + project},
		{http.MethodDelete, "/api/projects/" + project},
		{http.MethodPost, "/api/projects/" + project + "/like"},
		{http.MethodPost, "/api/projects/" + project + "/save"},
		{http.MethodPost, "/api/projects/" + project + "/comments"},
		{http.MethodPost, "/api/projects/" + project + "/comments/" + project + "/like"},
		{http.MethodGet, "/api/me/projects"},
		{http.MethodGet, "/api/me/saved"},
		{http.MethodPost, "/api/me/avatar"},
		{http.MethodPost, "/api/drafts"},
		{http.MethodPost, "/api/projects/" + project + "/assets?kind=images"},
	}
	for _, tt := range writes {
		if rr := send(h, tt.method, tt.path); rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", tt.method, tt.path, rr.Code)
		}
	}
}

func TestPublicReads(t *testing.T) {
	h := newTestRouter(nil, nil)
	project := uuid.New().String()

	for _, path := range []string{
		"/api/projects/" + project + "/comments",
		"/api/projects/" + project + "/engagement",
	} {
		rr := send(h, http.MethodGet, path)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s: got %d, want 200", path, rr.Code)
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("GET %s: missing security headers", path)
		}
	}
}

func TestWritesRequireCSRF(t *testing.T) {
	h := newTestRouter(&session.Data{ProfileID: uuid.New()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.New().String()+"/like", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rr.Code)
	}
}

func TestSignedInToggle(t *testing.T) {
	h := newTestRouter(&session.Data{ProfileID: uuid.New()}, nil)

	rr := send(h, http.MethodPost, "/api/projects/"+uuid.New().String()+"/save")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	var state models.EngagementState
	if err := json.NewDecoder(rr.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Count != 3 || !state.ViewerHas {
		t.Errorf("state = %+v", state)
	}
}

func TestCommentRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	h := newTestRouter(&session.Data{ProfileID: uuid.New()}, limiter)
	path := "/api/projects/" + uuid.New().String() + "/comments"

	for i := range 2 {
		if rr := send(h, http.MethodPost, path); rr.Code != http.StatusOK {
			t.Fatalf("comment %d: got %d, want 200", i, rr.Code)
		}
	}
	if rr := send(h, http.MethodPost, path); rr.Code != http.StatusTooManyRequests {
		t.Errorf("third comment: got %d, want 429", rr.Code)
	}

	// Reads are not limited.
	if rr := send(h, http.MethodGet, path); rr.Code != http.StatusOK {
		t.Errorf("read after limit: got %d, want 200", rr.Code)
	}
}

func TestPrivateProjectHidden(t *testing.T) {
	h := newTestRouter(&session.Data{ProfileID: uuid.New()}, nil)
	project := privateProject.String()

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/projects/" + project + "/engagement"},
		{http.MethodGet, "/api/projects/" + project + "/live"},
		{http.MethodPost, "/api/projects/" + project + "/like"},
	} {
		if rr := send(h, tt.method, tt.path); rr.Code != http.StatusNotFound {
			t.Errorf("%s %s: got %d, want 404", tt.method, tt.path, rr.Code)
		}
	}
}
