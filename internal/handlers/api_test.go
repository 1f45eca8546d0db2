// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"diyverse/internal/comments"
	"diyverse/internal/content"
	"diyverse/internal/engagement"
	"diyverse/internal/metadata"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
	"diyverse/internal/session"
	"diyverse/internal/storage"
	"diyverse/internal/store"
)

// ---------- fakes ----------

type fakeFinder struct {
	public  []models.ProjectWithOwner
	private map[string]*models.ProjectWithOwner
	limit   int
	offset  int
	err     error
}

func (f *fakeFinder) ListPublic(_ context.Context, limit, offset int) ([]models.ProjectWithOwner, error) {
	f.limit, f.offset = limit, offset
	return f.public, f.err
}

func (f *fakeFinder) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.public {
		if p.OwnerID == ownerID {
			out = append(out, p.Project)
		}
	}
	for _, p := range f.private {
		if p.OwnerID == ownerID {
			out = append(out, p.Project)
		}
	}
	return out, f.err
}

func (f *fakeFinder) ListSavedBy(context.Context, uuid.UUID) ([]models.ProjectWithOwner, error) {
	return f.public, f.err
}

func (f *fakeFinder) FindByOwnerSlug(_ context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error) {
	for i := range f.public {
		if f.public[i].OwnerID == ownerID && f.public[i].Slug == slug {
			return &f.public[i], nil
		}
	}
	return nil, f.err
}

func (f *fakeFinder) FindOwnBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error) {
	if p, ok := f.private[slug]; ok && p.OwnerID == ownerID {
		return p, nil
	}
	return f.FindByOwnerSlug(ctx, ownerID, slug)
}

type fakeAssembler struct{}

func (fakeAssembler) Assemble(_ context.Context, p *models.ProjectWithOwner) (*content.View, error) {
	description, _ := metadata.DecodePtr(p.Description)
	return &content.View{Project: p, Description: description}, nil
}

type fakeEditor struct {
	publishErr error
	report     *content.SaveReport
	lastForm   content.Form
	confirm    string
}

func (f *fakeEditor) Publish(_ context.Context, viewer *uuid.UUID, form content.Form) (*models.Project, *content.SaveReport, error) {
	f.lastForm = form
	if viewer == nil {
		return nil, nil, content.ErrUnauthorized
	}
	if f.publishErr != nil {
		return nil, nil, f.publishErr
	}
	return &models.Project{ID: uuid.New(), OwnerID: *viewer, Title: form.Title, Slug: form.Slug}, f.report, nil
}

func (f *fakeEditor) Edit(_ context.Context, viewer *uuid.UUID, id uuid.UUID, form content.Form) (*models.Project, *content.SaveReport, error) {
	if viewer == nil {
		return nil, nil, content.ErrUnauthorized
	}
	return nil, nil, content.ErrForbidden
}

func (f *fakeEditor) Delete(_ context.Context, viewer *uuid.UUID, id uuid.UUID, confirmation string) error {
	f.confirm = confirmation
	if viewer == nil {
		return content.ErrUnauthorized
	}
	if confirmation != "delete" {
		return content.ErrConfirmation
	}
	return nil
}

type fakeComments struct {
	tree []models.RootComment
	err  error
	body string
}

func (f *fakeComments) Load(context.Context, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return f.tree, f.err
}

func (f *fakeComments) Add(_ context.Context, _ uuid.UUID, viewer *uuid.UUID, body string, _ *uuid.UUID) ([]models.RootComment, error) {
	f.body = body
	if viewer == nil {
		return nil, comments.ErrUnauthorized
	}
	if strings.TrimSpace(body) == "" {
		return nil, comments.ErrEmptyBody
	}
	return f.tree, f.err
}

func (f *fakeComments) Delete(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return nil, comments.ErrForbidden
}

func (f *fakeComments) ToggleLike(context.Context, uuid.UUID, uuid.UUID, *uuid.UUID) ([]models.RootComment, error) {
	return f.tree, f.err
}

type fakeLedger struct {
	state models.EngagementState
}

func (f *fakeLedger) State(_ context.Context, kind models.EngagementKind, _ uuid.UUID, viewer *uuid.UUID) (models.EngagementState, error) {
	s := f.state
	if viewer == nil {
		s.ViewerHas = false
	}
	return s, nil
}

func (f *fakeLedger) Toggle(_ context.Context, _ models.EngagementKind, _ uuid.UUID, viewer *uuid.UUID, current models.EngagementState) (models.EngagementState, error) {
	if viewer == nil {
		return current, engagement.ErrUnauthorized
	}
	return models.EngagementState{Count: current.Count + 1, ViewerHas: true}, nil
}

// fakeLookup finds every project as public unless rows says otherwise; a
// nil row is a missing project.
type fakeLookup struct {
	rows map[uuid.UUID]*models.Project
}

func (f *fakeLookup) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := f.rows[id]; ok {
		return p, nil
	}
	return &models.Project{ID: id, OwnerID: uuid.New(), IsPublic: true}, nil
}

type fakeUploads struct {
	draft uuid.UUID
	err   error
	asset content.Asset
	body  string
	kind  storage.AssetKind
	step  int
}

func (f *fakeUploads) ReserveDraft(_ context.Context, viewer *uuid.UUID) (uuid.UUID, error) {
	if viewer == nil {
		return uuid.Nil, content.ErrUnauthorized
	}
	return f.draft, f.err
}

func (f *fakeUploads) Upload(_ context.Context, _ *uuid.UUID, projectID uuid.UUID, kind storage.AssetKind, step int, a content.Asset) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(a.Body)
	if err != nil {
		return "", err
	}
	f.asset, f.body, f.kind, f.step = a, string(b), kind, step
	return storage.BuildPath(projectID, kind, a.Name), nil
}

func (f *fakeUploads) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeProfiles struct {
	missing bool
	avatars map[uuid.UUID]string
}

func (f *fakeProfiles) SetAvatarURL(_ context.Context, id uuid.UUID, avatar string) (bool, error) {
	if f.missing {
		return false, nil
	}
	f.avatars[id] = avatar
	return true, nil
}

// fakeBlobs keeps uploaded objects in memory.
type fakeBlobs struct {
	objects map[string]string
}

func (f *fakeBlobs) Upload(_ context.Context, bucket, key, _ string, body io.Reader, _ int64) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = string(b)
	return nil
}
func (f *fakeBlobs) Delete(context.Context, string, string) error { return nil }
func (f *fakeBlobs) DeletePrefix(context.Context, string, string) (int, error) {
	return 0, nil
}
func (f *fakeBlobs) PublicURL(bucket, key string) string {
	return "https://cdn.example.com/" + bucket + "/" + key
}

// ---------- harness ----------

type harness struct {
	finder   *fakeFinder
	editor   *fakeEditor
	comments *fakeComments
	ledger   *fakeLedger
	lookup   *fakeLookup
	uploads  *fakeUploads
	profiles *fakeProfiles
	blobs    *fakeBlobs
	mux      chi.Router
}

// withViewer puts a session for id on the request context, as LoadViewer would.
func withViewer(id *uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id != nil {
				ctx := context.WithValue(r.Context(), middleware.SessionKey, &session.Data{ProfileID: *id, DisplayName: "Maker"})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newHarness(viewer *uuid.UUID) *harness {
	h := &harness{
		finder:   &fakeFinder{private: map[string]*models.ProjectWithOwner{}},
		editor:   &fakeEditor{report: &content.SaveReport{}},
		comments: &fakeComments{},
		ledger:   &fakeLedger{},
		lookup:   &fakeLookup{rows: map[uuid.UUID]*models.Project{}},
		uploads:  &fakeUploads{draft: uuid.New()},
		profiles: &fakeProfiles{avatars: map[uuid.UUID]string{}},
		blobs:    &fakeBlobs{objects: map[string]string{}},
	}
	projects := NewProjects(h.finder, fakeAssembler{}, h.editor, nil)
	cm := NewComments(h.comments)
	eng := NewEngagement(h.ledger, h.lookup)
	assets := NewAssets(h.uploads, h.profiles, h.blobs)
	live := NewLive(h.comments, h.ledger, h.lookup, time.Hour)

	r := chi.NewRouter()
	r.Use(withViewer(viewer))
	r.Get("/api/projects", projects.List)
	r.Post("/api/projects", projects.Create)
	r.Put("/api/projects/{id}", projects.Update)
	r.Delete("/api/projects/{id}", projects.Delete)
	r.Get("/api/projects/{id}/comments", cm.List)
	r.Post("/api/projects/{id}/comments", cm.Add)
	r.Delete("/api/projects/{id}/comments/{commentID}", cm.Delete)
	r.Post("/api/projects/{id}/comments/{commentID}/like", cm.ToggleLike)
	r.Get("/api/projects/{id}/engagement", eng.Show)
	r.Post("/api/projects/{id}/like", eng.Like)
	r.Post("/api/projects/{id}/save", eng.Save)
	r.Get("/api/profiles/{profileID}/projects/{slug}", projects.Show)
	r.Get("/api/me/projects", projects.Mine)
	r.Get("/api/me/saved", projects.Saved)
	r.Post("/api/drafts", assets.Draft)
	r.Post("/api/projects/{id}/assets", assets.Upload)
	r.Post("/api/me/avatar", assets.Avatar)
	r.Get("/api/projects/{id}/live", live.Stream)
	h.mux = r
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	return rr
}

// upload posts data as the "file" part of a multipart form.
func (h *harness) upload(path, filename string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", filename)
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func publicProject(owner uuid.UUID, slug string) models.ProjectWithOwner {
	desc := metadata.Encode("A long description", models.NewProjectMetadata())
	cover := "p/images/cover.jpg"
	name := "Ada"
	return models.ProjectWithOwner{
		Project: models.Project{
			ID: uuid.New(), OwnerID: owner, Title: "Lamp", Slug: slug,
			Description: &desc, CoverURL: &cover, IsPublic: true, CreatedAt: time.Now(),
		},
		OwnerDisplayName: &name,
	}
}

// ---------- tests ----------

func TestListProjects(t *testing.T) {
	h := newHarness(nil)
	h.finder.public = []models.ProjectWithOwner{publicProject(uuid.New(), "lamp")}

	rr := h.do(http.MethodGet, "/api/projects?limit=500&offset=10", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if h.finder.limit != maxPageSize || h.finder.offset != 10 {
		t.Errorf("limit, offset = %d, %d", h.finder.limit, h.finder.offset)
	}

	var resp struct {
		Projects []card `json:"projects"`
	}
	decode(t, rr, &resp)
	if len(resp.Projects) != 1 {
		t.Fatalf("projects = %d", len(resp.Projects))
	}
	c := resp.Projects[0]
	if c.Summary != "A long description" {
		t.Errorf("summary = %q, want metadata stripped", c.Summary)
	}
	if c.CoverURL != "p/images/cover.jpg" {
		t.Errorf("cover = %q", c.CoverURL)
	}

	h.do(http.MethodGet, "/api/projects?limit=abc", "")
	if h.finder.limit != defaultPageSize {
		t.Errorf("default limit = %d", h.finder.limit)
	}
}

func TestListProjectsStoreError(t *testing.T) {
	h := newHarness(nil)
	h.finder.err = errors.New("connection refused")

	rr := h.do(http.MethodGet, "/api/projects", "")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Error("internal error leaked to client")
	}
}

func TestShowProject(t *testing.T) {
	owner := uuid.New()
	pub := publicProject(owner, "lamp")
	priv := publicProject(owner, "secret")
	priv.IsPublic = false

	t.Run("public", func(t *testing.T) {
		h := newHarness(nil)
		h.finder.public = []models.ProjectWithOwner{pub}
		rr := h.do(http.MethodGet, "/api/profiles/"+owner.String()+"/projects/lamp", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var view content.View
		decode(t, rr, &view)
		if view.Description != "A long description" {
			t.Errorf("description = %q", view.Description)
		}
	})

	t.Run("private hidden from others", func(t *testing.T) {
		stranger := uuid.New()
		h := newHarness(&stranger)
		h.finder.private["secret"] = &priv
		rr := h.do(http.MethodGet, "/api/profiles/"+owner.String()+"/projects/secret", "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})

	t.Run("private visible to owner", func(t *testing.T) {
		h := newHarness(&owner)
		h.finder.private["secret"] = &priv
		rr := h.do(http.MethodGet, "/api/profiles/"+owner.String()+"/projects/secret", "")
		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("malformed owner", func(t *testing.T) {
		h := newHarness(nil)
		rr := h.do(http.MethodGet, "/api/profiles/not-a-uuid/projects/lamp", "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestCreateProject(t *testing.T) {
	viewer := uuid.New()
	body := `{"title":"Lamp","slug":"lamp","images":["a.jpg"]}`

	t.Run("created with warnings", func(t *testing.T) {
		h := newHarness(&viewer)
		h.editor.report = &content.SaveReport{Failures: []error{
			&store.CollectionError{Collection: store.CollectionFiles, Err: errors.New("disk full")},
		}}
		rr := h.do(http.MethodPost, "/api/projects", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Project  models.Project `json:"project"`
			Warnings []string       `json:"warnings"`
		}
		decode(t, rr, &resp)
		if resp.Project.OwnerID != viewer {
			t.Errorf("owner = %s", resp.Project.OwnerID)
		}
		if len(resp.Warnings) != 1 || resp.Warnings[0] != "could not save files: disk full" {
			t.Errorf("warnings = %v", resp.Warnings)
		}
		if len(h.editor.lastForm.Images) != 1 {
			t.Errorf("form images = %v", h.editor.lastForm.Images)
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		h := newHarness(&viewer)
		h.editor.publishErr = content.ValidationErrors{"title": "Title is required."}
		rr := h.do(http.MethodPost, "/api/projects", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rr.Code)
		}
		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		decode(t, rr, &resp)
		if resp.Fields["title"] != "Title is required." {
			t.Errorf("fields = %v", resp.Fields)
		}
	})

	t.Run("slug taken", func(t *testing.T) {
		h := newHarness(&viewer)
		h.editor.publishErr = store.ErrSlugTaken
		if rr := h.do(http.MethodPost, "/api/projects", body); rr.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rr.Code)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(nil)
		if rr := h.do(http.MethodPost, "/api/projects", body); rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		h := newHarness(&viewer)
		if rr := h.do(http.MethodPost, "/api/projects", `{"title":`); rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
		if rr := h.do(http.MethodPost, "/api/projects", `{"bogus":1}`); rr.Code != http.StatusBadRequest {
			t.Errorf("unknown field status = %d, want 400", rr.Code)
		}
	})
}

func TestUpdateAndDeleteProject(t *testing.T) {
	viewer := uuid.New()
	h := newHarness(&viewer)
	id := uuid.New().String()

	if rr := h.do(http.MethodPut, "/api/projects/"+id, `{"title":"x"}`); rr.Code != http.StatusForbidden {
		t.Errorf("update status = %d, want 403", rr.Code)
	}
	if rr := h.do(http.MethodDelete, "/api/projects/"+id, `{"confirm":"nope"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed delete status = %d, want 400", rr.Code)
	}
	if rr := h.do(http.MethodDelete, "/api/projects/"+id, `{"confirm":"delete"}`); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}
}

func TestCommentRoutes(t *testing.T) {
	viewer := uuid.New()
	project := uuid.New().String()
	root := models.RootComment{Comment: models.Comment{ID: uuid.New(), Body: "hi"}, Replies: []models.Comment{}}

	h := newHarness(&viewer)
	h.comments.tree = []models.RootComment{root}

	rr := h.do(http.MethodGet, "/api/projects/"+project+"/comments", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var resp treeResponse
	decode(t, rr, &resp)
	if len(resp.Comments) != 1 || resp.Comments[0].Body != "hi" {
		t.Errorf("tree = %+v", resp.Comments)
	}

	if rr := h.do(http.MethodPost, "/api/projects/"+project+"/comments", `{"body":"  "}`); rr.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", rr.Code)
	}
	if rr := h.do(http.MethodPost, "/api/projects/"+project+"/comments", `{"body":"great"}`); rr.Code != http.StatusOK {
		t.Errorf("add status = %d", rr.Code)
	}
	if rr := h.do(http.MethodDelete, "/api/projects/"+project+"/comments/"+root.ID.String(), ""); rr.Code != http.StatusForbidden {
		t.Errorf("delete status = %d, want 403", rr.Code)
	}
	if rr := h.do(http.MethodPost, "/api/projects/"+project+"/comments/"+root.ID.String()+"/like", ""); rr.Code != http.StatusOK {
		t.Errorf("like status = %d", rr.Code)
	}

	empty := newHarness(nil)
	rr = empty.do(http.MethodGet, "/api/projects/"+project+"/comments", "")
	if !strings.Contains(rr.Body.String(), `"comments":[]`) {
		t.Errorf("empty tree body = %s", rr.Body.String())
	}
}

func TestEngagementRoutes(t *testing.T) {
	viewer := uuid.New()
	project := uuid.New().String()

	h := newHarness(&viewer)
	h.ledger.state = models.EngagementState{Count: 4}

	rr := h.do(http.MethodGet, "/api/projects/"+project+"/engagement", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp engagementResponse
	decode(t, rr, &resp)
	if resp.Likes.Count != 4 || resp.Saves.Count != 4 {
		t.Errorf("engagement = %+v", resp)
	}

	rr = h.do(http.MethodPost, "/api/projects/"+project+"/like", "")
	var state models.EngagementState
	decode(t, rr, &state)
	if state.Count != 5 || !state.ViewerHas {
		t.Errorf("toggle = %+v", state)
	}

	anon := newHarness(nil)
	if rr := anon.do(http.MethodPost, "/api/projects/"+project+"/save", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous toggle status = %d, want 401", rr.Code)
	}
}

func TestMeRoutes(t *testing.T) {
	viewer := uuid.New()
	h := newHarness(&viewer)
	mine := publicProject(viewer, "mine")
	h.finder.public = []models.ProjectWithOwner{mine}

	rr := h.do(http.MethodGet, "/api/me/projects", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Projects []card `json:"projects"`
	}
	decode(t, rr, &resp)
	if len(resp.Projects) != 1 || resp.Projects[0].OwnerDisplayName == nil || *resp.Projects[0].OwnerDisplayName != "Maker" {
		t.Errorf("mine = %+v", resp.Projects)
	}

	rr = h.do(http.MethodGet, "/api/me/saved", "")
	if rr.Code != http.StatusOK {
		t.Errorf("saved status = %d", rr.Code)
	}
}

func TestEngagementHidesInvisibleProjects(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	private, missing := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		viewer *uuid.UUID
		method string
		path   string
		want   int
	}{
		{"missing show", &owner, http.MethodGet, "/api/projects/" + missing.String() + "/engagement", http.StatusNotFound},
		{"missing like", &owner, http.MethodPost, "/api/projects/" + missing.String() + "/like", http.StatusNotFound},
		{"private anonymous show", nil, http.MethodGet, "/api/projects/" + private.String() + "/engagement", http.StatusNotFound},
		{"private stranger save", &stranger, http.MethodPost, "/api/projects/" + private.String() + "/save", http.StatusNotFound},
		{"private owner show", &owner, http.MethodGet, "/api/projects/" + private.String() + "/engagement", http.StatusOK},
		{"private owner like", &owner, http.MethodPost, "/api/projects/" + private.String() + "/like", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.viewer)
			h.lookup.rows[private] = &models.Project{ID: private, OwnerID: owner}
			h.lookup.rows[missing] = nil
			if rr := h.do(tt.method, tt.path, ""); rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestCommentsProjectNotFound(t *testing.T) {
	viewer := uuid.New()
	h := newHarness(&viewer)
	h.comments.err = comments.ErrProjectNotFound

	rr := h.do(http.MethodGet, "/api/projects/"+uuid.New().String()+"/comments", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
