// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"diyverse/internal/content"
	"diyverse/internal/metadata"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
	"diyverse/internal/storage"
)

// Listing page sizes.
const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// ProjectFinder reads project rows.
type ProjectFinder interface {
	ListPublic(ctx context.Context, limit, offset int) ([]models.ProjectWithOwner, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	ListSavedBy(ctx context.Context, profileID uuid.UUID) ([]models.ProjectWithOwner, error)
	FindByOwnerSlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error)
	FindOwnBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error)
}

// ViewAssembler builds the display view of a project.
type ViewAssembler interface {
	Assemble(ctx context.Context, p *models.ProjectWithOwner) (*content.View, error)
}

// ProjectEditor publishes, edits and deletes projects.
type ProjectEditor interface {
	Publish(ctx context.Context, viewer *uuid.UUID, form content.Form) (*models.Project, *content.SaveReport, error)
	Edit(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, form content.Form) (*models.Project, *content.SaveReport, error)
	Delete(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, confirmation string) error
}

// Projects groups the project handlers.
type Projects struct {
	finder    ProjectFinder
	assembler ViewAssembler
	editor    ProjectEditor
	blobs     storage.BlobStore
}

// NewProjects creates the project handler group. blobs may be nil.
func NewProjects(finder ProjectFinder, assembler ViewAssembler, editor ProjectEditor, blobs storage.BlobStore) *Projects {
	return &Projects{finder: finder, assembler: assembler, editor: editor, blobs: blobs}
}

// card is a project in a listing.
type card struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Summary          string    `json:"summary"`
	CoverURL         string    `json:"cover_url,omitempty"`
	IsPublic         bool      `json:"is_public"`
	OwnerDisplayName *string   `json:"owner_display_name,omitempty"`
	OwnerAvatarURL   string    `json:"owner_avatar_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// summaryLength caps the description excerpt on cards, in runes.
const summaryLength = 160

func (h *Projects) card(p *models.Project, ownerName, ownerAvatar *string) card {
	description, _ := metadata.DecodePtr(p.Description)
	if r := []rune(description); len(r) > summaryLength {
		description = string(r[:summaryLength]) + "…"
	}
	return card{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Title:            p.Title,
		Slug:             p.Slug,
		Summary:          description,
		CoverURL:         storage.Resolve(h.blobs, storage.AssetsBucket, p.Cover()),
		IsPublic:         p.IsPublic,
		OwnerDisplayName: ownerName,
		OwnerAvatarURL:   storage.AvatarURL(h.blobs, ownerAvatar),
		CreatedAt:        p.CreatedAt,
	}
}

func (h *Projects) cards(rows []models.ProjectWithOwner) []card {
	out := make([]card, 0, len(rows))
	for i := range rows {
		out = append(out, h.card(&rows[i].Project, rows[i].OwnerDisplayName, rows[i].OwnerAvatarURL))
	}
	return out
}

// List returns public projects, newest first.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultPageSize, maxPageSize)
	if limit == 0 {
		limit = defaultPageSize
	}
	offset := intQuery(r, "offset", 0, 0)

	rows, err := h.finder.ListPublic(r.Context(), limit, offset)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": h.cards(rows),
		"limit":    limit,
		"offset":   offset,
	})
}

// Mine returns the viewer's own projects, public or not.
func (h *Projects) Mine(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.SessionFromCtx(r.Context())
	rows, err := h.finder.ListByOwner(r.Context(), viewer.ProfileID)
	if err != nil {
		fail(w, r, err)
		return
	}
	name := viewer.DisplayName
	out := make([]card, 0, len(rows))
	for i := range rows {
		out = append(out, h.card(&rows[i], &name, nil))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

// Saved returns the projects the viewer has saved.
func (h *Projects) Saved(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())
	rows, err := h.finder.ListSavedBy(r.Context(), *viewer)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": h.cards(rows)})
}

// Show returns the assembled view of a project by owner and slug. Owners
// also see their private projects.
func (h *Projects) Show(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := uuidParam(w, r, "profileID")
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")

	var (
		p   *models.ProjectWithOwner
		err error
	)
	if viewer := middleware.ViewerID(r.Context()); viewer != nil && *viewer == ownerID {
		p, err = h.finder.FindOwnBySlug(r.Context(), ownerID, slug)
	} else {
		p, err = h.finder.FindByOwnerSlug(r.Context(), ownerID, slug)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	if p == nil {
		fail(w, r, content.ErrNotFound)
		return
	}

	view, err := h.assembler.Assemble(r.Context(), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// saveResponse reports a saved project and any collection that failed.
type saveResponse struct {
	Project  *models.Project `json:"project"`
	Warnings []string        `json:"warnings"`
}

// Create publishes a new project.
func (h *Projects) Create(w http.ResponseWriter, r *http.Request) {
	var form content.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	p, report, err := h.editor.Publish(r.Context(), middleware.ViewerID(r.Context()), form)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saveResponse{Project: p, Warnings: report.Messages()})
}

// Update replaces a project's content.
func (h *Projects) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var form content.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	p, report, err := h.editor.Edit(r.Context(), middleware.ViewerID(r.Context()), id, form)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Project: p, Warnings: report.Messages()})
}

// deleteRequest carries the typed confirmation phrase.
type deleteRequest struct {
	Confirm string `json:"confirm"`
}

// Delete removes a project after confirmation.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req deleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.editor.Delete(r.Context(), middleware.ViewerID(r.Context()), id, req.Confirm); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
