// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"diyverse/internal/content"
	"diyverse/internal/engagement"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
)

// EngagementLedger reads and toggles likes and saves.
type EngagementLedger interface {
	State(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID) (models.EngagementState, error)
	Toggle(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID, current models.EngagementState) (models.EngagementState, error)
}

// ProjectLookup finds a project by id, returning nil if it does not exist.
type ProjectLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// Engagement groups the project like and save handlers.
type Engagement struct {
	ledger   EngagementLedger
	projects ProjectLookup
}

// NewEngagement creates the engagement handler group.
func NewEngagement(ledger EngagementLedger, projects ProjectLookup) *Engagement {
	return &Engagement{ledger: ledger, projects: projects}
}

// visibleProject answers content.ErrNotFound for a project that does not
// exist or is private to someone other than viewer.
func visibleProject(ctx context.Context, projects ProjectLookup, id uuid.UUID, viewer *uuid.UUID) error {
	p, err := projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || !p.VisibleTo(viewer) {
		return content.ErrNotFound
	}
	return nil
}

// engagementResponse holds both project engagement states.
type engagementResponse struct {
	Likes models.EngagementState `json:"likes"`
	Saves models.EngagementState `json:"saves"`
}

// Show returns the like and save state of a project for the viewer.
func (h *Engagement) Show(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())
	if err := visibleProject(r.Context(), h.projects, projectID, viewer); err != nil {
		fail(w, r, err)
		return
	}

	likes, err := h.ledger.State(r.Context(), models.EngagementProjectLike, projectID, viewer)
	if err != nil {
		fail(w, r, err)
		return
	}
	saves, err := h.ledger.State(r.Context(), models.EngagementProjectSave, projectID, viewer)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, engagementResponse{Likes: likes, Saves: saves})
}

// Like toggles the viewer's like on a project.
func (h *Engagement) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.EngagementProjectLike)
}

// Save toggles the viewer's save of a project.
func (h *Engagement) Save(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.EngagementProjectSave)
}

// toggle reads the current state and flips it. The returned count is
// optimistic; GET returns the recounted value.
func (h *Engagement) toggle(w http.ResponseWriter, r *http.Request, kind models.EngagementKind) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	viewer := middleware.ViewerID(r.Context())
	if err := visibleProject(r.Context(), h.projects, projectID, viewer); err != nil {
		fail(w, r, err)
		return
	}

	tracker := engagement.NewTracker(h.ledger, kind, projectID, viewer)
	defer tracker.Close()
	if _, err := tracker.Load(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	next, err := tracker.Toggle(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}
