// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engagement

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"diyverse/internal/models"
	"diyverse/internal/snapshot"
)

// Source reads and toggles engagement state. *Ledger is a Source.
type Source interface {
	State(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID) (models.EngagementState, error)
	Toggle(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID, current models.EngagementState) (models.EngagementState, error)
}

// Tracker keeps one viewer's engagement state for one subject in two tiers:
// the authoritative state from the last Load and an optimistic local state
// moved by Toggle. Every committed Load replaces the local state, so an
// optimistic count never outlives a reload.
type Tracker struct {
	source  Source
	kind    models.EngagementKind
	subject uuid.UUID
	viewer  *uuid.UUID

	authoritative snapshot.Holder[models.EngagementState]

	mu       sync.Mutex
	local    models.EngagementState
	hasLocal bool
}

// NewTracker creates a Tracker. viewer may be nil for anonymous visitors.
func NewTracker(source Source, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID) *Tracker {
	return &Tracker{source: source, kind: kind, subject: subject, viewer: viewer}
}

// Load fetches the authoritative state. A Load superseded by a later Load
// or Close returns snapshot.ErrSuperseded and changes nothing.
func (t *Tracker) Load(ctx context.Context) (models.EngagementState, error) {
	state, err := t.authoritative.Load(ctx, func(ctx context.Context) (models.EngagementState, error) {
		return t.source.State(ctx, t.kind, t.subject, t.viewer)
	})
	if err != nil {
		return models.EngagementState{}, err
	}

	t.mu.Lock()
	t.local = state
	t.hasLocal = true
	t.mu.Unlock()
	return state, nil
}

// Toggle flips the viewer's membership and applies the optimistic result.
func (t *Tracker) Toggle(ctx context.Context) (models.EngagementState, error) {
	next, err := t.source.Toggle(ctx, t.kind, t.subject, t.viewer, t.State())
	if err != nil {
		return next, err
	}

	t.mu.Lock()
	t.local = next
	t.hasLocal = true
	t.mu.Unlock()
	return next, nil
}

// State returns the state to display: the optimistic local state.
func (t *Tracker) State() models.EngagementState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasLocal {
		return t.local
	}
	state, _ := t.authoritative.Get()
	return state
}

// Authoritative returns the last loaded state and whether one exists.
func (t *Tracker) Authoritative() (models.EngagementState, bool) {
	return t.authoritative.Get()
}

// Close discards in-flight loads and all held state.
func (t *Tracker) Close() {
	t.authoritative.Reset()
	t.mu.Lock()
	t.local = models.EngagementState{}
	t.hasLocal = false
	t.mu.Unlock()
}
