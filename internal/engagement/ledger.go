// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engagement toggles like and save memberships and reports their
// counts. Counts returned by Toggle are optimistic: they are derived from
// the caller's last known state, not re-counted, and are corrected by the
// next State call.
package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

var (
	// ErrUnsupportedKind is returned for kinds that do not exist, such as
	// saving a comment.
	ErrUnsupportedKind = errors.New("engagement kind not supported")
	// ErrUnauthorized is returned when a toggle has no viewer.
	ErrUnauthorized = errors.New("sign in to do that")
)

// Store is the membership persistence the ledger needs.
type Store interface {
	Count(ctx context.Context, kind models.EngagementKind, subject uuid.UUID) (int, error)
	Has(ctx context.Context, kind models.EngagementKind, subject, profileID uuid.UUID) (bool, error)
	Toggle(ctx context.Context, kind models.EngagementKind, subject, profileID uuid.UUID) (bool, error)
}

// Ledger reads and toggles engagement for projects and comments.
type Ledger struct {
	store Store
	guard Guard
}

// NewLedger creates a Ledger. guard decides whether a toggle is already in
// flight for the same kind, subject and viewer; nil uses a LocalGuard.
func NewLedger(store Store, guard Guard) *Ledger {
	if guard == nil {
		guard = NewLocalGuard()
	}
	return &Ledger{store: store, guard: guard}
}

// State returns the member count of subject and whether viewer is a member.
// The membership query runs only for a non-nil viewer.
func (l *Ledger) State(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID) (models.EngagementState, error) {
	if !kind.Valid() {
		return models.EngagementState{}, ErrUnsupportedKind
	}

	count, err := l.store.Count(ctx, kind, subject)
	if err != nil {
		return models.EngagementState{}, fmt.Errorf("engagement count: %w", err)
	}

	state := models.EngagementState{Count: count}
	if viewer == nil {
		return state, nil
	}

	has, err := l.store.Has(ctx, kind, subject, *viewer)
	if err != nil {
		return models.EngagementState{}, fmt.Errorf("engagement membership: %w", err)
	}
	state.ViewerHas = has
	return state, nil
}

// Toggle flips viewer's membership and returns current moved by one. If a
// toggle for the same kind, subject and viewer is still in flight, current
// is returned unchanged and nothing is written. The count never drops
// below zero.
func (l *Ledger) Toggle(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID, current models.EngagementState) (models.EngagementState, error) {
	if !kind.Valid() {
		return current, ErrUnsupportedKind
	}
	if viewer == nil {
		return current, ErrUnauthorized
	}

	release, ok, err := l.guard.TryAcquire(ctx, guardKey(kind, subject, *viewer))
	if err != nil {
		return current, fmt.Errorf("engagement guard: %w", err)
	}
	if !ok {
		return current, nil
	}
	defer release()

	added, err := l.store.Toggle(ctx, kind, subject, *viewer)
	if err != nil {
		return current, fmt.Errorf("engagement toggle: %w", err)
	}
	return apply(current, added), nil
}

// apply moves state by one in the direction of the completed toggle.
func apply(state models.EngagementState, added bool) models.EngagementState {
	if added {
		return models.EngagementState{Count: state.Count + 1, ViewerHas: true}
	}
	return models.EngagementState{Count: max(0, state.Count-1), ViewerHas: false}
}

func guardKey(kind models.EngagementKind, subject, viewer uuid.UUID) string {
	return string(kind) + ":" + subject.String() + ":" + viewer.String()
}
