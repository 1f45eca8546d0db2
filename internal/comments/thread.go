// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package comments

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"diyverse/internal/models"
	"diyverse/internal/snapshot"
)

// Source loads comment trees. *Service is a Source.
type Source interface {
	Load(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error)
}

// Thread holds the comment tree of one project for one viewer, as followed
// by a live page. Each Refresh replaces the whole tree; a refresh overtaken
// by a later one, by Close or by cancellation of its context is discarded.
type Thread struct {
	source    Source
	projectID uuid.UUID
	viewer    *uuid.UUID
	tree      snapshot.Holder[[]models.RootComment]
}

// NewThread creates a Thread. viewer may be nil.
func NewThread(source Source, projectID uuid.UUID, viewer *uuid.UUID) *Thread {
	return &Thread{source: source, projectID: projectID, viewer: viewer}
}

// Refresh re-reads the tree and reports whether it differs from the tree
// held before.
func (t *Thread) Refresh(ctx context.Context) ([]models.RootComment, bool, error) {
	prev, had := t.tree.Get()
	tree, err := t.tree.Load(ctx, func(ctx context.Context) ([]models.RootComment, error) {
		return t.source.Load(ctx, t.projectID, t.viewer)
	})
	if err != nil {
		return nil, false, err
	}
	return tree, !had || !reflect.DeepEqual(prev, tree), nil
}

// Tree returns the last committed tree, or nil before the first Refresh.
func (t *Thread) Tree() []models.RootComment {
	tree, _ := t.tree.Get()
	return tree
}

// Close discards in-flight refreshes and the held tree.
func (t *Thread) Close() {
	t.tree.Reset()
}
