// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

var (
	// ErrProjectNotFound is returned when the project does not exist or is
	// private to someone else.
	ErrProjectNotFound = errors.New("project not found")
	ErrUnauthorized    = errors.New("sign in to comment")
	ErrNotFound        = errors.New("comment not found")
	ErrForbidden       = errors.New("you can only delete your own comments")
	ErrEmptyBody       = errors.New("comment cannot be empty")
	ErrInvalidParent   = errors.New("you can only reply to a top-level comment on this project")
)

// Store is the comment persistence the service needs.
type Store interface {
	ListByProject(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, id, profileID uuid.UUID) (bool, error)
}

// ProjectLookup finds the project a thread belongs to.
type ProjectLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// Liker toggles comment likes.
type Liker interface {
	Toggle(ctx context.Context, kind models.EngagementKind, subject uuid.UUID, viewer *uuid.UUID, current models.EngagementState) (models.EngagementState, error)
}

// Service reads and changes comment threads. Every change returns the
// thread rebuilt from a fresh read. Threads of private projects exist only
// for their owner.
type Service struct {
	store    Store
	likes    Liker
	projects ProjectLookup
}

// NewService creates a Service.
func NewService(store Store, likes Liker, projects ProjectLookup) *Service {
	return &Service{store: store, likes: likes, projects: projects}
}

// Load returns the comment tree of a project as seen by viewer.
func (s *Service) Load(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error) {
	if err := s.visible(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	return s.tree(ctx, projectID, viewer)
}

func (s *Service) tree(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error) {
	rows, err := s.store.ListByProject(ctx, projectID, viewer)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	return Build(rows), nil
}

// Add posts a comment or a reply to a root comment of the same project.
func (s *Service) Add(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID, body string, parentID *uuid.UUID) ([]models.RootComment, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if err := s.visible(ctx, projectID, viewer); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.store.FindByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ProjectID != projectID || !parent.IsRoot() {
			return nil, ErrInvalidParent
		}
	}

	c, err := s.store.Create(ctx, &models.Comment{
		ProjectID: projectID,
		ProfileID: *viewer,
		ParentID:  parentID,
		Body:      body,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("comment added", "comment_id", c.ID, "project_id", projectID)
	return s.tree(ctx, projectID, viewer)
}

// Delete removes the viewer's own comment and its replies.
func (s *Service) Delete(ctx context.Context, projectID, commentID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if err := s.visible(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	if _, err := s.inProject(ctx, projectID, commentID); err != nil {
		return nil, err
	}

	deleted, err := s.store.Delete(ctx, commentID, *viewer)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrForbidden
	}
	slog.Info("comment deleted", "comment_id", commentID, "project_id", projectID)
	return s.tree(ctx, projectID, viewer)
}

// ToggleLike likes or unlikes a comment for viewer. A toggle already in
// flight for the same comment and viewer is ignored.
func (s *Service) ToggleLike(ctx context.Context, projectID, commentID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	if err := s.visible(ctx, projectID, viewer); err != nil {
		return nil, err
	}
	if _, err := s.inProject(ctx, projectID, commentID); err != nil {
		return nil, err
	}

	// The optimistic state is discarded; the tree below is re-read.
	if _, err := s.likes.Toggle(ctx, models.EngagementCommentLike, commentID, viewer, models.EngagementState{}); err != nil {
		return nil, err
	}
	return s.tree(ctx, projectID, viewer)
}

func (s *Service) visible(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) error {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if p == nil || !p.VisibleTo(viewer) {
		return ErrProjectNotFound
	}
	return nil
}

func (s *Service) inProject(ctx context.Context, projectID, commentID uuid.UUID) (*models.Comment, error) {
	c, err := s.store.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return c, nil
}
