// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

// CommentStore handles project comment rows.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// commentColumns lists the base columns of project_comments.
const commentColumns = `id, project_id, profile_id, parent_id, body, created_at`

// ListByProject returns every comment of a project, oldest first, annotated
// with author display fields, like count and whether viewer liked it. A nil
// viewer never has liked anything.
func (s *CommentStore) ListByProject(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.Comment, error) {
	var viewerArg any
	if viewer != nil {
		viewerArg = *viewer
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.project_id, c.profile_id, c.parent_id, c.body, c.created_at,
		       pr.display_name, pr.avatar_url,
		       (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id),
		       EXISTS (
		           SELECT 1 FROM comment_likes cl
		           WHERE cl.comment_id = c.id AND cl.profile_id = $2::uuid
		       )
		FROM project_comments c
		LEFT JOIN profiles pr ON pr.id = c.profile_id
		WHERE c.project_id = $1
		ORDER BY c.created_at ASC
	`, projectID, viewerArg)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.ProjectID, &c.ProfileID, &c.ParentID, &c.Body, &c.CreatedAt,
			&c.AuthorDisplayName, &c.AuthorAvatarURL, &c.LikeCount, &c.IsLikedByMe,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment without annotations. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM project_comments WHERE id = $1`, id).Scan(
		&c.ID, &c.ProjectID, &c.ProfileID, &c.ParentID, &c.Body, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return &c, nil
}

// Create inserts a comment and returns it with the generated ID.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	created := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO project_comments (project_id, profile_id, parent_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING `+commentColumns,
		c.ProjectID, c.ProfileID, c.ParentID, c.Body,
	).Scan(
		&created.ID, &created.ProjectID, &created.ProfileID, &created.ParentID,
		&created.Body, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// Delete removes a comment written by profileID. Replies cascade. Returns
// false if no such comment by that author exists.
func (s *CommentStore) Delete(ctx context.Context, id, profileID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM project_comments WHERE id = $1 AND profile_id = $2
	`, id, profileID)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment rows: %w", err)
	}
	return affected > 0, nil
}
