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

// ProjectStore handles project row operations. Child collections live in
// ContentStore and are removed by ON DELETE CASCADE.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// projectColumns lists the columns selected in project queries.
const projectColumns = `id, owner_id, title, slug, description, cover_url, is_public,
	seo_title, meta_description, created_at, updated_at`

// ownerColumns extends projectColumns with the owner display fields of
// projects_public_with_owner.
const ownerColumns = projectColumns + `, owner_display_name, owner_avatar_url`

// scanProject scans a project row from the result set.
func scanProject(scanner interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := scanner.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Description, &p.CoverURL, &p.IsPublic,
		&p.SEOTitle, &p.MetaDescription, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanProjectWithOwner scans a row of the public view.
func scanProjectWithOwner(scanner interface{ Scan(...any) error }) (*models.ProjectWithOwner, error) {
	var p models.ProjectWithOwner
	err := scanner.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Description, &p.CoverURL, &p.IsPublic,
		&p.SEOTitle, &p.MetaDescription, &p.CreatedAt, &p.UpdatedAt,
		&p.OwnerDisplayName, &p.OwnerAvatarURL,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project and returns it. The id is generated unless
// p.ID is set. Returns ErrSlugTaken if the owner already has a project with
// this slug and ErrProjectExists if p.ID is in use.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	var id *uuid.UUID
	if p.ID != uuid.Nil {
		id = &p.ID
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, owner_id, title, slug, description, cover_url, is_public,
		                      seo_title, meta_description)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+projectColumns,
		id, p.OwnerID, p.Title, p.Slug, p.Description, p.CoverURL, p.IsPublic,
		p.SEOTitle, p.MetaDescription,
	)
	created, err := scanProject(row)
	if isUniqueViolation(err) {
		if violatedConstraint(err) == projectsPrimaryKey {
			return nil, ErrProjectExists
		}
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// Update modifies the editable fields of an existing project.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, description = $3, cover_url = $4, is_public = $5,
			seo_title = $6, meta_description = $7, updated_at = NOW()
		WHERE id = $8
	`, p.Title, p.Slug, p.Description, p.CoverURL, p.IsPublic,
		p.SEOTitle, p.MetaDescription, p.ID,
	)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// UpdateDescriptionAndCover rewrites the legacy description blob and the
// cover path after assets are in place.
func (s *ProjectStore) UpdateDescriptionAndCover(ctx context.Context, id uuid.UUID, description, coverURL *string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET description = $1, cover_url = $2, updated_at = NOW()
		WHERE id = $3
	`, description, coverURL, id)
	if err != nil {
		return fmt.Errorf("update project description: %w", err)
	}
	return nil
}

// Delete removes a project by ID. Child rows cascade.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its UUID regardless of visibility.
// Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// FindByOwnerSlug retrieves a public project through the
// projects_public_with_owner view. Returns nil if not found.
func (s *ProjectStore) FindByOwnerSlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM projects_public_with_owner
		WHERE owner_id = $1 AND slug = $2
	`, ownerID, slug)
	p, err := scanProjectWithOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by slug: %w", err)
	}
	return p, nil
}

// FindOwnBySlug is FindByOwnerSlug for the owner, who also sees private
// projects. Returns nil if not found.
func (s *ProjectStore) FindOwnBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*models.ProjectWithOwner, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.owner_id, p.title, p.slug, p.description, p.cover_url, p.is_public,
		       p.seo_title, p.meta_description, p.created_at, p.updated_at,
		       pr.display_name, pr.avatar_url
		FROM projects p
		JOIN profiles pr ON pr.id = p.owner_id
		WHERE p.owner_id = $1 AND p.slug = $2
	`, ownerID, slug)
	p, err := scanProjectWithOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find own project by slug: %w", err)
	}
	return p, nil
}

// ListPublic returns public projects, newest first, with pagination.
func (s *ProjectStore) ListPublic(ctx context.Context, limit, offset int) ([]models.ProjectWithOwner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ownerColumns+`
		FROM projects_public_with_owner
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list public projects: %w", err)
	}
	defer rows.Close()

	var items []models.ProjectWithOwner
	for rows.Next() {
		p, err := scanProjectWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListByOwner returns every project of an owner, newest first.
func (s *ProjectStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects by owner: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ListSavedBy returns the public projects a profile has saved, most
// recently saved first.
func (s *ProjectStore) ListSavedBy(ctx context.Context, profileID uuid.UUID) ([]models.ProjectWithOwner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.owner_id, v.title, v.slug, v.description, v.cover_url, v.is_public,
		       v.seo_title, v.meta_description, v.created_at, v.updated_at,
		       v.owner_display_name, v.owner_avatar_url
		FROM project_saves ps
		JOIN projects_public_with_owner v ON v.id = ps.project_id
		WHERE ps.profile_id = $1
		ORDER BY ps.created_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list saved projects: %w", err)
	}
	defer rows.Close()

	var items []models.ProjectWithOwner
	for rows.Next() {
		p, err := scanProjectWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
