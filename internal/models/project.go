// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Field limits shared by validation and the database schema.
const (
	TitleMinLength = 2
	TitleMaxLength = 100
	SlugMaxLength  = 80
)

// Project is a published DIY project. The Description column may carry the
// legacy embedded metadata suffix; use the metadata package to split it.
type Project struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     *string   `json:"description,omitempty"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	IsPublic        bool      `json:"is_public"`
	SEOTitle        *string   `json:"seo_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RawDescription returns the stored description text, or "" when NULL.
func (p *Project) RawDescription() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// Cover returns the cover path or URL, or "" when unset.
func (p *Project) Cover() string {
	if p.CoverURL == nil {
		return ""
	}
	return *p.CoverURL
}

// IsOwnedBy reports whether the given profile owns the project.
func (p *Project) IsOwnedBy(profileID uuid.UUID) bool {
	return profileID != uuid.Nil && p.OwnerID == profileID
}

// VisibleTo reports whether viewer may see the project: public projects are
// visible to everyone, private ones only to their owner. viewer may be nil.
func (p *Project) VisibleTo(viewer *uuid.UUID) bool {
	return p.IsPublic || (viewer != nil && p.IsOwnedBy(*viewer))
}

// ProjectWithOwner is a row of the projects_public_with_owner view.
type ProjectWithOwner struct {
	Project
	OwnerDisplayName *string `json:"owner_display_name,omitempty"`
	OwnerAvatarURL   *string `json:"owner_avatar_url,omitempty"`
}
