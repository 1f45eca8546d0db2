// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a row of project_comments annotated with like data for the
// current viewer. IsLikedByMe is always false for anonymous viewers.
type Comment struct {
	ID                uuid.UUID  `json:"id"`
	ProjectID         uuid.UUID  `json:"project_id"`
	ProfileID         uuid.UUID  `json:"profile_id"`
	ParentID          *uuid.UUID `json:"parent_id"`
	Body              string     `json:"body"`
	CreatedAt         time.Time  `json:"created_at"`
	AuthorDisplayName *string    `json:"author_display_name,omitempty"`
	AuthorAvatarURL   *string    `json:"author_avatar_url,omitempty"`
	LikeCount         int        `json:"like_count"`
	IsLikedByMe       bool       `json:"is_liked_by_me"`
}

// IsRoot returns true if the comment has no parent.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// RootComment is a top-level comment with its replies. Replies carry no
// replies of their own: threads are one level deep.
type RootComment struct {
	Comment
	Replies []Comment `json:"replies"`
}
