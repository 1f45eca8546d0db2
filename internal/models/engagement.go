// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// EngagementKind names a membership relation between a viewer and a subject.
type EngagementKind string

const (
	EngagementProjectLike EngagementKind = "project_like"
	EngagementProjectSave EngagementKind = "project_save"
	EngagementCommentLike EngagementKind = "comment_like"
)

// Valid returns true for the known kinds.
func (k EngagementKind) Valid() bool {
	switch k {
	case EngagementProjectLike, EngagementProjectSave, EngagementCommentLike:
		return true
	}
	return false
}

// EngagementState is the count of members and whether the viewer is one.
type EngagementState struct {
	Count     int  `json:"count"`
	ViewerHas bool `json:"viewer_has"`
}
