// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

// EngagementStore handles membership rows for likes and saves.
type EngagementStore struct {
	db *sql.DB
}

// NewEngagementStore creates a new EngagementStore with the given database connection.
func NewEngagementStore(db *sql.DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// membershipTable names the table and subject column backing a kind.
type membershipTable struct {
	table   string
	subject string
}

var membershipTables = map[models.EngagementKind]membershipTable{
	models.EngagementProjectLike: {"project_likes", "project_id"},
	models.EngagementProjectSave: {"project_saves", "project_id"},
	models.EngagementCommentLike: {"comment_likes", "comment_id"},
}

func tableFor(kind models.EngagementKind) (membershipTable, error) {
	t, ok := membershipTables[kind]
	if !ok {
		return membershipTable{}, fmt.Errorf("unknown engagement kind %q", kind)
	}
	return t, nil
}

// Count returns the number of members of subject for kind.
func (s *EngagementStore) Count(ctx context.Context, kind models.EngagementKind, subject uuid.UUID) (int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+t.table+` WHERE `+t.subject+` = $1`, subject,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.table, err)
	}
	return count, nil
}

// Has reports whether profileID is a member of subject for kind.
func (s *EngagementStore) Has(ctx context.Context, kind models.EngagementKind, subject, profileID uuid.UUID) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+t.table+` WHERE `+t.subject+` = $1 AND profile_id = $2)`,
		subject, profileID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", t.table, err)
	}
	return exists, nil
}

// Toggle removes the membership row if present and inserts it otherwise.
// Returns true if the row now exists.
func (s *EngagementStore) Toggle(ctx context.Context, kind models.EngagementKind, subject, profileID uuid.UUID) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM `+t.table+` WHERE `+t.subject+` = $1 AND profile_id = $2`,
		subject, profileID,
	)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", t.table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s rows: %w", t.table, err)
	}
	if affected > 0 {
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO `+t.table+` (`+t.subject+`, profile_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		subject, profileID,
	); err != nil {
		return false, fmt.Errorf("insert %s: %w", t.table, err)
	}
	return true, nil
}
