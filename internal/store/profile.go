// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ProfileStore updates the profile fields this service owns. Profiles are
// created by the external auth service.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// SetAvatarURL stores the avatar path or URL of a profile. Returns false if
// the profile does not exist.
func (s *ProfileStore) SetAvatarURL(ctx context.Context, id uuid.UUID, avatar string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2", avatar, id)
	if err != nil {
		return false, fmt.Errorf("set avatar: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
