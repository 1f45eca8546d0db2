// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	draftPrefix = "draft:"

	// DefaultDraftTTL is how long a reserved project id stays uploadable.
	DefaultDraftTTL = 24 * time.Hour
)

// RedisDrafts keeps reserved project ids in Valkey, keyed by id and holding
// the owner's profile id.
type RedisDrafts struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDrafts creates a registry. A zero ttl uses DefaultDraftTTL.
func NewRedisDrafts(client *redis.Client, ttl time.Duration) *RedisDrafts {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisDrafts{client: client, ttl: ttl}
}

// Reserve stores a fresh id for owner.
func (d *RedisDrafts) Reserve(ctx context.Context, owner uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	if err := d.client.Set(ctx, draftPrefix+id.String(), owner.String(), d.ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("draft reserve: %w", err)
	}
	return id, nil
}

// Owner returns who reserved id, or nil if the draft is gone.
func (d *RedisDrafts) Owner(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	v, err := d.client.Get(ctx, draftPrefix+id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft get: %w", err)
	}
	owner, err := uuid.Parse(v)
	if err != nil {
		return nil, nil
	}
	return &owner, nil
}

// Release forgets a draft once its project row exists.
func (d *RedisDrafts) Release(ctx context.Context, id uuid.UUID) error {
	if err := d.client.Del(ctx, draftPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("draft release: %w", err)
	}
	return nil
}
