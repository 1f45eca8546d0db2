// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func setupDrafts(t *testing.T) (*RedisDrafts, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisDrafts(client, 0), s
}

func TestRedisDraftsReserveAndOwner(t *testing.T) {
	drafts, s := setupDrafts(t)
	ctx := context.Background()
	owner := uuid.New()

	id, err := drafts.Reserve(ctx, owner)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if ttl := s.TTL(draftPrefix + id.String()); ttl != DefaultDraftTTL {
		t.Errorf("ttl = %v, want %v", ttl, DefaultDraftTTL)
	}

	got, err := drafts.Owner(ctx, id)
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got == nil || *got != owner {
		t.Errorf("Owner = %v, want %v", got, owner)
	}
}

func TestRedisDraftsExpire(t *testing.T) {
	drafts, s := setupDrafts(t)
	ctx := context.Background()

	id, err := drafts.Reserve(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	s.FastForward(DefaultDraftTTL + time.Second)

	got, err := drafts.Owner(ctx, id)
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if got != nil {
		t.Errorf("Owner after expiry = %v, want nil", got)
	}
}

func TestRedisDraftsRelease(t *testing.T) {
	drafts, s := setupDrafts(t)
	ctx := context.Background()

	id, _ := drafts.Reserve(ctx, uuid.New())
	if err := drafts.Release(ctx, id); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if s.Exists(draftPrefix + id.String()) {
		t.Error("draft key still present after Release")
	}
	if got, _ := drafts.Owner(ctx, id); got != nil {
		t.Errorf("Owner after Release = %v", got)
	}
}

func TestRedisDraftsUnknown(t *testing.T) {
	drafts, _ := setupDrafts(t)
	got, err := drafts.Owner(context.Background(), uuid.New())
	if err != nil || got != nil {
		t.Errorf("Owner(unknown) = %v, %v", got, err)
	}
}
