// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestProfileStoreSetAvatarURL(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)
	ctx := context.Background()
	id := testProfile(t, db, "Avatar Maker")

	ok, err := s.SetAvatarURL(ctx, id, id.String()+"/avatar.png")
	if err != nil {
		t.Fatalf("SetAvatarURL: %v", err)
	}
	if !ok {
		t.Fatal("expected the profile to be updated")
	}

	var got string
	if err := db.QueryRow("SELECT avatar_url FROM profiles WHERE id = $1", id).Scan(&got); err != nil {
		t.Fatalf("read avatar: %v", err)
	}
	if got != id.String()+"/avatar.png" {
		t.Errorf("avatar_url = %q", got)
	}

	ok, err = s.SetAvatarURL(ctx, uuid.New(), "x/avatar.png")
	if err != nil {
		t.Fatalf("SetAvatarURL unknown: %v", err)
	}
	if ok {
		t.Error("unknown profile should not be updated")
	}
}
