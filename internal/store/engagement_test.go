// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"diyverse/internal/models"
)

func TestEngagementStoreToggle(t *testing.T) {
	db := testDB(t)
	es := NewEngagementStore(db)
	ctx := context.Background()

	owner := testProfile(t, db, "Owner")
	fan := testProfile(t, db, "Fan")
	p := testProject(t, db, owner)

	for _, kind := range []models.EngagementKind{models.EngagementProjectLike, models.EngagementProjectSave} {
		t.Run(string(kind), func(t *testing.T) {
			added, err := es.Toggle(ctx, kind, p.ID, fan)
			if err != nil || !added {
				t.Fatalf("first Toggle = %v, %v", added, err)
			}
			if n, _ := es.Count(ctx, kind, p.ID); n != 1 {
				t.Errorf("Count = %d, want 1", n)
			}
			if has, _ := es.Has(ctx, kind, p.ID, fan); !has {
				t.Error("Has should be true after adding")
			}
			if has, _ := es.Has(ctx, kind, p.ID, owner); has {
				t.Error("Has should be false for another profile")
			}

			added, err = es.Toggle(ctx, kind, p.ID, fan)
			if err != nil || added {
				t.Fatalf("second Toggle = %v, %v", added, err)
			}
			if n, _ := es.Count(ctx, kind, p.ID); n != 0 {
				t.Errorf("Count = %d, want 0", n)
			}
		})
	}
}

func TestEngagementStoreUnknownKind(t *testing.T) {
	es := NewEngagementStore(nil)
	ctx := context.Background()

	if _, err := es.Count(ctx, "comment_save", uuid.New()); err == nil {
		t.Error("Count should reject unknown kind")
	}
	if _, err := es.Toggle(ctx, "bogus", uuid.New(), uuid.New()); err == nil {
		t.Error("Toggle should reject unknown kind")
	}
}
