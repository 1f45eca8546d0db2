// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// DemoProfileID is the fixed id of the development profile. The external
// auth service normally creates profiles; in development the seed stands in.
const DemoProfileID = "00000000-0000-4000-8000-000000000001"

// Seed populates the database with initial development data.
// It creates the demo maker profile if it does not exist yet.
func Seed(db *sql.DB) error {
	res, err := db.Exec(`
		INSERT INTO profiles (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, DemoProfileID, "Demo Maker")
	if err != nil {
		return fmt.Errorf("seed insert profile: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slog.Info("database seeded with demo profile", "profile_id", DemoProfileID)
	return nil
}
