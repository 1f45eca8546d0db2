// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists projects, their ordered content collections,
// comments and engagement rows in PostgreSQL.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSlugTaken is returned when (owner_id, slug) already exists.
var ErrSlugTaken = errors.New("you already have a project with this slug")

// ErrProjectExists is returned when a project is created with an id that
// is already in use.
var ErrProjectExists = errors.New("a project with this id already exists")

// projectsPrimaryKey is the constraint name of projects.id.
const projectsPrimaryKey = "projects_pkey"

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// violatedConstraint returns the constraint named by a PostgreSQL error.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// Collection names used in CollectionError.
const (
	CollectionImages = "images"
	CollectionBom    = "materials"
	CollectionSteps  = "instruction steps"
	CollectionFiles  = "files"
)

// CollectionError reports a failed save of one content collection. The
// collection's previous rows are left intact.
type CollectionError struct {
	Collection string
	Err        error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("could not save %s: %s", e.Collection, humanize(e.Err))
}

func (e *CollectionError) Unwrap() error { return e.Err }

// humanize prefers the server's message over the full driver error text.
func humanize(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

func collectionErr(collection string, err error) error {
	if err == nil {
		return nil
	}
	return &CollectionError{Collection: collection, Err: err}
}
