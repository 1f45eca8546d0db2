// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metadata encodes and decodes the structured project data that the
// first schema generation appended to the free-text description column.
//
// The stored form is:
//
//	<trimmed description> + "\n\n__DIYVERSE_META_7f3a9b2c__\n" + <JSON> + "\n"
//
// Rows written in this form still exist, so the byte layout is fixed.
package metadata

import (
	"bytes"
	"encoding/json"
	"strings"

	"diyverse/internal/models"
)

const (
	// Sentinel opens the embedded block. It is preceded by a blank line and
	// sits on its own line.
	Sentinel = "\n\n__DIYVERSE_META_7f3a9b2c__\n"
	// Terminator closes the embedded block.
	Terminator = "\n"
)

// Encode appends meta to the trimmed description in the legacy format.
// A nil meta yields the trimmed description alone.
func Encode(description string, meta *models.ProjectMetadata) string {
	base := strings.TrimSpace(description)
	if meta == nil {
		return base
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Browser clients wrote these rows without HTML escaping.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(meta); err != nil {
		// Every field of ProjectMetadata is marshalable.
		return base
	}

	return base + Sentinel + strings.TrimSuffix(buf.String(), "\n") + Terminator
}

// Decode splits raw into the human-readable description and the embedded
// metadata. It never fails: a missing block or malformed JSON yields nil
// metadata and the description portion is still returned.
func Decode(raw string) (string, *models.ProjectMetadata) {
	idx := strings.Index(raw, Sentinel)
	if idx == -1 {
		return strings.TrimSpace(raw), nil
	}

	description := strings.TrimSpace(raw[:idx])
	rest := raw[idx+len(Sentinel):]
	if end := strings.Index(rest, Terminator); end != -1 {
		rest = rest[:end]
	}

	var meta *models.ProjectMetadata
	if err := json.Unmarshal([]byte(rest), &meta); err != nil {
		return description, nil
	}
	return description, meta
}

// DecodePtr is Decode for a nullable column value.
func DecodePtr(raw *string) (string, *models.ProjectMetadata) {
	if raw == nil {
		return "", nil
	}
	return Decode(*raw)
}

// HasMetadata reports whether raw carries an embedded metadata block.
func HasMetadata(raw string) bool {
	return strings.Contains(raw, Sentinel)
}
