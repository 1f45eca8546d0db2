// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly project slug generation and validation.
package slug

import (
	"regexp"
	"strings"
)

// MaxLength is the longest slug a project may carry.
const MaxLength = 80

// Fallback is used when a title yields no slug characters at all.
const Fallback = "project"

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid is the shape every stored slug must have.
	valid = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// Generate creates a URL-friendly slug from a project title, truncated to
// MaxLength. A title with no usable characters yields Fallback.
// Example: "LED Desk Lamp (v2)!" → "led-desk-lamp-v2"
func Generate(title string) string {
	result := strings.ToLower(strings.TrimSpace(title))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return Fallback
	}
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// Valid reports whether s is an acceptable stored slug.
func Valid(s string) bool {
	return len(s) <= MaxLength && valid.MatchString(s)
}
