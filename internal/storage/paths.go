// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Bucket names used by the project service.
const (
	AssetsBucket  = "project-assets"
	AvatarsBucket = "avatars"
)

// AssetKind is the second path segment under a project's prefix.
type AssetKind string

const (
	KindImages AssetKind = "images"
	KindFiles  AssetKind = "files"
)

// ParseAssetKind maps a request value to a known AssetKind.
func ParseAssetKind(s string) (AssetKind, bool) {
	switch k := AssetKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindImages, KindFiles:
		return k, true
	}
	return "", false
}

var (
	// unsafeFilename matches characters not allowed in a stored base name.
	unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	// trailingExt matches an extension with at least one character.
	trailingExt = regexp.MustCompile(`\.[^/.]+$`)
)

// lastSuffix holds the most recently issued filename suffix in unix millis.
var lastSuffix atomic.Int64

// BuildPath returns "<projectID>/<kind>/<filename>".
func BuildPath(projectID uuid.UUID, kind AssetKind, filename string) string {
	return projectID.String() + "/" + string(kind) + "/" + filename
}

// ProjectPrefix returns the key prefix that holds every asset of a project.
func ProjectPrefix(projectID uuid.UUID) string {
	return projectID.String() + "/"
}

// UniqueFilename turns an uploaded filename into "<base>_<millis><ext>".
// The extension is everything from the last dot, so "name." keeps a bare
// "." as its extension. Base characters outside [A-Za-z0-9_-] become "_".
// The suffix strictly increases across calls in this process, so two
// uploads of the same name never collide even within one millisecond.
func UniqueFilename(original string) string {
	ext := ""
	if i := strings.LastIndex(original, "."); i >= 0 && !strings.Contains(original[i:], "/") {
		ext = original[i:]
	}
	base := trailingExt.ReplaceAllString(original, "")
	base = unsafeFilename.ReplaceAllString(base, "_")
	return fmt.Sprintf("%s_%d%s", base, nextSuffix(time.Now().UnixMilli()), ext)
}

func nextSuffix(now int64) int64 {
	for {
		last := lastSuffix.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if lastSuffix.CompareAndSwap(last, next) {
			return next
		}
	}
}

// StepImageFilename names the image of the step at index.
func StepImageFilename(index int, name string) string {
	return fmt.Sprintf("step-%d-%s", index, name)
}

// AvatarPath returns the avatars-bucket key for a profile picture.
func AvatarPath(profileID uuid.UUID, ext string) string {
	return profileID.String() + "/avatar." + strings.TrimPrefix(ext, ".")
}

// BelongsTo reports whether v may be saved on the project. Blank values and
// absolute URLs always may; internal paths only under the project's prefix.
func BelongsTo(projectID uuid.UUID, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || !IsStoragePath(v) {
		return true
	}
	return strings.HasPrefix(v, ProjectPrefix(projectID)) && !strings.Contains(v, "..")
}

// IsStoragePath reports whether v is an internal storage path rather than an
// absolute URL.
func IsStoragePath(v string) bool {
	return !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://")
}
