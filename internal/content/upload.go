// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"diyverse/internal/models"
	"diyverse/internal/storage"
)

// Upload size limits.
const (
	MaxImageBytes = 5 << 20
	MaxFileBytes  = 50 << 20
)

// NoStep marks an upload that is not a step image.
const NoStep = -1

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// IsImageType reports whether contentType is an accepted image type.
func IsImageType(contentType string) bool {
	return imageTypes[contentType]
}

// Asset is an uploaded file on its way to the object store.
type Asset struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReserveDraft returns a project id the viewer can upload assets to before
// publishing it with Form.DraftID.
func (e *Editor) ReserveDraft(ctx context.Context, viewer *uuid.UUID) (uuid.UUID, error) {
	if viewer == nil {
		return uuid.Nil, ErrUnauthorized
	}
	if e.blobs == nil || e.drafts == nil {
		return uuid.Nil, ErrUploadsUnavailable
	}
	id, err := e.drafts.Reserve(ctx, *viewer)
	if err != nil {
		return uuid.Nil, err
	}
	slog.Info("draft reserved", "project_id", id, "owner_id", *viewer)
	return id, nil
}

// Upload stores an asset under the project's prefix and returns its storage
// path. The project must be owned by the viewer or be a draft they reserved.
// step is the instruction step an image belongs to, or NoStep.
func (e *Editor) Upload(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, kind storage.AssetKind, step int, a Asset) (string, error) {
	if viewer == nil {
		return "", ErrUnauthorized
	}
	if e.blobs == nil {
		return "", ErrUploadsUnavailable
	}
	if err := checkAsset(kind, step, a); err != nil {
		return "", err
	}
	if err := e.canUpload(ctx, *viewer, projectID); err != nil {
		return "", err
	}

	name := storage.UniqueFilename(path.Base(a.Name))
	if step != NoStep {
		name = storage.StepImageFilename(step, name)
	}
	key := storage.BuildPath(projectID, kind, name)
	if err := e.blobs.Upload(ctx, storage.AssetsBucket, key, a.ContentType, a.Body, a.Size); err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}
	slog.Info("asset uploaded", "project_id", projectID, "key", key, "size", a.Size)
	return key, nil
}

// PublicURL resolves an uploaded asset path.
func (e *Editor) PublicURL(key string) string {
	return storage.Resolve(e.blobs, storage.AssetsBucket, key)
}

func (e *Editor) canUpload(ctx context.Context, viewer, projectID uuid.UUID) error {
	p, err := e.projects.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if p != nil {
		if !p.IsOwnedBy(viewer) {
			return ErrForbidden
		}
		return nil
	}

	if e.drafts == nil {
		return ErrNotFound
	}
	owner, err := e.drafts.Owner(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}
	if owner == nil || *owner != viewer {
		return ErrNotFound
	}
	return nil
}

// checkAsset applies the type and size rules of kind.
func checkAsset(kind storage.AssetKind, step int, a Asset) error {
	if a.Size <= 0 {
		return ValidationErrors{"file": "The file is empty."}
	}
	if step < NoStep {
		return ValidationErrors{"step": "Step must be zero or more."}
	}

	switch kind {
	case storage.KindImages:
		if !IsImageType(a.ContentType) {
			return ValidationErrors{"file": "Images must be JPEG, PNG, WebP or GIF."}
		}
		if a.Size > MaxImageBytes {
			return ValidationErrors{"file": "Images must be 5MB or smaller."}
		}
	case storage.KindFiles:
		if step != NoStep {
			return ValidationErrors{"step": "Only images can belong to a step."}
		}
		if _, ok := models.FileTypeFromName(a.Name); !ok {
			return ValidationErrors{"file": "Files must be STL, 3MF, Gerber or PDF."}
		}
		if a.Size > MaxFileBytes {
			return ValidationErrors{"file": "Files must be 50MB or smaller."}
		}
	default:
		return ValidationErrors{"kind": "Kind must be images or files."}
	}
	return nil
}
