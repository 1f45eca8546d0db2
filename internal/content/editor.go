// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"diyverse/internal/metadata"
	"diyverse/internal/models"
	"diyverse/internal/storage"
	"diyverse/internal/store"
)

var (
	// ErrNotFound is returned when the project does not exist.
	ErrNotFound = errors.New("project not found")
	// ErrUnauthorized is returned when no viewer is signed in.
	ErrUnauthorized = errors.New("you must be signed in")
	// ErrForbidden is returned when the viewer does not own the project.
	ErrForbidden = errors.New("you can only change your own projects")
	// ErrConfirmation is returned when a deletion was not confirmed.
	ErrConfirmation = errors.New(`type "delete" to confirm`)
	// ErrUploadsUnavailable is returned when no object store is configured.
	ErrUploadsUnavailable = errors.New("file uploads are not available")
	// errMaterialsNotSaved marks steps skipped because their materials failed.
	errMaterialsNotSaved = errors.New("materials were not saved")
)

// DeleteConfirmation is the phrase a user types to delete a project.
const DeleteConfirmation = "delete"

// ProjectWriter is the project row persistence the editor needs.
type ProjectWriter interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	UpdateDescriptionAndCover(ctx context.Context, id uuid.UUID, description, coverURL *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// CollectionWriter saves the normalized collections.
type CollectionWriter interface {
	SaveImages(ctx context.Context, projectID uuid.UUID, paths []string) error
	SaveBom(ctx context.Context, projectID uuid.UUID, materials []models.MaterialItem) (map[string]string, error)
	SaveInstructionSteps(ctx context.Context, projectID uuid.UUID, steps []models.InstructionStep, idMap map[string]string) error
	SaveFiles(ctx context.Context, projectID uuid.UUID, files []models.FileRef) (store.FileDelta, error)
}

// SaveReport tells which collections of a save failed. A failed collection
// keeps its previous rows; the others are saved regardless.
type SaveReport struct {
	Failures []error         `json:"-"`
	Files    store.FileDelta `json:"-"`
}

// OK reports whether every collection was saved.
func (r *SaveReport) OK() bool {
	return len(r.Failures) == 0
}

// Messages returns one human readable message per failed collection.
func (r *SaveReport) Messages() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, 0, len(r.Failures))
	for _, err := range r.Failures {
		out = append(out, err.Error())
	}
	return out
}

func (r *SaveReport) add(err error) {
	if err != nil {
		r.Failures = append(r.Failures, err)
	}
}

// DraftRegistry hands out project ids a viewer can upload assets to before
// the project is published.
type DraftRegistry interface {
	Reserve(ctx context.Context, owner uuid.UUID) (uuid.UUID, error)
	// Owner returns nil if the draft expired or never existed.
	Owner(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
	Release(ctx context.Context, id uuid.UUID) error
}

// Editor publishes, edits and deletes projects.
type Editor struct {
	projects    ProjectWriter
	collections CollectionWriter
	blobs       storage.BlobStore
	drafts      DraftRegistry
}

// NewEditor creates an Editor. blobs may be nil; uploads are then refused
// and asset cleanup is skipped. drafts may be nil; projects can then only
// reference external URLs until they exist.
func NewEditor(projects ProjectWriter, collections CollectionWriter, blobs storage.BlobStore, drafts DraftRegistry) *Editor {
	return &Editor{projects: projects, collections: collections, blobs: blobs, drafts: drafts}
}

// prepare checks the viewer and normalizes and validates the form before
// anything is written.
func prepare(viewer *uuid.UUID, form *Form) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	form.Normalize()
	return form.Validate()
}

// Publish creates a project owned by viewer and saves its content.
func (e *Editor) Publish(ctx context.Context, viewer *uuid.UUID, form Form) (*models.Project, *SaveReport, error) {
	if err := prepare(viewer, &form); err != nil {
		return nil, nil, err
	}

	id, err := e.newProjectID(ctx, *viewer, form.DraftID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkPaths(id, &form); err != nil {
		return nil, nil, err
	}

	description := metadata.Encode(form.Description, legacyMetadata(&form, nil))
	p, err := e.projects.Create(ctx, &models.Project{
		ID:              id,
		OwnerID:         *viewer,
		Title:           form.Title,
		Slug:            form.Slug,
		Description:     nullable(description),
		IsPublic:        form.IsPublic,
		SEOTitle:        form.SEOTitle,
		MetaDescription: form.MetaDescription,
	})
	if errors.Is(err, store.ErrProjectExists) {
		return nil, nil, ValidationErrors{"draft_id": msgDraftExpired}
	}
	if err != nil {
		return nil, nil, err
	}

	if form.DraftID != nil {
		if err := e.drafts.Release(ctx, id); err != nil {
			slog.Warn("draft release failed", "project_id", id, "error", err)
		}
	}

	report, err := e.saveContent(ctx, p, &form)
	if err != nil {
		return p, report, err
	}
	slog.Info("project published", "project_id", p.ID, "owner_id", p.OwnerID, "slug", p.Slug)
	return p, report, nil
}

// Edit replaces the content of a project the viewer owns.
func (e *Editor) Edit(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, form Form) (*models.Project, *SaveReport, error) {
	if err := prepare(viewer, &form); err != nil {
		return nil, nil, err
	}

	p, err := e.owned(ctx, *viewer, projectID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkPaths(p.ID, &form); err != nil {
		return nil, nil, err
	}

	p.Title = form.Title
	p.Slug = form.Slug
	p.IsPublic = form.IsPublic
	p.SEOTitle = form.SEOTitle
	p.MetaDescription = form.MetaDescription
	p.Description = nullable(metadata.Encode(form.Description, legacyMetadata(&form, nil)))
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, nil, err
	}

	report, err := e.saveContent(ctx, p, &form)
	if err != nil {
		return p, report, err
	}
	slog.Info("project updated", "project_id", p.ID, "failures", len(report.Failures))
	return p, report, nil
}

// saveContent writes images, BOM, steps and files in that order, then the
// legacy blob and cover. Steps need the BOM id map, so they are skipped if
// the BOM failed.
func (e *Editor) saveContent(ctx context.Context, p *models.Project, form *Form) (*SaveReport, error) {
	report := &SaveReport{}
	images := orderImages(form.Images, form.ThumbnailIndex)

	report.add(e.collections.SaveImages(ctx, p.ID, images))

	idMap, err := e.collections.SaveBom(ctx, p.ID, form.Materials)
	report.add(err)

	if form.InstructionMode == models.InstructionModeMaker {
		if err != nil {
			report.add(&store.CollectionError{Collection: store.CollectionSteps, Err: errMaterialsNotSaved})
		} else {
			report.add(e.collections.SaveInstructionSteps(ctx, p.ID, form.InstructionSteps, idMap))
		}
	} else {
		report.add(e.collections.SaveInstructionSteps(ctx, p.ID, nil, nil))
	}

	delta, err := e.collections.SaveFiles(ctx, p.ID, form.Files)
	report.add(err)
	report.Files = delta

	description := nullable(metadata.Encode(form.Description, legacyMetadata(form, images)))
	var cover *string
	if len(images) > 0 {
		cover = &images[0]
	}
	if err := e.projects.UpdateDescriptionAndCover(ctx, p.ID, description, cover); err != nil {
		return report, err
	}
	p.Description = description
	p.CoverURL = cover

	for _, f := range report.Failures {
		slog.Warn("project content save failed", "project_id", p.ID, "error", f)
	}
	return report, nil
}

// Delete removes a project the viewer owns after the typed confirmation.
// Stored assets are removed best-effort afterwards.
func (e *Editor) Delete(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, confirmation string) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(confirmation), DeleteConfirmation) {
		return ErrConfirmation
	}

	if _, err := e.owned(ctx, *viewer, projectID); err != nil {
		return err
	}
	if err := e.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	slog.Info("project deleted", "project_id", projectID, "owner_id", *viewer)

	if e.blobs != nil {
		n, err := e.blobs.DeletePrefix(ctx, storage.AssetsBucket, storage.ProjectPrefix(projectID))
		if err != nil {
			slog.Warn("project asset cleanup failed", "project_id", projectID, "error", err)
		} else {
			slog.Info("project assets removed", "project_id", projectID, "count", n)
		}
	}
	return nil
}

func (e *Editor) owned(ctx context.Context, viewer, projectID uuid.UUID) (*models.Project, error) {
	p, err := e.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if !p.IsOwnedBy(viewer) {
		return nil, ErrForbidden
	}
	return p, nil
}

// newProjectID picks the id of a project about to be published. A draft id
// must have been reserved by the viewer and not yet be used.
func (e *Editor) newProjectID(ctx context.Context, viewer uuid.UUID, draftID *uuid.UUID) (uuid.UUID, error) {
	if draftID == nil {
		return uuid.New(), nil
	}
	if e.drafts == nil {
		return uuid.Nil, ValidationErrors{"draft_id": msgDraftExpired}
	}
	owner, err := e.drafts.Owner(ctx, *draftID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load draft: %w", err)
	}
	if owner == nil || *owner != viewer {
		return uuid.Nil, ValidationErrors{"draft_id": msgDraftExpired}
	}
	return *draftID, nil
}

// checkPaths rejects stored paths that live under another project's prefix.
// Absolute URLs are accepted as they are.
func checkPaths(projectID uuid.UUID, form *Form) error {
	errs := ValidationErrors{}
	for _, img := range form.Images {
		if !storage.BelongsTo(projectID, img) {
			errs["images"] = msgForeignAsset
			break
		}
	}
	for i, s := range form.InstructionSteps {
		if s.ImageURL != nil && !storage.BelongsTo(projectID, *s.ImageURL) {
			errs[fmt.Sprintf("instruction_steps[%d].image_url", i)] = msgForeignAsset
		}
	}
	if form.InstructionMode == models.InstructionModeUpload && form.InstructionFile != nil &&
		!storage.BelongsTo(projectID, form.InstructionFile.Path) {
		errs["instruction_file"] = msgForeignAsset
	}
	for i, f := range form.Files {
		if !storage.BelongsTo(projectID, f.Path) {
			errs[fmt.Sprintf("files[%d].path", i)] = msgForeignAsset
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// orderImages moves the thumbnail to the front.
func orderImages(images []string, thumbnail int) []string {
	if thumbnail <= 0 || thumbnail >= len(images) {
		return append([]string(nil), images...)
	}
	out := make([]string, 0, len(images))
	out = append(out, images[thumbnail])
	out = append(out, images[:thumbnail]...)
	return append(out, images[thumbnail+1:]...)
}

// legacyMetadata builds the blob embedded in the description. Steps are
// omitted in upload mode and the instruction file in maker mode.
func legacyMetadata(form *Form, images []string) *models.ProjectMetadata {
	meta := models.NewProjectMetadata()
	meta.Tags = append(meta.Tags, form.Tags...)
	meta.ImageURLs = append(meta.ImageURLs, images...)
	for _, m := range form.Materials {
		if m.Name != "" {
			meta.Materials = append(meta.Materials, m)
		}
	}
	meta.InstructionMode = form.InstructionMode
	if form.InstructionMode == models.InstructionModeMaker {
		meta.InstructionSteps = append([]models.InstructionStep{}, form.InstructionSteps...)
	} else {
		meta.InstructionFileRef = form.InstructionFile
	}
	meta.FileRefs = append(meta.FileRefs, form.Files...)
	return meta
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
