// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content builds the display view of a project and saves edits to
// it. Project content lives in two places: the normalized collection tables
// and the legacy metadata blob embedded in the description. Reads prefer
// the tables per collection; writes go to both.
package content

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"diyverse/internal/markdown"
	"diyverse/internal/metadata"
	"diyverse/internal/models"
	"diyverse/internal/storage"
)

// CollectionReader loads the normalized collections of a project. Load
// failures yield empty slices.
type CollectionReader interface {
	LoadImages(ctx context.Context, projectID uuid.UUID) []string
	LoadBom(ctx context.Context, projectID uuid.UUID) []models.MaterialItem
	LoadInstructionSteps(ctx context.Context, projectID uuid.UUID) []models.InstructionStep
	LoadFiles(ctx context.Context, projectID uuid.UUID) []models.FileRef
}

// Source tells which store a collection in a View was read from.
type Source string

const (
	SourceNormalized Source = "normalized"
	SourceLegacy     Source = "legacy"
)

// Sources records the chosen Source per collection.
type Sources struct {
	Images    Source `json:"images"`
	Materials Source `json:"materials"`
	Steps     Source `json:"steps"`
	Files     Source `json:"files"`
}

// Image is a project image with its public URL.
type Image struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// StepMaterial is a material referenced by a step. Name falls back to the
// raw ID when the material no longer exists.
type StepMaterial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// Step is an instruction step prepared for display.
type Step struct {
	Number      int            `json:"number"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url,omitempty"`
	Materials   []StepMaterial `json:"materials"`
	Tools       []string       `json:"tools"`
}

// File is a downloadable file with its public URL.
type File struct {
	models.FileRef
	URL string `json:"url"`
}

// InstructionFile is an uploaded instructions document.
type InstructionFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// View is the assembled content of one project.
type View struct {
	Project         *models.ProjectWithOwner `json:"project"`
	OwnerAvatarURL  string                   `json:"owner_avatar_url,omitempty"`
	Description     string                   `json:"description"`
	DescriptionHTML string                   `json:"description_html"`
	Tags            []string                 `json:"tags"`
	Images          []Image                  `json:"images"`
	Materials       []models.MaterialItem    `json:"materials"`
	InstructionMode models.InstructionMode   `json:"instruction_mode"`
	Steps           []Step                   `json:"steps"`
	InstructionFile *InstructionFile         `json:"instruction_file,omitempty"`
	Files           []File                   `json:"files"`
	Sources         Sources                  `json:"sources"`
}

// Assembler builds Views.
type Assembler struct {
	collections CollectionReader
	blobs       storage.BlobStore
}

// NewAssembler creates an Assembler. blobs may be nil, in which case
// internal paths are returned as is.
func NewAssembler(collections CollectionReader, blobs storage.BlobStore) *Assembler {
	return &Assembler{collections: collections, blobs: blobs}
}

// loaded holds the four normalized collections.
type loaded struct {
	images []string
	bom    []models.MaterialItem
	steps  []models.InstructionStep
	files  []models.FileRef
}

func (a *Assembler) load(ctx context.Context, projectID uuid.UUID) (loaded, error) {
	var l loaded
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.images = a.collections.LoadImages(gctx, projectID)
		return nil
	})
	g.Go(func() error {
		l.bom = a.collections.LoadBom(gctx, projectID)
		return nil
	})
	g.Go(func() error {
		l.steps = a.collections.LoadInstructionSteps(gctx, projectID)
		return nil
	})
	g.Go(func() error {
		l.files = a.collections.LoadFiles(gctx, projectID)
		return nil
	})
	return l, g.Wait()
}

// Assemble decodes the legacy blob, loads the normalized collections and
// picks, per collection, the normalized rows when there are any and the
// legacy field otherwise. Sources are never merged element-wise.
func (a *Assembler) Assemble(ctx context.Context, p *models.ProjectWithOwner) (*View, error) {
	description, legacy := metadata.DecodePtr(p.Description)
	if legacy == nil {
		legacy = &models.ProjectMetadata{}
	}

	l, err := a.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var src Sources
	images := pick(l.images, legacy.ImageURLs, &src.Images)
	bom := pick(l.bom, legacy.Materials, &src.Materials)
	steps := pick(l.steps, legacy.InstructionSteps, &src.Steps)
	files := pick(l.files, legacy.FileRefs, &src.Files)

	html, err := markdown.ToHTML(description)
	if err != nil {
		slog.Warn("render project description", "project_id", p.ID, "error", err)
		html = ""
	}

	mode := legacy.InstructionMode
	if mode == "" {
		mode = models.InstructionModeMaker
	}

	v := &View{
		Project:         p,
		OwnerAvatarURL:  storage.AvatarURL(a.blobs, p.OwnerAvatarURL),
		Description:     description,
		DescriptionHTML: html,
		Tags:            nonNil(legacy.Tags),
		Images:          a.images(p.Cover(), images),
		Materials:       nonNil(bom),
		InstructionMode: mode,
		Steps:           a.steps(steps, bom),
		Files:           a.files(files),
		Sources:         src,
	}
	if ref := legacy.InstructionFileRef; ref != nil && ref.Path != "" {
		v.InstructionFile = &InstructionFile{Name: ref.Name, URL: a.url(ref.Path)}
	}
	return v, nil
}

// pick returns normalized if it has elements and legacy otherwise.
func pick[T any](normalized, legacy []T, src *Source) []T {
	if len(normalized) > 0 {
		*src = SourceNormalized
		return normalized
	}
	*src = SourceLegacy
	return legacy
}

func (a *Assembler) url(path string) string {
	return storage.Resolve(a.blobs, storage.AssetsBucket, path)
}

// images puts the cover first and drops repeated paths, keeping first-seen
// order.
func (a *Assembler) images(cover string, paths []string) []Image {
	out := make([]Image, 0, len(paths)+1)
	seen := make(map[string]bool, len(paths)+1)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, Image{Path: p, URL: a.url(p)})
	}
	add(cover)
	for _, p := range paths {
		add(p)
	}
	return out
}

// steps resolves material ids against bom, the same BOM shown on the page.
func (a *Assembler) steps(steps []models.InstructionStep, bom []models.MaterialItem) []Step {
	names := make(map[string]string, len(bom))
	for _, m := range bom {
		names[m.ID] = m.Name
	}

	out := make([]Step, 0, len(steps))
	for i, s := range steps {
		step := Step{
			Number:      i + 1,
			Description: s.Description,
			Materials:   make([]StepMaterial, 0, len(s.MaterialIDs)),
			Tools:       nonNil(s.Tools),
		}
		if s.ImageURL != nil {
			step.ImageURL = a.url(*s.ImageURL)
		}
		for _, id := range s.MaterialIDs {
			name, ok := names[id]
			if !ok {
				name = id
			}
			step.Materials = append(step.Materials, StepMaterial{ID: id, Name: name, Resolved: ok})
		}
		out = append(out, step)
	}
	return out
}

func (a *Assembler) files(refs []models.FileRef) []File {
	out := make([]File, 0, len(refs))
	for _, f := range refs {
		f.Type = models.ParseFileType(string(f.Type))
		out = append(out, File{FileRef: f, URL: a.url(f.Path)})
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
