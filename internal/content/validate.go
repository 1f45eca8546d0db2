// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"diyverse/internal/models"
	"diyverse/internal/slug"
)

// Form is a submitted project. Images and files are already uploaded;
// Images holds their storage paths in display order.
type Form struct {
	DraftID          *uuid.UUID                 `json:"draft_id"`
	Title            string                     `json:"title" validate:"required,min=2,max=100"`
	Slug             string                     `json:"slug" validate:"required,max=80,slug"`
	Description      string                     `json:"description"`
	IsPublic         bool                       `json:"is_public"`
	SEOTitle         *string                    `json:"seo_title"`
	MetaDescription  *string                    `json:"meta_description"`
	Tags             []string                   `json:"tags"`
	Images           []string                   `json:"images" validate:"min=1"`
	ThumbnailIndex   int                        `json:"thumbnail_index"`
	Materials        []models.MaterialItem      `json:"materials"`
	InstructionMode  models.InstructionMode     `json:"instruction_mode" validate:"omitempty,oneof=maker upload"`
	InstructionSteps []models.InstructionStep   `json:"instruction_steps"`
	InstructionFile  *models.InstructionFileRef `json:"instruction_file"`
	Files            []models.FileRef           `json:"files"`
}

// Normalize trims text fields and fills defaults. An empty slug is derived
// from the title.
func (f *Form) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.ToLower(strings.TrimSpace(f.Slug))
	if f.Slug == "" && f.Title != "" {
		f.Slug = slug.Generate(f.Title)
	}
	f.Description = strings.TrimSpace(f.Description)
	if f.InstructionMode == "" {
		f.InstructionMode = models.InstructionModeMaker
	}

	f.normalizeImages()

	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags

	for i := range f.Materials {
		f.Materials[i].Name = strings.TrimSpace(f.Materials[i].Name)
	}
	for i := range f.InstructionSteps {
		f.InstructionSteps[i].Description = strings.TrimSpace(f.InstructionSteps[i].Description)
	}
}

// normalizeImages trims image paths and drops blank ones. The thumbnail
// index follows its image; a blank thumbnail falls back to the first image.
func (f *Form) normalizeImages() {
	images := make([]string, 0, len(f.Images))
	thumbnail := 0
	for i, img := range f.Images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if i == f.ThumbnailIndex {
			thumbnail = len(images)
		}
		images = append(images, img)
	}
	if f.ThumbnailIndex >= 0 && f.ThumbnailIndex < len(f.Images) {
		f.ThumbnailIndex = thumbnail
	}
	f.Images = images
}

// ValidationErrors maps a JSON field name to a message for the user.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid project: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	return v
}

const (
	msgForeignAsset = "Upload this file to the project before saving."
	msgDraftExpired = "This upload session expired. Upload your files again."
)

// messages for the field and rule pairs validator can report.
var messages = map[string]string{
	"title.required":         "Title is required.",
	"title.min":              "Title must be at least 2 characters.",
	"title.max":              "Title must be at most 100 characters.",
	"slug.required":          "Slug is required.",
	"slug.max":               "Slug must be at most 80 characters.",
	"slug.slug":              "Slug must be lowercase letters, numbers, hyphens, underscores.",
	"images.min":             "At least one image is required.",
	"instruction_mode.oneof": "Instruction mode must be maker or upload.",
}

// Validate checks a normalized form. It returns nil or ValidationErrors.
func (f *Form) Validate() error {
	errs := ValidationErrors{}

	if err := validate.Struct(f); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate project: %w", err)
		}
		for _, fe := range verrs {
			field := fe.Field()
			if _, dup := errs[field]; dup {
				continue
			}
			msg, ok := messages[field+"."+fe.Tag()]
			if !ok {
				msg = fmt.Sprintf("%s is invalid.", field)
			}
			errs[field] = msg
		}
	}

	if len(f.Images) > 0 && (f.ThumbnailIndex < 0 || f.ThumbnailIndex >= len(f.Images)) {
		errs["thumbnail_index"] = "Choose one of the uploaded images as the thumbnail."
	}
	for i, m := range f.Materials {
		if m.Name == "" {
			errs[fmt.Sprintf("materials[%d].name", i)] = "Material name is required."
		}
	}
	if f.InstructionMode == models.InstructionModeMaker {
		for i, s := range f.InstructionSteps {
			if s.Description == "" {
				errs[fmt.Sprintf("instruction_steps[%d].description", i)] = "Step description is required."
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
