// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageRef is one row of project_images.
type ImageRef struct {
	ProjectID   uuid.UUID `json:"project_id"`
	StoragePath string    `json:"storage_path"`
	SortOrder   int       `json:"sort_order"`
}

// MaterialItem is a bill-of-materials entry ("component"). The ID is either
// a persisted component id or an ephemeral id assigned by the editing client.
// JSON names match the legacy embedded metadata format.
type MaterialItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Link     *string `json:"link"`
}

// DefaultQuantity is stored when a material is saved without a quantity.
const DefaultQuantity = "1"

// InstructionStep is one step of maker-mode instructions. MaterialIDs
// reference MaterialItem.ID values.
type InstructionStep struct {
	ID          string   `json:"id"`
	ImageURL    *string  `json:"imageUrl"`
	Description string   `json:"description"`
	MaterialIDs []string `json:"materialIds"`
	Tools       []string `json:"tools"`
}

// FileType classifies a downloadable project file.
type FileType string

const (
	FileTypeSTL    FileType = "stl"
	FileType3MF    FileType = "3mf"
	FileTypeGerber FileType = "gerber"
	FileTypePDF    FileType = "pdf"
	FileTypeOther  FileType = "other"
)

// ParseFileType maps a stored or submitted value to a known FileType.
// Anything unrecognised becomes FileTypeOther.
func ParseFileType(s string) FileType {
	switch ft := FileType(strings.ToLower(strings.TrimSpace(s))); ft {
	case FileTypeSTL, FileType3MF, FileTypeGerber, FileTypePDF:
		return ft
	default:
		return FileTypeOther
	}
}

// fileExtensions maps accepted upload extensions to their FileType.
var fileExtensions = map[string]FileType{
	".stl": FileTypeSTL,
	".3mf": FileType3MF,
	".gbr": FileTypeGerber,
	".grb": FileTypeGerber,
	".pdf": FileTypePDF,
}

// FileTypeFromName classifies an uploaded file by its extension. ok is
// false for extensions that are not accepted as project files.
func FileTypeFromName(name string) (ft FileType, ok bool) {
	ext := strings.ToLower(path.Ext(name))
	ft, ok = fileExtensions[ext]
	if !ok {
		return FileTypeOther, false
	}
	return ft, true
}

// FileRef is a downloadable file. Its identity across edits is Path, not ID.
type FileRef struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Path string   `json:"path"`
	Type FileType `json:"type"`
}

// InstructionMode selects between step-by-step and uploaded instructions.
type InstructionMode string

const (
	InstructionModeMaker  InstructionMode = "maker"
	InstructionModeUpload InstructionMode = "upload"
)

// InstructionFileRef points at an uploaded instructions document.
type InstructionFileRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}
