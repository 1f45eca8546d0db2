// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ProjectMetadata is the structured payload embedded in the description
// column by the first schema generation. Field order and JSON names are part
// of the stored format.
type ProjectMetadata struct {
	Tags               []string            `json:"tags"`
	ImageURLs          []string            `json:"imageUrls"`
	Materials          []MaterialItem      `json:"materials"`
	InstructionMode    InstructionMode     `json:"instructionMode"`
	InstructionSteps   []InstructionStep   `json:"instructionSteps"`
	InstructionFileRef *InstructionFileRef `json:"instructionFileRef"`
	FileRefs           []FileRef           `json:"fileRefs"`
}

// NewProjectMetadata returns metadata with empty collections, which is what
// readers of the legacy format expect to find.
func NewProjectMetadata() *ProjectMetadata {
	return &ProjectMetadata{
		Tags:            []string{},
		ImageURLs:       []string{},
		Materials:       []MaterialItem{},
		InstructionMode: InstructionModeMaker,
		FileRefs:        []FileRef{},
	}
}
