// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"diyverse/internal/models"
)

// ContentStore reads and writes a project's ordered content collections:
// images, bill of materials, instruction steps with their material links,
// and downloadable files.
//
// Images, materials and steps are saved replace-all: every row is deleted
// and the new set inserted with dense sort_order, so their row ids change on
// every save. Files are saved as a delta keyed by storage path. Each save
// runs in its own transaction, so a failure leaves that collection's
// previous rows in place and does not touch the others.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// FileDelta counts the rows a file save touched.
type FileDelta struct {
	Inserted int
	Deleted  int
}

// --- Loads ---
//
// A project written only in the legacy format has no rows here, so loads
// treat failures as "no rows": the error is logged and an empty slice is
// returned.

// LoadImages returns the project's image paths ordered by sort_order.
func (s *ContentStore) LoadImages(ctx context.Context, projectID uuid.UUID) []string {
	rows, err := s.db.QueryContext(ctx, `
		SELECT storage_path FROM project_images
		WHERE project_id = $1
		ORDER BY sort_order
	`, projectID)
	if err != nil {
		slog.Error("load project images failed", "project_id", projectID, "error", err)
		return []string{}
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			slog.Error("scan project image failed", "project_id", projectID, "error", err)
			return []string{}
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("load project images failed", "project_id", projectID, "error", err)
		return []string{}
	}
	return paths
}

// LoadBom returns the project's materials ordered by sort_order.
func (s *ContentStore) LoadBom(ctx context.Context, projectID uuid.UUID) []models.MaterialItem {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quantity, link FROM project_components
		WHERE project_id = $1
		ORDER BY sort_order
	`, projectID)
	if err != nil {
		slog.Error("load project bom failed", "project_id", projectID, "error", err)
		return []models.MaterialItem{}
	}
	defer rows.Close()

	items := []models.MaterialItem{}
	for rows.Next() {
		var (
			id       uuid.UUID
			m        models.MaterialItem
			quantity sql.NullString
		)
		if err := rows.Scan(&id, &m.Name, &quantity, &m.Link); err != nil {
			slog.Error("scan project component failed", "project_id", projectID, "error", err)
			return []models.MaterialItem{}
		}
		m.ID = id.String()
		m.Quantity = models.DefaultQuantity
		if quantity.Valid && quantity.String != "" {
			m.Quantity = quantity.String
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("load project bom failed", "project_id", projectID, "error", err)
		return []models.MaterialItem{}
	}
	return items
}

// LoadInstructionSteps returns the project's steps ordered by sort_order,
// each with the ids of the materials it links to.
func (s *ContentStore) LoadInstructionSteps(ctx context.Context, projectID uuid.UUID) []models.InstructionStep {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, image_path, tools FROM project_instruction_steps
		WHERE project_id = $1
		ORDER BY sort_order
	`, projectID)
	if err != nil {
		slog.Error("load instruction steps failed", "project_id", projectID, "error", err)
		return []models.InstructionStep{}
	}
	defer rows.Close()

	types := pgtype.NewMap()
	steps := []models.InstructionStep{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			id    uuid.UUID
			st    models.InstructionStep
			tools []string
		)
		if err := rows.Scan(&id, &st.Description, &st.ImageURL, types.SQLScanner(&tools)); err != nil {
			slog.Error("scan instruction step failed", "project_id", projectID, "error", err)
			return []models.InstructionStep{}
		}
		st.ID = id.String()
		st.Tools = tools
		if st.Tools == nil {
			st.Tools = []string{}
		}
		st.MaterialIDs = []string{}
		index[st.ID] = len(steps)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		slog.Error("load instruction steps failed", "project_id", projectID, "error", err)
		return []models.InstructionStep{}
	}
	if len(steps) == 0 {
		return steps
	}

	links, err := s.db.QueryContext(ctx, `
		SELECT l.step_id, l.component_id
		FROM project_instruction_step_components l
		JOIN project_instruction_steps st ON st.id = l.step_id
		JOIN project_components c ON c.id = l.component_id
		WHERE st.project_id = $1
		ORDER BY c.sort_order
	`, projectID)
	if err != nil {
		// Steps without links still display.
		slog.Error("load step links failed", "project_id", projectID, "error", err)
		return steps
	}
	defer links.Close()

	for links.Next() {
		var stepID, componentID uuid.UUID
		if err := links.Scan(&stepID, &componentID); err != nil {
			slog.Error("scan step link failed", "project_id", projectID, "error", err)
			return steps
		}
		if i, ok := index[stepID.String()]; ok {
			steps[i].MaterialIDs = append(steps[i].MaterialIDs, componentID.String())
		}
	}
	return steps
}

// LoadFiles returns the project's downloadable files in insertion order.
func (s *ContentStore) LoadFiles(ctx context.Context, projectID uuid.UUID) []models.FileRef {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, storage_path, file_type FROM project_files
		WHERE project_id = $1
		ORDER BY created_at, storage_path
	`, projectID)
	if err != nil {
		slog.Error("load project files failed", "project_id", projectID, "error", err)
		return []models.FileRef{}
	}
	defer rows.Close()

	files := []models.FileRef{}
	for rows.Next() {
		var (
			id       uuid.UUID
			f        models.FileRef
			fileType string
		)
		if err := rows.Scan(&id, &f.Name, &f.Path, &fileType); err != nil {
			slog.Error("scan project file failed", "project_id", projectID, "error", err)
			return []models.FileRef{}
		}
		f.ID = id.String()
		f.Type = models.ParseFileType(fileType)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		slog.Error("load project files failed", "project_id", projectID, "error", err)
		return []models.FileRef{}
	}
	return files
}

// --- Saves ---

// SaveImages replaces the project's images with paths, in order. Blank
// paths are skipped.
func (s *ContentStore) SaveImages(ctx context.Context, projectID uuid.UUID, paths []string) error {
	return collectionErr(CollectionImages, s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_images WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("delete project images: %w", err)
		}

		order := 0
		for _, p := range paths {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO project_images (project_id, storage_path, sort_order)
				VALUES ($1, $2, $3)
			`, projectID, p, order); err != nil {
				return fmt.Errorf("insert project image: %w", err)
			}
			order++
		}
		return nil
	}))
}

// SaveBom replaces the project's materials and returns a map from each
// caller-supplied material id to its newly persisted component id. The map
// is the input SaveInstructionSteps needs to re-target step links.
func (s *ContentStore) SaveBom(ctx context.Context, projectID uuid.UUID, materials []models.MaterialItem) (map[string]string, error) {
	idMap := make(map[string]string)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_components WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("delete project components: %w", err)
		}

		for i, row := range planBom(materials) {
			var id uuid.UUID
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO project_components (project_id, name, quantity, link, sort_order)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, projectID, row.name, row.quantity, row.link, i).Scan(&id); err != nil {
				return fmt.Errorf("insert project component: %w", err)
			}
			if row.callerID != "" {
				idMap[row.callerID] = id.String()
			}
		}
		return nil
	})
	if err != nil {
		return nil, collectionErr(CollectionBom, err)
	}
	return idMap, nil
}

// SaveInstructionSteps replaces the project's steps and their material
// links. Step material ids are translated through idMap; ids missing from
// the map are dropped. Must run after SaveBom of the same edit.
func (s *ContentStore) SaveInstructionSteps(ctx context.Context, projectID uuid.UUID, steps []models.InstructionStep, idMap map[string]string) error {
	return collectionErr(CollectionSteps, s.withTx(ctx, func(tx *sql.Tx) error {
		// Links cascade with their steps.
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_instruction_steps WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("delete instruction steps: %w", err)
		}

		for i, row := range planSteps(steps, idMap) {
			var stepID uuid.UUID
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO project_instruction_steps (project_id, description, image_path, tools, sort_order)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, projectID, row.description, row.imagePath, row.tools, i).Scan(&stepID); err != nil {
				return fmt.Errorf("insert instruction step: %w", err)
			}

			for _, componentID := range row.componentIDs {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO project_instruction_step_components (step_id, component_id)
					VALUES ($1, $2)
				`, stepID, componentID); err != nil {
					return fmt.Errorf("insert step link: %w", err)
				}
			}
		}
		return nil
	}))
}

// SaveFiles brings the project's files in line with files by storage path:
// rows whose path is gone are deleted, new paths are inserted, and rows
// with an unchanged path are not touched.
func (s *ContentStore) SaveFiles(ctx context.Context, projectID uuid.UUID, files []models.FileRef) (FileDelta, error) {
	var delta FileDelta
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT storage_path FROM project_files WHERE project_id = $1 FOR UPDATE
		`, projectID)
		if err != nil {
			return fmt.Errorf("list project files: %w", err)
		}
		var existing []string
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return fmt.Errorf("scan project file: %w", err)
			}
			existing = append(existing, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("list project files: %w", err)
		}

		plan := planFileDelta(existing, files)
		for _, p := range plan.deletePaths {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM project_files WHERE project_id = $1 AND storage_path = $2
			`, projectID, p); err != nil {
				return fmt.Errorf("delete project file: %w", err)
			}
		}
		for _, f := range plan.inserts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO project_files (project_id, name, storage_path, file_type)
				VALUES ($1, $2, $3, $4)
			`, projectID, f.name, f.path, string(f.fileType)); err != nil {
				return fmt.Errorf("insert project file: %w", err)
			}
		}
		delta = FileDelta{Inserted: len(plan.inserts), Deleted: len(plan.deletePaths)}
		return nil
	})
	if err != nil {
		return FileDelta{}, collectionErr(CollectionFiles, err)
	}
	return delta, nil
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func (s *ContentStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Planners ---
//
// The planners hold the persistence rules and run without a database.

type bomRow struct {
	callerID string
	name     string
	quantity string
	link     *string
}

// planBom keeps materials with a non-blank name, trimmed, with quantity
// defaulting to "1" and blank links stored as NULL.
func planBom(materials []models.MaterialItem) []bomRow {
	var rows []bomRow
	for _, m := range materials {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		row := bomRow{callerID: m.ID, name: name, quantity: strings.TrimSpace(m.Quantity)}
		if row.quantity == "" {
			row.quantity = models.DefaultQuantity
		}
		if m.Link != nil {
			if link := strings.TrimSpace(*m.Link); link != "" {
				row.link = &link
			}
		}
		rows = append(rows, row)
	}
	return rows
}

type stepRow struct {
	description  string
	imagePath    *string
	tools        []string
	componentIDs []string
}

// planSteps keeps steps with a non-blank description and resolves their
// material ids through idMap. Unresolved ids are dropped, as are repeats.
func planSteps(steps []models.InstructionStep, idMap map[string]string) []stepRow {
	var rows []stepRow
	for _, st := range steps {
		desc := strings.TrimSpace(st.Description)
		if desc == "" {
			continue
		}
		row := stepRow{description: desc, tools: []string{}, componentIDs: []string{}}
		if st.ImageURL != nil {
			if p := strings.TrimSpace(*st.ImageURL); p != "" {
				row.imagePath = &p
			}
		}
		if st.Tools != nil {
			row.tools = st.Tools
		}

		seen := make(map[string]bool)
		for _, id := range st.MaterialIDs {
			componentID, ok := idMap[id]
			if !ok || seen[componentID] {
				continue
			}
			seen[componentID] = true
			row.componentIDs = append(row.componentIDs, componentID)
		}
		rows = append(rows, row)
	}
	return rows
}

type fileRow struct {
	name     string
	path     string
	fileType models.FileType
}

type filePlan struct {
	inserts     []fileRow
	deletePaths []string
}

// planFileDelta compares the stored paths with the submitted files. A file
// is valid only if its trimmed name and path are non-empty; invalid entries
// are ignored. The first entry wins when a path repeats.
func planFileDelta(existing []string, files []models.FileRef) filePlan {
	stored := make(map[string]bool, len(existing))
	for _, p := range existing {
		stored[p] = true
	}

	var plan filePlan
	wanted := make(map[string]bool, len(files))
	for _, f := range files {
		name, path := strings.TrimSpace(f.Name), strings.TrimSpace(f.Path)
		if name == "" || path == "" || wanted[path] {
			continue
		}
		wanted[path] = true
		if !stored[path] {
			plan.inserts = append(plan.inserts, fileRow{name: name, path: path, fileType: models.ParseFileType(string(f.Type))})
		}
	}

	for _, p := range existing {
		if !wanted[p] {
			plan.deletePaths = append(plan.deletePaths, p)
		}
	}
	return plan
}
