// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"diyverse/internal/content"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
	"diyverse/internal/storage"
)

const (
	// maxAvatarBytes is the largest accepted profile picture.
	maxAvatarBytes = 2 << 20
	// uploadTimeout replaces the server's short read and write deadlines
	// for upload requests.
	uploadTimeout = 5 * time.Minute
)

// AssetEditor reserves drafts and stores project uploads.
type AssetEditor interface {
	ReserveDraft(ctx context.Context, viewer *uuid.UUID) (uuid.UUID, error)
	Upload(ctx context.Context, viewer *uuid.UUID, projectID uuid.UUID, kind storage.AssetKind, step int, a content.Asset) (string, error)
	PublicURL(key string) string
}

// AvatarSetter records a profile's avatar path.
type AvatarSetter interface {
	SetAvatarURL(ctx context.Context, id uuid.UUID, avatar string) (bool, error)
}

// Assets groups the upload handlers.
type Assets struct {
	editor   AssetEditor
	profiles AvatarSetter
	blobs    storage.BlobStore
}

// NewAssets creates the upload handler group. blobs may be nil; uploads
// then answer 503.
func NewAssets(editor AssetEditor, profiles AvatarSetter, blobs storage.BlobStore) *Assets {
	return &Assets{editor: editor, profiles: profiles, blobs: blobs}
}

// Draft reserves a project id to upload assets to before publishing.
func (h *Assets) Draft(w http.ResponseWriter, r *http.Request) {
	id, err := h.editor.ReserveDraft(r.Context(), middleware.ViewerID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"project_id": id.String()})
}

// assetResponse describes a stored upload.
type assetResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Upload stores an image or file of a project or draft the viewer owns.
// The kind query parameter picks images or files; step marks a step image.
func (h *Assets) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	kind, ok := storage.ParseAssetKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be images or files")
		return
	}
	step := content.NoStep
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "step must be zero or more")
			return
		}
		step = n
	}

	limit := int64(content.MaxFileBytes)
	if kind == storage.KindImages {
		limit = content.MaxImageBytes
	}
	asset, done, ok := readUpload(w, r, limit)
	if !ok {
		return
	}
	defer done()

	key, err := h.editor.Upload(r.Context(), middleware.ViewerID(r.Context()), projectID, kind, step, asset)
	if err != nil {
		fail(w, r, err)
		return
	}

	resp := assetResponse{Path: key, URL: h.editor.PublicURL(key), Name: asset.Name}
	if kind == storage.KindFiles {
		if ft, ok := models.FileTypeFromName(asset.Name); ok {
			resp.Type = string(ft)
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Avatar replaces the viewer's profile picture.
func (h *Assets) Avatar(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerID(r.Context())
	if viewer == nil {
		fail(w, r, content.ErrUnauthorized)
		return
	}
	if h.blobs == nil {
		fail(w, r, content.ErrUploadsUnavailable)
		return
	}

	asset, done, ok := readUpload(w, r, maxAvatarBytes)
	if !ok {
		return
	}
	defer done()
	if !content.IsImageType(asset.ContentType) {
		fail(w, r, content.ValidationErrors{"file": "Avatars must be JPEG, PNG, WebP or GIF."})
		return
	}

	key := storage.AvatarPath(*viewer, avatarExt(asset.Name))
	if err := h.blobs.Upload(r.Context(), storage.AvatarsBucket, key, asset.ContentType, asset.Body, asset.Size); err != nil {
		fail(w, r, fmt.Errorf("upload avatar: %w", err))
		return
	}
	found, err := h.profiles.SetAvatarURL(r.Context(), *viewer, key)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	slog.Info("avatar updated", "profile_id", *viewer, "key", key)
	writeJSON(w, http.StatusOK, map[string]string{
		"avatar_url": key,
		"url":        storage.AvatarURL(h.blobs, &key),
	})
}

// avatarExt is the lowercased extension of name without its dot, or jpg.
func avatarExt(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return "jpg"
	}
	return ext
}

// readUpload reads the "file" part of a multipart request of at most limit
// bytes and sniffs its content type. done releases the file and any
// temporary parts.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (content.Asset, func(), bool) {
	if r.ContentLength > limit+1024 {
		tooLarge(w, limit)
		return content.Asset{}, nil, false
	}
	rc := http.NewResponseController(w)
	deadline := time.Now().Add(uploadTimeout)
	for _, set := range []func(time.Time) error{rc.SetReadDeadline, rc.SetWriteDeadline} {
		if err := set(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
			slog.Warn("extend upload deadline failed", "error", err)
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			tooLarge(w, limit)
		} else {
			writeError(w, http.StatusBadRequest, "Expected a multipart upload.")
		}
		return content.Asset{}, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		writeError(w, http.StatusBadRequest, "No file provided.")
		return content.Asset{}, nil, false
	}
	done := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}

	if header.Size > limit {
		done()
		tooLarge(w, limit)
		return content.Asset{}, nil, false
	}

	contentType, err := sniff(file)
	if err != nil {
		done()
		slog.Error("read upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return content.Asset{}, nil, false
	}

	return content.Asset{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, done, true
}

func tooLarge(w http.ResponseWriter, limit int64) {
	writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %d MB.", limit>>20))
}

// sniff detects the content type from the first 512 bytes and rewinds.
func sniff(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
