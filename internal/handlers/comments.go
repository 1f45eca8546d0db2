// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"diyverse/internal/middleware"
	"diyverse/internal/models"
)

// CommentService reads and changes comment trees.
type CommentService interface {
	Load(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error)
	Add(ctx context.Context, projectID uuid.UUID, viewer *uuid.UUID, body string, parentID *uuid.UUID) ([]models.RootComment, error)
	Delete(ctx context.Context, projectID, commentID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error)
	ToggleLike(ctx context.Context, projectID, commentID uuid.UUID, viewer *uuid.UUID) ([]models.RootComment, error)
}

// Comments groups the comment handlers. Every handler answers with the
// full, freshly read tree.
type Comments struct {
	service CommentService
}

// NewComments creates the comment handler group.
func NewComments(service CommentService) *Comments {
	return &Comments{service: service}
}

// treeResponse is the comment tree of a project.
type treeResponse struct {
	Comments []models.RootComment `json:"comments"`
}

// List returns the comment tree of a project.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tree, err := h.service.Load(r.Context(), projectID, middleware.ViewerID(r.Context()))
	h.respond(w, r, tree, err)
}

// addRequest is a new comment or reply.
type addRequest struct {
	Body     string     `json:"body"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// Add posts a comment.
func (h *Comments) Add(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req addRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tree, err := h.service.Add(r.Context(), projectID, middleware.ViewerID(r.Context()), req.Body, req.ParentID)
	h.respond(w, r, tree, err)
}

// Delete removes the viewer's comment.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID")
	if !ok {
		return
	}
	tree, err := h.service.Delete(r.Context(), projectID, commentID, middleware.ViewerID(r.Context()))
	h.respond(w, r, tree, err)
}

// ToggleLike likes or unlikes a comment.
func (h *Comments) ToggleLike(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := uuidParam(w, r, "commentID")
	if !ok {
		return
	}
	tree, err := h.service.ToggleLike(r.Context(), projectID, commentID, middleware.ViewerID(r.Context()))
	h.respond(w, r, tree, err)
}

func (h *Comments) respond(w http.ResponseWriter, r *http.Request, tree []models.RootComment, err error) {
	if err != nil {
		fail(w, r, err)
		return
	}
	if tree == nil {
		tree = []models.RootComment{}
	}
	writeJSON(w, http.StatusOK, treeResponse{Comments: tree})
}
