// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"diyverse/internal/comments"
	"diyverse/internal/engagement"
	"diyverse/internal/middleware"
	"diyverse/internal/models"
	"diyverse/internal/snapshot"
)

// DefaultLiveInterval is how often a live page is refreshed.
const DefaultLiveInterval = 15 * time.Second

// Live streams a project's comments and engagement as server-sent events.
type Live struct {
	comments comments.Source
	ledger   EngagementLedger
	projects ProjectLookup
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLive creates the live handler. A zero interval uses
// DefaultLiveInterval.
func NewLive(source comments.Source, ledger EngagementLedger, projects ProjectLookup, interval time.Duration) *Live {
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	return &Live{comments: source, ledger: ledger, projects: projects, interval: interval, stop: make(chan struct{})}
}

// Shutdown ends every open stream. Register it with
// http.Server.RegisterOnShutdown.
func (h *Live) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// liveFeed is what one open stream follows.
type liveFeed struct {
	thread *comments.Thread
	likes  *engagement.Tracker
	saves  *engagement.Tracker
}

func (f *liveFeed) close() {
	f.thread.Close()
	f.likes.Close()
	f.saves.Close()
}

// Stream sends a "comments" event when the tree changes and an
// "engagement" event when a count or the viewer's own state changes. The
// first refresh sends both. A project that disappears or turns private
// ends the stream with a "gone" event.
func (h *Live) Stream(w http.ResponseWriter, r *http.Request) {
	projectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()
	viewer := middleware.ViewerID(ctx)
	if err := visibleProject(ctx, h.projects, projectID, viewer); err != nil {
		fail(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	feed := h.open(projectID, viewer)
	defer feed.close()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		err := h.push(ctx, w, feed)
		if err == nil {
			err = rc.Flush()
		}
		switch {
		case errors.Is(err, comments.ErrProjectNotFound):
			_ = writeEvent(w, "gone", map[string]string{"error": err.Error()})
			_ = rc.Flush()
			return
		case errors.Is(err, context.Canceled), errors.Is(err, snapshot.ErrSuperseded):
			return
		case err != nil:
			slog.Warn("live stream stopped", "project_id", projectID, "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case <-ticker.C:
		}
	}
}

func (h *Live) open(projectID uuid.UUID, viewer *uuid.UUID) *liveFeed {
	return &liveFeed{
		thread: comments.NewThread(h.comments, projectID, viewer),
		likes:  engagement.NewTracker(h.ledger, models.EngagementProjectLike, projectID, viewer),
		saves:  engagement.NewTracker(h.ledger, models.EngagementProjectSave, projectID, viewer),
	}
}

// push refreshes the feed and writes the events that changed.
func (h *Live) push(ctx context.Context, w io.Writer, feed *liveFeed) error {
	tree, changed, err := feed.thread.Refresh(ctx)
	if err != nil {
		return err
	}
	if changed {
		if tree == nil {
			tree = []models.RootComment{}
		}
		if err := writeEvent(w, "comments", treeResponse{Comments: tree}); err != nil {
			return err
		}
	}

	prevLikes, hadLikes := feed.likes.Authoritative()
	prevSaves, hadSaves := feed.saves.Authoritative()
	likes, err := feed.likes.Load(ctx)
	if err != nil {
		return err
	}
	saves, err := feed.saves.Load(ctx)
	if err != nil {
		return err
	}
	if !hadLikes || !hadSaves || likes != prevLikes || saves != prevSaves {
		return writeEvent(w, "engagement", engagementResponse{Likes: likes, Saves: saves})
	}
	return nil
}

// writeEvent writes one server-sent event with a JSON payload.
func writeEvent(w io.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
