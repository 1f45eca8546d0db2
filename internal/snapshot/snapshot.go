// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package snapshot holds the most recent result of a repeatable load and
// discards results that were superseded while in flight.
//
// Every Load takes a generation number. A later Load, a Reset or
// cancellation of the caller's context supersedes it, and a superseded
// result is never committed.
package snapshot

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Load when its result was discarded.
var ErrSuperseded = errors.New("snapshot: load superseded")

// Ticket identifies one load generation.
type Ticket uint64

// Holder stores the last committed value of type T.
type Holder[T any] struct {
	mu    sync.Mutex
	gen   uint64
	value T
	set   bool
}

// Begin starts a new load and supersedes every earlier one.
func (h *Holder[T]) Begin() Ticket {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	return Ticket(h.gen)
}

// Commit stores v if t is still the latest generation and ctx is not done.
// Returns true if v was stored.
func (h *Holder[T]) Commit(ctx context.Context, t Ticket, v T) bool {
	if ctx.Err() != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if uint64(t) != h.gen {
		return false
	}
	h.value = v
	h.set = true
	return true
}

// Current reports whether t is still the latest generation.
func (h *Holder[T]) Current(t Ticket) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return uint64(t) == h.gen
}

// Reset supersedes in-flight loads and clears the stored value. Call it when
// the owning view goes away or its key changes.
func (h *Holder[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	var zero T
	h.value = zero
	h.set = false
}

// Get returns the stored value and whether one has been committed.
func (h *Holder[T]) Get() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value, h.set
}

// Load runs fn as a new generation and commits its result unless it was
// superseded. fn errors are returned as is and leave the stored value
// unchanged.
func (h *Holder[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	t := h.Begin()
	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if !h.Commit(ctx, t, v) {
		var zero T
		return zero, ErrSuperseded
	}
	return v, nil
}
