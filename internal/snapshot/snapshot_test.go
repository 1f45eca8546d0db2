// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package snapshot

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestHolderLoadCommits(t *testing.T) {
	var h Holder[int]
	if _, ok := h.Get(); ok {
		t.Fatal("new holder should be empty")
	}

	v, err := h.Load(context.Background(), func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("Load = %d, %v", v, err)
	}
	if got, ok := h.Get(); !ok || got != 7 {
		t.Errorf("Get = %d, %v", got, ok)
	}
}

func TestHolderSupersededLoadDiscarded(t *testing.T) {
	var h Holder[string]
	ctx := context.Background()

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := h.Load(ctx, func(context.Context) (string, error) {
			<-release
			return "stale", nil
		})
		done <- err
	}()

	// Wait until the first load has taken its ticket.
	for {
		h.mu.Lock()
		gen := h.gen
		h.mu.Unlock()
		if gen == 1 {
			break
		}
		runtime.Gosched()
	}

	if _, err := h.Load(ctx, func(context.Context) (string, error) { return "fresh", nil }); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Load error = %v, want ErrSuperseded", err)
	}
	if got, _ := h.Get(); got != "fresh" {
		t.Errorf("Get = %q, want fresh", got)
	}
}

func TestHolderCommitRules(t *testing.T) {
	var h Holder[int]
	ctx := context.Background()

	t1 := h.Begin()
	t2 := h.Begin()
	if h.Current(t1) || !h.Current(t2) {
		t.Fatal("only the latest ticket should be current")
	}
	if h.Commit(ctx, t1, 1) {
		t.Error("old ticket must not commit")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if h.Commit(cancelled, t2, 2) {
		t.Error("cancelled context must not commit")
	}

	if !h.Commit(ctx, t2, 3) {
		t.Error("current ticket should commit")
	}

	h.Reset()
	if h.Commit(ctx, t2, 4) {
		t.Error("Reset should supersede outstanding tickets")
	}
	if _, ok := h.Get(); ok {
		t.Error("Reset should clear the value")
	}
}

func TestHolderLoadErrorKeepsValue(t *testing.T) {
	var h Holder[int]
	ctx := context.Background()
	h.Load(ctx, func(context.Context) (int, error) { return 1, nil })

	boom := errors.New("boom")
	if _, err := h.Load(ctx, func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("Load error = %v", err)
	}
	if got, _ := h.Get(); got != 1 {
		t.Errorf("value after failed load = %d, want 1", got)
	}
}
