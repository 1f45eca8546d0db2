// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engagement

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard tracks toggles in flight. TryAcquire returns ok=false if key is
// already held; otherwise the caller must call release when done.
type Guard interface {
	TryAcquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

// LocalGuard is an in-process Guard.
type LocalGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewLocalGuard creates an empty LocalGuard.
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{inFlight: make(map[string]struct{})}
}

// TryAcquire marks key as in flight.
func (g *LocalGuard) TryAcquire(_ context.Context, key string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, false, nil
	}
	g.inFlight[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}, true, nil
}

const (
	// guardPrefix namespaces toggle guard keys in Valkey.
	guardPrefix = "toggle:"

	// DefaultGuardTTL bounds how long a crashed instance can hold a key.
	DefaultGuardTTL = 10 * time.Second
)

// releaseScript deletes the key only if it still holds our token, so an
// expired-and-retaken guard is not released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard is a Guard shared by every server instance through Valkey.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates a guard backed by the given Valkey client.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &RedisGuard{client: client, ttl: ttl}
}

// TryAcquire sets the key with NX and a TTL.
func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	token, err := newToken()
	if err != nil {
		return nil, false, fmt.Errorf("guard token: %w", err)
	}

	ok, err := g.client.SetNX(ctx, guardPrefix+key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("guard acquire: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		// The request context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, g.client, []string{guardPrefix + key}, token).Err(); err != nil {
			slog.Warn("toggle guard release failed", "key", key, "error", err)
		}
	}, true, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
