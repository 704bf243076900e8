// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fragment.go caches rendered catalog HTML. The storefront renders the
// product grid once per display mode and reuses it until a catalog key
// changes in the store. With a Valkey client the cache is shared between
// instances; without one it lives in process memory.
package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/kv"
	"storefront/internal/store"
)

const (
	// fragmentKeyPrefix is the Valkey key prefix for cached fragments.
	fragmentKeyPrefix = "fragment:"

	// DefaultFragmentTTL bounds staleness when change notifications are lost.
	DefaultFragmentTTL = 5 * time.Minute
)

type localEntry struct {
	html    []byte
	expires time.Time
}

// FragmentCache stores rendered HTML fragments by key.
type FragmentCache struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	local map[string]localEntry
	now   func() time.Time
}

// NewFragmentCache creates a fragment cache. A nil client keeps entries in
// process memory.
func NewFragmentCache(client *redis.Client, ttl time.Duration) *FragmentCache {
	if ttl == 0 {
		ttl = DefaultFragmentTTL
	}
	return &FragmentCache{
		client: client,
		ttl:    ttl,
		local:  make(map[string]localEntry),
		now:    time.Now,
	}
}

// Get returns the cached HTML for key.
func (fc *FragmentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if fc.client == nil {
		fc.mu.RLock()
		e, ok := fc.local[key]
		fc.mu.RUnlock()
		if !ok || !fc.now().Before(e.expires) {
			return nil, false
		}
		return e.html, true
	}

	val, err := fc.client.Get(ctx, fragmentKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("fragment cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("fragment cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for key with the configured TTL.
func (fc *FragmentCache) Set(ctx context.Context, key string, html []byte) {
	if fc.client == nil {
		fc.mu.Lock()
		fc.local[key] = localEntry{html: html, expires: fc.now().Add(fc.ttl)}
		fc.mu.Unlock()
		return
	}
	if err := fc.client.Set(ctx, fragmentKeyPrefix+key, html, fc.ttl).Err(); err != nil {
		slog.Warn("fragment cache set error", "key", key, "error", err)
	}
}

// InvalidateAll drops every cached fragment.
func (fc *FragmentCache) InvalidateAll(ctx context.Context) {
	if fc.client == nil {
		fc.mu.Lock()
		n := len(fc.local)
		clear(fc.local)
		fc.mu.Unlock()
		if n > 0 {
			slog.Debug("fragment cache cleared", "deleted", n)
		}
		return
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, fragmentKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("fragment cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("fragment cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("fragment cache cleared", "deleted", deleted)
	}
}

// Watch subscribes to s and clears the cache whenever a catalog key
// changes. It returns once the subscription is established; the listener
// stops when ctx is cancelled.
func (fc *FragmentCache) Watch(ctx context.Context, s kv.Store) error {
	changes, err := s.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for key := range changes {
			if affectsCatalog(key) {
				fc.InvalidateAll(context.WithoutCancel(ctx))
			}
		}
	}()
	return nil
}

func affectsCatalog(key string) bool {
	return slices.Contains(store.CatalogKeys, key)
}

// CatalogKey returns the cache key for the product grid in a display mode.
func CatalogKey(mode string) string {
	return "catalog:" + mode
}
