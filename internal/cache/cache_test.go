// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/kv"
	"storefront/internal/store"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, fragmentKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// caches returns the in-process cache and, when reachable, the Valkey one.
func caches(t *testing.T) map[string]func(t *testing.T) *FragmentCache {
	return map[string]func(t *testing.T) *FragmentCache{
		"memory": func(t *testing.T) *FragmentCache { return NewFragmentCache(nil, time.Minute) },
		"valkey": func(t *testing.T) *FragmentCache { return NewFragmentCache(testValkeyClient(t), time.Minute) },
	}
}

func TestConnectValkey(t *testing.T) {
	addr := envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), addr, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestFragmentCacheSetAndGet(t *testing.T) {
	for name, newCache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			fc := newCache(t)
			ctx := context.Background()

			if data, ok := fc.Get(ctx, CatalogKey("cards")); ok || data != nil {
				t.Error("expected cache miss")
			}

			html := []byte(`<section id="classicos">...</section>`)
			fc.Set(ctx, CatalogKey("cards"), html)

			data, ok := fc.Get(ctx, CatalogKey("cards"))
			if !ok {
				t.Fatal("expected cache hit")
			}
			if string(data) != string(html) {
				t.Errorf("data mismatch: got %q, want %q", data, html)
			}
		})
	}
}

func TestFragmentCacheInvalidateAll(t *testing.T) {
	for name, newCache := range caches(t) {
		t.Run(name, func(t *testing.T) {
			fc := newCache(t)
			ctx := context.Background()

			for _, mode := range []string{"cards", "abas", "lista"} {
				fc.Set(ctx, CatalogKey(mode), []byte(mode))
			}
			fc.InvalidateAll(ctx)

			for _, mode := range []string{"cards", "abas", "lista"} {
				if _, ok := fc.Get(ctx, CatalogKey(mode)); ok {
					t.Errorf("expected miss for %q after InvalidateAll", mode)
				}
			}
		})
	}
}

func TestFragmentCacheLocalExpiry(t *testing.T) {
	fc := NewFragmentCache(nil, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fc.now = func() time.Time { return now }

	fc.Set(context.Background(), "k", []byte("v"))
	now = now.Add(59 * time.Second)
	if _, ok := fc.Get(context.Background(), "k"); !ok {
		t.Fatal("expected hit before ttl")
	}
	now = now.Add(time.Second)
	if _, ok := fc.Get(context.Background(), "k"); ok {
		t.Error("expected miss at ttl")
	}
}

func TestNewFragmentCacheDefaultTTL(t *testing.T) {
	fc := NewFragmentCache(nil, 0)
	if fc.ttl != DefaultFragmentTTL {
		t.Errorf("expected DefaultFragmentTTL (%v), got %v", DefaultFragmentTTL, fc.ttl)
	}
}

func TestAffectsCatalog(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{store.KeyProducts, true},
		{store.KeyCategories, true},
		{store.KeyDisplayMode, true},
		{store.KeyBanners, true},
		{store.KeyOrders, false},
		{store.KeyStatuses, false},
		{store.KeyWhatsApp, false},
	}
	for _, tt := range tests {
		if got := affectsCatalog(tt.key); got != tt.want {
			t.Errorf("affectsCatalog(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestWatchInvalidatesOnCatalogChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := kv.NewMemory()
	fc := NewFragmentCache(nil, time.Minute)
	if err := fc.Watch(ctx, s); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	fc.Set(ctx, CatalogKey("cards"), []byte("old grid"))
	if err := s.Set(ctx, store.KeyProducts, "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := fc.Get(ctx, CatalogKey("cards")); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("fragment still cached after products changed")
}
