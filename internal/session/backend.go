// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Valkey to avoid collisions.
const keyPrefix = "session:"

// Backend persists encoded session payloads by id. Load reports false for
// ids that never existed or have expired.
type Backend interface {
	Load(ctx context.Context, id string) ([]byte, bool, error)
	Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ValkeyBackend stores sessions in Valkey with TTL expiry.
type ValkeyBackend struct {
	client *redis.Client
}

// NewValkeyBackend creates a Backend over the given Valkey client.
func NewValkeyBackend(client *redis.Client) *ValkeyBackend {
	return &ValkeyBackend{client: client}
}

func (b *ValkeyBackend) Load(ctx context.Context, id string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get: %w", err)
	}
	return payload, true, nil
}

func (b *ValkeyBackend) Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

func (b *ValkeyBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, keyPrefix+id).Err()
}

// memorySweepInterval is the minimum time between two sweeps of expired
// entries in MemoryBackend.
const memorySweepInterval = time.Minute

// MemoryBackend keeps sessions in process memory. Expired entries are
// dropped on access and swept from Save at most once per
// memorySweepInterval, so sessions that are never revisited do not pile up.
type MemoryBackend struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// NewMemoryBackend creates an empty in-process Backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry), now: time.Now}
}

func (b *MemoryBackend) Load(_ context.Context, id string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(e.expires) {
		delete(b.entries, id)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (b *MemoryBackend) Save(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if now.Sub(b.lastSweep) >= memorySweepInterval {
		b.sweep(now)
	}
	b.entries[id] = memoryEntry{payload: payload, expires: now.Add(ttl)}
	return nil
}

// sweep deletes expired entries. The caller holds b.mu.
func (b *MemoryBackend) sweep(now time.Time) {
	for id, e := range b.entries {
		if !now.Before(e.expires) {
			delete(b.entries, id)
		}
	}
	b.lastSweep = now
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
	return nil
}
