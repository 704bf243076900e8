// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// valkeyKeyPrefix namespaces store keys so they don't collide with
	// sessions and cached fragments in the same database.
	valkeyKeyPrefix = "kv:"

	// valkeyChangedChannel is the pub/sub channel carrying changed key names.
	valkeyChangedChannel = "kv:changed"
)

// Valkey stores keys as plain strings without expiry and publishes every
// write on a pub/sub channel.
type Valkey struct {
	client *redis.Client
}

// NewValkey returns a Store backed by the given Valkey client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Get returns the value stored under key.
func (v *Valkey) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := v.client.Get(ctx, valkeyKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return val, true, nil
}

// Set writes key and publishes the change in one MULTI/EXEC block.
func (v *Valkey) Set(ctx context.Context, key, value string) error {
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, valkeyKeyPrefix+key, value, 0)
		pipe.Publish(ctx, valkeyChangedChannel, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Subscribe forwards pub/sub messages until ctx is done.
func (v *Valkey) Subscribe(ctx context.Context) (<-chan string, error) {
	pubsub := v.client.Subscribe(ctx, valkeyChangedChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("kv subscribe: %w", err)
	}

	ch := make(chan string, subscriberBuffer)
	msgs := pubsub.Channel()
	go func() {
		defer close(ch)
		defer pubsub.Close()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- msg.Payload:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
