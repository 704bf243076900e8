// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package kv defines the flat key-value namespace that backs all storefront
// state, together with its in-memory, PostgreSQL and Valkey backends.
// Values are opaque strings; callers own the encoding (JSON or scalar).
package kv

import "context"

// Store is a string-keyed persistent namespace. Reads of a missing key
// report ok=false with a nil error. Subscribe delivers the name of every
// key written after the subscription starts, until ctx is cancelled, at
// which point the channel is closed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Subscribe(ctx context.Context) (<-chan string, error)
}

// subscriberBuffer is the channel capacity handed to each subscriber.
const subscriberBuffer = 64
