// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package kv

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// notifyChannel is the LISTEN/NOTIFY channel carrying changed key names.
const notifyChannel = "kv_changed"

// Postgres stores keys in the kv_store table created by the goose
// migrations in internal/database. Change notifications travel over
// LISTEN/NOTIFY, which needs a dedicated connection, hence the DSN.
type Postgres struct {
	db  *sql.DB
	dsn string
}

// NewPostgres returns a Store backed by the given pool. dsn is used to open
// the listener connection for Subscribe.
func NewPostgres(db *sql.DB, dsn string) *Postgres {
	return &Postgres{db: db, dsn: dsn}
}

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return val, true, nil
}

// Set upserts key and emits a notification in the same transaction, so
// listeners only hear about committed writes.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kv set begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, key); err != nil {
		return fmt.Errorf("kv notify %q: %w", key, err)
	}

	return tx.Commit()
}

// Subscribe opens a listener connection and forwards NOTIFY payloads.
func (p *Postgres) Subscribe(ctx context.Context) (<-chan string, error) {
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("kv listen connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("kv listen: %w", err)
	}

	ch := make(chan string, subscriberBuffer)
	go func() {
		defer close(ch)
		defer conn.Close(context.Background())
		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("kv listener stopped", "error", err)
				}
				return
			}
			select {
			case ch <- n.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
