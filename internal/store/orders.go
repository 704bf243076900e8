// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront/internal/kv"
	"storefront/internal/models"
)

// OrderStore manages the order log. The log is kept newest-first in
// insertion order; display sorting is the viewer's job.
type OrderStore struct {
	kv kv.Store
}

// NewOrderStore returns an OrderStore backed by the given key-value store.
func NewOrderStore(s kv.Store) *OrderStore {
	return &OrderStore{kv: s}
}

// List returns the whole log. Orders written before ids existed get one
// assigned here, and the log is written back so the ids stay stable.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := readJSON(ctx, s.kv, KeyOrders, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	backfilled := 0
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.NewString()
			backfilled++
		}
	}
	if backfilled > 0 {
		if err := s.Save(ctx, orders); err != nil {
			return nil, err
		}
		slog.Info("order ids backfilled", "count", backfilled)
	}

	return orders, nil
}

// Save replaces the whole log.
func (s *OrderStore) Save(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return writeJSON(ctx, s.kv, KeyOrders, orders)
}

// Prepend puts o at the front of the log. This is an unguarded
// read-modify-write; concurrent writers may lose an update.
func (s *OrderStore) Prepend(ctx context.Context, o models.Order) error {
	var orders []models.Order
	if _, err := readJSON(ctx, s.kv, KeyOrders, &orders); err != nil {
		return fmt.Errorf("prepend order: %w", err)
	}
	return s.Save(ctx, append([]models.Order{o}, orders...))
}
