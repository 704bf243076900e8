// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/kv"
	"storefront/internal/models"
	"storefront/internal/store"
)

type testStores struct {
	kv       *kv.Memory
	catalog  *store.CatalogStore
	orders   *store.OrderStore
	settings *store.SettingsStore
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	mem := kv.NewMemory()
	return testStores{
		kv:       mem,
		catalog:  store.NewCatalogStore(mem),
		orders:   store.NewOrderStore(mem),
		settings: store.NewSettingsStore(mem),
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// makeOrders returns n orders, newest first, one minute apart.
func makeOrders(n int) []models.Order {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := make([]models.Order, n)
	for i := range orders {
		created := base.Add(-time.Duration(i) * time.Minute)
		orders[i] = models.Order{
			ID:        fmt.Sprintf("order-%02d", i),
			Customer:  fmt.Sprintf("Cliente %02d", i),
			Total:     price("10.00"),
			CreatedAt: &created,
			Status:    models.DefaultOrderStatus,
		}
	}
	return orders
}
