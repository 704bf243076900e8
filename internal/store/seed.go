// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"storefront/internal/kv"
	"storefront/internal/models"
)

// Seed fills in the demo catalog and default settings. Every key is only
// written when absent, so Seed is safe to run on every start.
func Seed(ctx context.Context, s kv.Store) error {
	products := []models.Product{
		{ID: 1, Name: "Cookie de Chocolate", Price: decimal.RequireFromString("6.50"), Stock: 12, Image: "/images/chocolate.jpg", Category: "Clássicos"},
		{ID: 2, Name: "Cookie de Pistache", Price: decimal.RequireFromString("7.00"), Stock: 8, Image: "/images/pistache.jpg", Category: "Especiais"},
		{ID: 3, Name: "Cookie Red Velvet", Price: decimal.RequireFromString("7.50"), Stock: 5, Image: "/images/redvelvet.jpg", Category: "Especiais"},
	}

	jsonDefaults := []struct {
		key   string
		value any
	}{
		{KeyProducts, products},
		{KeyCategories, []string{"Clássicos", "Especiais"}},
		{KeyBanners, []string{"/images/banner1.png", "/images/banner2.png", "/images/banner3.png"}},
	}
	scalarDefaults := []struct{ key, value string }{
		{KeyLogo, models.DefaultLogo},
		{KeyPrimaryColor, models.DefaultPrimaryColor},
		{KeySecondaryColor, models.DefaultSecondaryColor},
		{KeyWhatsApp, "11999825998"},
		{KeyDisplayMode, string(models.DisplayCards)},
	}

	seeded := 0
	for _, d := range jsonDefaults {
		present, err := has(ctx, s, d.key)
		if err != nil {
			return err
		}
		if present {
			continue
		}
		if err := writeJSON(ctx, s, d.key, d.value); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		seeded++
	}
	for _, d := range scalarDefaults {
		present, err := has(ctx, s, d.key)
		if err != nil {
			return err
		}
		if present {
			continue
		}
		if err := s.Set(ctx, d.key, d.value); err != nil {
			return fmt.Errorf("seed %s: %w", d.key, err)
		}
		seeded++
	}

	if seeded == 0 {
		slog.Info("store already seeded, skipping")
		return nil
	}
	slog.Info("store seeded with demo catalog", "keys", seeded)
	return nil
}

func has(ctx context.Context, s kv.Store, key string) (bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("seed check %s: %w", key, err)
	}
	return ok && v != "", nil
}
