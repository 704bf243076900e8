// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides typed access to the storefront's key-value
// namespace. Each store owns a group of keys, encodes values as JSON or
// plain strings, and falls back to defaults when a key is missing or holds
// something it cannot decode.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/kv"
)

// Persisted key names. These are shared with data written by earlier
// versions of the shop and must stay as they are.
const (
	KeyProducts       = "products"
	KeyCategories     = "categorias"
	KeyOrders         = "pedidos"
	KeyLogo           = "logoCliente"
	KeyBanners        = "banners"
	KeyPrimaryColor   = "corPrimaria"
	KeySecondaryColor = "corSecundaria"
	KeyWhatsApp       = "whatsappLoja"
	KeyDisplayMode    = "modoExibicao"
	KeyStatuses       = "pedidoStatusList"
)

// CatalogKeys are the keys whose change affects the rendered catalog.
var CatalogKeys = []string{
	KeyProducts, KeyCategories, KeyLogo, KeyBanners,
	KeyPrimaryColor, KeySecondaryColor, KeyDisplayMode,
}

// readJSON decodes key into dst. It reports false when the key is missing
// or malformed; in the latter case dst is left untouched and a warning is
// logged so the caller can apply its default.
func readJSON(ctx context.Context, s kv.Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" || raw == "null" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Warn("malformed stored value, using default", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// writeJSON encodes v and stores it under key.
func writeJSON(ctx context.Context, s kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// readString returns the value under key, or fallback if missing or blank.
func readString(ctx context.Context, s kv.Store, key, fallback string) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok || v == "" {
		return fallback, nil
	}
	return v, nil
}
