// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"storefront/internal/kv"
	"storefront/internal/models"
)

// SettingsStore manages the shop-wide presentation settings. Each setting
// lives under its own key.
type SettingsStore struct {
	kv kv.Store
}

// NewSettingsStore returns a SettingsStore backed by the given key-value store.
func NewSettingsStore(s kv.Store) *SettingsStore {
	return &SettingsStore{kv: s}
}

// Load reads every setting, substituting defaults for anything missing.
// The status vocabulary is never empty in the result.
func (s *SettingsStore) Load(ctx context.Context) (models.ShopSettings, error) {
	st := models.DefaultSettings()
	var err error

	if st.Logo, err = readString(ctx, s.kv, KeyLogo, models.DefaultLogo); err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	if st.PrimaryColor, err = readString(ctx, s.kv, KeyPrimaryColor, models.DefaultPrimaryColor); err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	if st.SecondaryColor, err = readString(ctx, s.kv, KeySecondaryColor, models.DefaultSecondaryColor); err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	if st.WhatsApp, err = readString(ctx, s.kv, KeyWhatsApp, ""); err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}

	mode, err := readString(ctx, s.kv, KeyDisplayMode, string(models.DisplayCards))
	if err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	st.DisplayMode = models.ParseDisplayMode(mode)

	if _, err := readJSON(ctx, s.kv, KeyBanners, &st.Banners); err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}

	statuses, err := s.Statuses(ctx)
	if err != nil {
		return st, err
	}
	st.Statuses = statuses

	return st, nil
}

// Statuses returns the order-status vocabulary, or the default list when
// nothing (or an empty list) is stored.
func (s *SettingsStore) Statuses(ctx context.Context) ([]string, error) {
	var list []string
	if _, err := readJSON(ctx, s.kv, KeyStatuses, &list); err != nil {
		return models.StatusesOrDefault(nil), fmt.Errorf("load statuses: %w", err)
	}
	return models.StatusesOrDefault(list), nil
}

// Save writes every setting as an independent key. The caller is expected
// to have normalised st already.
func (s *SettingsStore) Save(ctx context.Context, st models.ShopSettings) error {
	scalars := []struct{ key, value string }{
		{KeyLogo, st.Logo},
		{KeyPrimaryColor, st.PrimaryColor},
		{KeySecondaryColor, st.SecondaryColor},
		{KeyWhatsApp, st.WhatsApp},
		{KeyDisplayMode, string(st.DisplayMode)},
	}
	for _, sc := range scalars {
		if err := s.kv.Set(ctx, sc.key, sc.value); err != nil {
			return fmt.Errorf("save setting %s: %w", sc.key, err)
		}
	}

	banners := st.Banners
	if banners == nil {
		banners = []string{}
	}
	if err := writeJSON(ctx, s.kv, KeyBanners, banners); err != nil {
		return err
	}
	return writeJSON(ctx, s.kv, KeyStatuses, models.StatusesOrDefault(st.Statuses))
}
