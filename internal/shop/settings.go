// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"context"
	"slices"
	"strings"

	"storefront/internal/models"
	"storefront/internal/store"
)

// AddStatus appends a trimmed status to list. Blank input is ignored.
func AddStatus(list []string, status string) ([]string, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return list, nil
	}
	if slices.Contains(list, status) {
		return list, ErrDuplicateStatus
	}
	return append(slices.Clone(list), status), nil
}

// MoveStatus swaps entry i with its neighbour in direction dir (-1 up,
// +1 down). Moves past either end, or with a bad index, change nothing.
func MoveStatus(list []string, i, dir int) []string {
	j := i + dir
	if i < 0 || i >= len(list) || j < 0 || j >= len(list) || i == j {
		return list
	}
	out := slices.Clone(list)
	out[i], out[j] = out[j], out[i]
	return out
}

// RemoveStatus drops entry i.
func RemoveStatus(list []string, i int) []string {
	if i < 0 || i >= len(list) {
		return list
	}
	return slices.Delete(slices.Clone(list), i, i+1)
}

// NormalizeSettings applies the save-time rules: blank logo and colors
// take their defaults, banners keep only non-empty entries up to the
// maximum, the phone keeps digits only and an empty status list becomes
// the default vocabulary.
func NormalizeSettings(st models.ShopSettings) models.ShopSettings {
	out := st
	out.Logo = orDefault(st.Logo, models.DefaultLogo)
	out.PrimaryColor = orDefault(st.PrimaryColor, models.DefaultPrimaryColor)
	out.SecondaryColor = orDefault(st.SecondaryColor, models.DefaultSecondaryColor)
	out.WhatsApp = NormalizePhone(st.WhatsApp)
	out.DisplayMode = models.ParseDisplayMode(string(st.DisplayMode))

	out.Banners = make([]string, 0, models.MaxBanners)
	for _, b := range st.Banners {
		if b = strings.TrimSpace(b); b != "" && len(out.Banners) < models.MaxBanners {
			out.Banners = append(out.Banners, b)
		}
	}
	out.Statuses = models.StatusesOrDefault(st.Statuses)
	return out
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}

// Settings loads and saves the shop settings.
type Settings struct {
	store *store.SettingsStore
}

// NewSettings creates a Settings service.
func NewSettings(s *store.SettingsStore) *Settings {
	return &Settings{store: s}
}

// Load returns the current settings with defaults applied.
func (s *Settings) Load(ctx context.Context) (models.ShopSettings, error) {
	return s.store.Load(ctx)
}

// Save normalises st and writes every field.
func (s *Settings) Save(ctx context.Context, st models.ShopSettings) (models.ShopSettings, error) {
	st = NormalizeSettings(st)
	if err := s.store.Save(ctx, st); err != nil {
		return st, err
	}
	return st, nil
}
