// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"storefront/internal/models"
	"storefront/internal/slug"
)

// Section is one category block of the rendered catalog.
type Section struct {
	Category string
	Anchor   string
	Products []models.Product
}

// Sections groups products by category in vocabulary order. In tab mode
// every category gets a section, empty or not; the other modes skip
// categories with no products. Products whose category is not in the list
// are not shown.
func Sections(mode models.DisplayMode, categories []string, products []models.Product) []Section {
	byCategory := make(map[string][]models.Product, len(categories))
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	seen := make(map[string]bool, len(categories))
	sections := make([]Section, 0, len(categories))
	for _, cat := range categories {
		items := byCategory[cat]
		if len(items) == 0 && mode != models.DisplayTabs {
			continue
		}
		sections = append(sections, Section{
			Category: cat,
			Anchor:   slug.Unique(cat, seen),
			Products: items,
		})
	}
	return sections
}

// NextBanner returns the index after i, wrapping to 0.
func NextBanner(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (normalizeIndex(i, n) + 1) % n
}

// PrevBanner returns the index before i, wrapping to the last banner.
func PrevBanner(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (normalizeIndex(i, n) - 1 + n) % n
}

func normalizeIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
