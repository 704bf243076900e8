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

// CatalogStore manages the product and category lists.
type CatalogStore struct {
	kv kv.Store
}

// NewCatalogStore returns a CatalogStore backed by the given key-value store.
func NewCatalogStore(s kv.Store) *CatalogStore {
	return &CatalogStore{kv: s}
}

// Products returns every product in stored order.
func (s *CatalogStore) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if _, err := readJSON(ctx, s.kv, KeyProducts, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// SaveProducts replaces the product list.
func (s *CatalogStore) SaveProducts(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return writeJSON(ctx, s.kv, KeyProducts, products)
}

// Categories returns the ordered category names.
func (s *CatalogStore) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if _, err := readJSON(ctx, s.kv, KeyCategories, &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// SaveCategories replaces the category list.
func (s *CatalogStore) SaveCategories(ctx context.Context, cats []string) error {
	if cats == nil {
		cats = []string{}
	}
	return writeJSON(ctx, s.kv, KeyCategories, cats)
}
