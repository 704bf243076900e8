// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models holds the storefront's data types. Field names in the JSON
// tags are the ones already persisted in the store and must not change.
package models

import "github.com/shopspring/decimal"

func init() {
	// Persisted documents carry prices as plain JSON numbers (6.5, not "6.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Category is free text and may name a category
// that no longer exists.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Image    string          `json:"image"`
	Category string          `json:"categoria"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// FindProduct returns the product with the given id, or nil.
func FindProduct(products []Product, id int64) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
