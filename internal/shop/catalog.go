// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/store"
)

// ProductInput is the raw form data for creating or editing a product.
type ProductInput struct {
	Name     string
	Price    string
	Image    string
	Category string
}

// Catalog manages products and categories.
type Catalog struct {
	store *store.CatalogStore
	now   func() time.Time
}

// NewCatalog creates a Catalog over the given repository.
func NewCatalog(s *store.CatalogStore) *Catalog {
	return &Catalog{store: s, now: time.Now}
}

// Products returns every product in stored order.
func (c *Catalog) Products(ctx context.Context) ([]models.Product, error) {
	return c.store.Products(ctx)
}

// Categories returns the ordered category names.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	return c.store.Categories(ctx)
}

// Product looks up a single product by id.
func (c *Catalog) Product(ctx context.Context, id int64) (models.Product, error) {
	products, err := c.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	p := models.FindProduct(products, id)
	if p == nil {
		return models.Product{}, ErrProductNotFound
	}
	return *p, nil
}

// AddProduct validates in and appends a new product with stock 1.
func (c *Catalog) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	name, image, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Image), strings.TrimSpace(in.Category)
	if name == "" || strings.TrimSpace(in.Price) == "" || image == "" || category == "" {
		return models.Product{}, ErrMissingFields
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return models.Product{}, err
	}

	products, err := c.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:       nextProductID(products, c.now()),
		Name:     name,
		Price:    price,
		Stock:    1,
		Image:    imagePath(image),
		Category: category,
	}
	if err := c.store.SaveProducts(ctx, append(products, p)); err != nil {
		return models.Product{}, fmt.Errorf("add product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of product id. Stock is kept.
func (c *Catalog) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	name, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Category)
	if name == "" || strings.TrimSpace(in.Price) == "" || category == "" {
		return ErrMissingFields
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return err
	}

	products, err := c.store.Products(ctx)
	if err != nil {
		return err
	}
	p := models.FindProduct(products, id)
	if p == nil {
		return ErrProductNotFound
	}
	p.Name = name
	p.Price = price
	p.Category = category
	if img := strings.TrimSpace(in.Image); img != "" {
		p.Image = imagePath(img)
	}
	return c.store.SaveProducts(ctx, products)
}

// AdjustStock adds delta to the product's stock, clamping at zero.
func (c *Catalog) AdjustStock(ctx context.Context, id int64, delta int) (models.Product, error) {
	products, err := c.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	p := models.FindProduct(products, id)
	if p == nil {
		return models.Product{}, ErrProductNotFound
	}
	p.Stock = max(0, p.Stock+delta)
	if err := c.store.SaveProducts(ctx, products); err != nil {
		return models.Product{}, err
	}
	return *p, nil
}

// DeleteProduct removes product id. Orders and carts holding a snapshot
// of it are not touched.
func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	products, err := c.store.Products(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(products, func(p models.Product) bool { return p.ID == id })
	return c.store.SaveProducts(ctx, kept)
}

// AddCategory appends name to the category list.
func (c *Catalog) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMissingFields
	}
	cats, err := c.store.Categories(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(cats, name) {
		return ErrDuplicateCategory
	}
	return c.store.SaveCategories(ctx, append(cats, name))
}

// RemoveCategory drops name from the list. Products keep the old tag.
func (c *Catalog) RemoveCategory(ctx context.Context, name string) error {
	cats, err := c.store.Categories(ctx)
	if err != nil {
		return err
	}
	return c.store.SaveCategories(ctx, slices.DeleteFunc(cats, func(s string) bool { return s == name }))
}

// ParsePrice parses a non-negative decimal price. A comma is accepted as
// the decimal separator.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return d.Round(2), nil
}

// nextProductID derives an id from the creation time in milliseconds and
// bumps it until no existing product uses it.
func nextProductID(products []models.Product, now time.Time) int64 {
	id := now.UnixMilli()
	for models.FindProduct(products, id) != nil {
		id++
	}
	return id
}

func imagePath(name string) string {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return "/images/" + name
}
