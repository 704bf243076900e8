// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/kv"
	"storefront/internal/models"
)

func TestCatalogStoreEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewCatalogStore(kv.NewMemory())

	products, err := s.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %d", len(products))
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("expected no categories, got %v", cats)
	}
}

func TestCatalogStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewCatalogStore(mem)

	in := []models.Product{
		{ID: 7, Name: "Cookie", Price: decimal.RequireFromString("6.50"), Stock: 3, Image: "/images/c.jpg", Category: "Clássicos"},
	}
	if err := s.SaveProducts(ctx, in); err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}
	if err := s.SaveCategories(ctx, []string{"Clássicos"}); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}

	out, err := s.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(out) != 1 || out[0].ID != 7 || !out[0].Price.Equal(in[0].Price) || out[0].Category != "Clássicos" {
		t.Errorf("unexpected products: %+v", out)
	}

	raw, _, _ := mem.Get(ctx, KeyCategories)
	if raw != `["Clássicos"]` {
		t.Errorf("categories stored as %q", raw)
	}
}

func TestCatalogStoreMalformedFallsBack(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	if err := mem.Set(ctx, KeyProducts, "{not json"); err != nil {
		t.Fatal(err)
	}

	products, err := NewCatalogStore(mem).Products(ctx)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty list for malformed value, got %d", len(products))
	}
}

func TestOrderStorePrepend(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore(kv.NewMemory())

	for _, name := range []string{"first", "second"} {
		if err := s.Prepend(ctx, models.Order{ID: name, Customer: name}); err != nil {
			t.Fatalf("Prepend: %v", err)
		}
	}

	orders, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 2 || orders[0].Customer != "second" || orders[1].Customer != "first" {
		t.Errorf("expected newest first, got %+v", orders)
	}
}

func TestOrderStoreBackfillsIDs(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	legacy := `[{"nome":"Ana","endereco":"Rua A","itens":[],"total":10,"data":"01/02/2024, 10:00:00","status":"Novo","unread":true}]`
	if err := mem.Set(ctx, KeyOrders, legacy); err != nil {
		t.Fatal(err)
	}

	s := NewOrderStore(mem)
	first, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != 1 || first[0].ID == "" {
		t.Fatalf("expected an assigned id, got %+v", first)
	}

	second, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if second[0].ID != first[0].ID {
		t.Errorf("id not stable across loads: %q vs %q", first[0].ID, second[0].ID)
	}
	if second[0].Customer != "Ana" || !second[0].Unread {
		t.Errorf("legacy fields lost: %+v", second[0])
	}
}

func TestSettingsStoreDefaults(t *testing.T) {
	st, err := NewSettingsStore(kv.NewMemory()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.Logo != models.DefaultLogo {
		t.Errorf("Logo = %q", st.Logo)
	}
	if st.PrimaryColor != models.DefaultPrimaryColor || st.SecondaryColor != models.DefaultSecondaryColor {
		t.Errorf("colors = %q, %q", st.PrimaryColor, st.SecondaryColor)
	}
	if st.DisplayMode != models.DisplayCards {
		t.Errorf("DisplayMode = %q", st.DisplayMode)
	}
	if len(st.Statuses) != len(models.DefaultStatuses) {
		t.Errorf("Statuses = %v", st.Statuses)
	}
}

func TestSettingsStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewSettingsStore(mem)

	in := models.ShopSettings{
		Logo:           "/images/logo.png",
		Banners:        []string{"/b1.png", "/b2.png"},
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
		WhatsApp:       "11999825998",
		DisplayMode:    models.DisplayList,
		Statuses:       []string{"Novo", "Pronto"},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Logo != in.Logo || out.WhatsApp != in.WhatsApp || out.DisplayMode != in.DisplayMode {
		t.Errorf("scalars mismatch: %+v", out)
	}
	if len(out.Banners) != 2 || out.Banners[1] != "/b2.png" {
		t.Errorf("Banners = %v", out.Banners)
	}
	if len(out.Statuses) != 2 || out.Statuses[1] != "Pronto" {
		t.Errorf("Statuses = %v", out.Statuses)
	}

	raw, _, _ := mem.Get(ctx, KeyDisplayMode)
	if raw != "lista" {
		t.Errorf("display mode stored as %q", raw)
	}
}

func TestSettingsStoreEmptyStatusesUseDefault(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	if err := mem.Set(ctx, KeyStatuses, "[]"); err != nil {
		t.Fatal(err)
	}

	list, err := NewSettingsStore(mem).Statuses(ctx)
	if err != nil {
		t.Fatalf("Statuses: %v", err)
	}
	if len(list) != len(models.DefaultStatuses) {
		t.Errorf("expected default vocabulary, got %v", list)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	if err := Seed(ctx, mem); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	cat := NewCatalogStore(mem)
	products, _ := cat.Products(ctx)
	if len(products) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(products))
	}

	// Edits survive a second seed.
	if err := cat.SaveProducts(ctx, products[:1]); err != nil {
		t.Fatal(err)
	}
	if err := Seed(ctx, mem); err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	products, _ = cat.Products(ctx)
	if len(products) != 1 {
		t.Errorf("second seed overwrote products: %d", len(products))
	}

	st, _ := NewSettingsStore(mem).Load(ctx)
	if st.WhatsApp != "11999825998" || len(st.Banners) != 3 {
		t.Errorf("unexpected seeded settings: %+v", st)
	}
}
