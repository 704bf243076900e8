// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// NoSales is shown for best and worst seller when nothing has sold.
const NoSales = "—"

// ProductSales is the total quantity sold under one product name.
type ProductSales struct {
	Name     string
	Quantity int
}

// Summary is the dashboard's view of the order log and catalog.
type Summary struct {
	Revenue     decimal.Decimal
	OrderCount  int
	UnitsSold   int
	Sales       []ProductSales // in first-seen order
	BestSeller  string
	WorstSeller string
	Stock       []models.Product
}

// Summarize aggregates orders by product name. A tie for best seller goes
// to the name seen first, a tie for worst seller to the name seen last.
func Summarize(orders []models.Order, products []models.Product) Summary {
	s := Summary{
		Revenue:     decimal.Zero,
		OrderCount:  len(orders),
		BestSeller:  NoSales,
		WorstSeller: NoSales,
		Stock:       products,
	}

	index := make(map[string]int)
	for _, o := range orders {
		s.Revenue = s.Revenue.Add(o.Total)
		for _, it := range o.Items {
			s.UnitsSold += it.Quantity
			i, ok := index[it.Name]
			if !ok {
				i = len(s.Sales)
				index[it.Name] = i
				s.Sales = append(s.Sales, ProductSales{Name: it.Name})
			}
			s.Sales[i].Quantity += it.Quantity
		}
	}

	if len(s.Sales) == 0 {
		return s
	}
	best, worst := s.Sales[0], s.Sales[0]
	for _, ps := range s.Sales[1:] {
		if ps.Quantity > best.Quantity {
			best = ps
		}
		if ps.Quantity <= worst.Quantity {
			worst = ps
		}
	}
	s.BestSeller, s.WorstSeller = best.Name, worst.Name
	return s
}
