// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/shopspring/decimal"

// CartLine is a product snapshot taken when it was first added, plus the
// quantity. Quantity is always at least 1; a line that would drop to 0 is
// removed instead.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines, one per product id.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add puts one unit of p in the cart. Out-of-stock products are ignored and
// Add reports false.
func (c *Cart) Add(p Product) bool {
	if !p.InStock() {
		return false
	}
	if l := c.line(p.ID); l != nil {
		l.Quantity++
		return true
	}
	c.Lines = append(c.Lines, CartLine{Product: p, Quantity: 1})
	return true
}

// Increment adds one unit to an existing line.
func (c *Cart) Increment(id int64) {
	if l := c.line(id); l != nil {
		l.Quantity++
	}
}

// Decrement removes one unit, dropping the line when it reaches zero.
func (c *Cart) Decrement(id int64) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ID == id {
			l.Quantity--
		}
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

// Remove drops the line for id regardless of its quantity.
func (c *Cart) Remove(id int64) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.Lines)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Total sums every line subtotal.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Items snapshots the cart as order line items.
func (c *Cart) Items() []OrderItem {
	items := make([]OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, OrderItem{
			ProductID: l.ID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return items
}

func (c *Cart) line(id int64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}
