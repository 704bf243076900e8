// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultOrderStatus is assigned to every newly placed order.
const DefaultOrderStatus = "Novo"

// DisplayTimeLayout is the pt-BR "dd/mm/yyyy, hh:mm:ss" format stored in the
// order's data field.
const DisplayTimeLayout = "02/01/2006, 15:04:05"

// legacyTimeLayouts are accepted when parsing the display string of orders
// written before criadoEm existed.
var legacyTimeLayouts = []string{
	DisplayTimeLayout,
	"02/01/2006 15:04:05",
	"2/1/2006, 15:04:05",
	"2/1/2006 15:04:05",
}

// DefaultStatuses is substituted wherever the configured vocabulary is empty.
var DefaultStatuses = []string{"Novo", "Preparando", "Pronto", "A caminho", "Concluído", "Cancelado"}

// StatusesOrDefault returns list, or a copy of DefaultStatuses if it is empty.
func StatusesOrDefault(list []string) []string {
	if len(list) > 0 {
		return list
	}
	return append([]string(nil), DefaultStatuses...)
}

// OrderItem is a line snapshot decoupled from the live product.
type OrderItem struct {
	ProductID int64           `json:"id,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is an entry of the order log. Only Status and Unread change after
// creation.
type Order struct {
	ID          string          `json:"id,omitempty"`
	Customer    string          `json:"nome"`
	Address     string          `json:"endereco"`
	Items       []OrderItem     `json:"itens"`
	Total       decimal.Decimal `json:"total"`
	DisplayTime string          `json:"data,omitempty"`
	CreatedAt   *time.Time      `json:"criadoEm,omitempty"`
	Status      string          `json:"status,omitempty"`
	Unread      bool            `json:"unread"`
}

// SortTime returns the instant used to order the log: CreatedAt when set,
// otherwise the parsed display string, otherwise the zero time.
func (o Order) SortTime() time.Time {
	if o.CreatedAt != nil {
		return *o.CreatedAt
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, o.DisplayTime, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// StatusOr returns the order status, or fallback when unset.
func (o Order) StatusOr(fallback string) string {
	if o.Status != "" {
		return o.Status
	}
	return fallback
}

// Units sums the quantities of all line items.
func (o Order) Units() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
