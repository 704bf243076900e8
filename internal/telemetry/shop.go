// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"storefront/internal/models"
)

// ShopMetrics holds the counters recorded for every placed order.
type ShopMetrics struct {
	orders  metric.Int64Counter
	units   metric.Int64Counter
	revenue metric.Float64Counter
}

// NewShopMetrics registers the shop instruments on meter.
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	orders, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders placed through checkout"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("orders counter: %w", err)
	}

	units, err := meter.Int64Counter("storefront.orders.units",
		metric.WithDescription("Product units sold"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("units counter: %w", err)
	}

	revenue, err := meter.Float64Counter("storefront.orders.revenue",
		metric.WithDescription("Order totals in BRL"),
		metric.WithUnit("BRL"),
	)
	if err != nil {
		return nil, fmt.Errorf("revenue counter: %w", err)
	}

	return &ShopMetrics{orders: orders, units: units, revenue: revenue}, nil
}

// RecordOrder adds one placed order to the counters.
func (m *ShopMetrics) RecordOrder(ctx context.Context, o models.Order) {
	attrs := metric.WithAttributes(attribute.String("status", o.StatusOr(models.DefaultOrderStatus)))
	m.orders.Add(ctx, 1, attrs)
	m.units.Add(ctx, int64(o.Units()), attrs)
	m.revenue.Add(ctx, o.Total.InexactFloat64(), attrs)
}
