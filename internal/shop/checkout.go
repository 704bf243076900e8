// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/models"
	"storefront/internal/store"
)

var tracer = otel.Tracer("storefront/shop")

// Step is a position in the linear checkout flow.
type Step string

const (
	StepBrowsing   Step = "browsing"
	StepCart       Step = "cart"
	StepPayment    Step = "payment"
	StepConfirming Step = "confirming"
	StepDone       Step = "done"
)

// DefaultPaymentDelay is how long the simulated payment takes.
const DefaultPaymentDelay = 1800 * time.Millisecond

// DefaultPublishTimeout bounds how long Pay waits for the order event to
// be published before giving up on it.
const DefaultPublishTimeout = 2 * time.Second

// Checkout is one browser's cart and position in the checkout flow. It is
// kept in the session and never written to the store.
type Checkout struct {
	Step    Step        `json:"step"`
	Cart    models.Cart `json:"cart"`
	Name    string      `json:"name"`
	Address string      `json:"address"`

	// LastOrder is the order placed on reaching StepDone. It backs the
	// chat hand-off after the cart has been cleared.
	LastOrder *models.Order `json:"lastOrder,omitempty"`
}

// NewCheckout returns a checkout at the start of the flow.
func NewCheckout() *Checkout {
	return &Checkout{Step: StepBrowsing}
}

// Normalize fixes up a checkout decoded from a session that predates a
// field or was left mid-payment by a crashed request.
func (c *Checkout) Normalize() {
	switch c.Step {
	case StepBrowsing, StepCart, StepPayment, StepDone:
	case StepConfirming:
		c.Step = StepPayment
	default:
		c.Step = StepBrowsing
	}
	if c.Step == StepDone && c.LastOrder == nil {
		c.Step = StepBrowsing
	}
}

func (c *Checkout) shopping() bool {
	return c.Step == StepBrowsing || c.Step == StepCart
}

// AddToCart puts one unit of p in the cart. Out-of-stock products leave
// the cart unchanged.
func (c *Checkout) AddToCart(p models.Product) error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	if !c.Cart.Add(p) {
		return ErrOutOfStock
	}
	return nil
}

// Increment adds one unit to the line for product id.
func (c *Checkout) Increment(id int64) error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	c.Cart.Increment(id)
	return nil
}

// Decrement removes one unit, dropping the line when it reaches zero.
func (c *Checkout) Decrement(id int64) error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	c.Cart.Decrement(id)
	return nil
}

// Remove drops the line for product id.
func (c *Checkout) Remove(id int64) error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	c.Cart.Remove(id)
	return nil
}

// OpenCart moves from browsing to the cart view.
func (c *Checkout) OpenCart() error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	c.Step = StepCart
	return nil
}

// ContinueShopping returns from the cart to the catalog.
func (c *Checkout) ContinueShopping() error {
	if !c.shopping() {
		return ErrInvalidStep
	}
	c.Step = StepBrowsing
	return nil
}

// SubmitDetails records the customer's name and address and moves to
// payment. On a validation error the checkout stays in the cart, keeping
// whatever was typed.
func (c *Checkout) SubmitDetails(name, address string) error {
	if c.Step != StepCart {
		return ErrInvalidStep
	}
	c.Name, c.Address = name, address
	if strings.TrimSpace(name) == "" || strings.TrimSpace(address) == "" {
		return ErrMissingCustomer
	}
	if c.Cart.Empty() {
		return ErrEmptyCart
	}
	c.Name, c.Address = strings.TrimSpace(name), strings.TrimSpace(address)
	c.Step = StepPayment
	return nil
}

// BeginPayment moves from payment to confirming.
func (c *Checkout) BeginPayment() error {
	if c.Step != StepPayment {
		return ErrInvalidStep
	}
	c.Step = StepConfirming
	return nil
}

// Complete records o as the last order, clears the cart and moves to done.
func (c *Checkout) Complete(o models.Order) error {
	if c.Step != StepConfirming {
		return ErrInvalidStep
	}
	c.LastOrder = &o
	c.Cart.Clear()
	c.Step = StepDone
	return nil
}

// Restart leaves done and starts a fresh checkout.
func (c *Checkout) Restart() error {
	if c.Step != StepDone {
		return ErrInvalidStep
	}
	*c = Checkout{Step: StepBrowsing}
	return nil
}

// NewOrder snapshots the cart into an unread order with the default status.
func (c *Checkout) NewOrder(now time.Time) models.Order {
	created := now
	return models.Order{
		ID:          uuid.NewString(),
		Customer:    c.Name,
		Address:     c.Address,
		Items:       c.Cart.Items(),
		Total:       c.Cart.Total(),
		DisplayTime: now.Format(models.DisplayTimeLayout),
		CreatedAt:   &created,
		Status:      models.DefaultOrderStatus,
		Unread:      true,
	}
}

// Publisher announces placed orders to the outside world.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o models.Order) error
}

// Recorder counts placed orders.
type Recorder interface {
	RecordOrder(ctx context.Context, o models.Order)
}

// OrderPlacer runs the simulated payment and writes the resulting order.
type OrderPlacer struct {
	orders         *store.OrderStore
	delay          time.Duration
	publisher      Publisher
	publishTimeout time.Duration
	recorder       Recorder
	now            func() time.Time
}

// NewOrderPlacer creates an OrderPlacer. publisher and recorder may be nil.
func NewOrderPlacer(orders *store.OrderStore, delay time.Duration, publisher Publisher, recorder Recorder) *OrderPlacer {
	return &OrderPlacer{
		orders:         orders,
		delay:          delay,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		recorder:       recorder,
		now:            time.Now,
	}
}

// Pay takes c from payment to done. The delay and the write run to
// completion even if ctx is cancelled, so a client that disconnects while
// paying still gets its order recorded. If the write fails c is returned
// to the payment step. The order event is published within
// DefaultPublishTimeout; a slow or failing broker is logged and otherwise
// ignored.
func (p *OrderPlacer) Pay(ctx context.Context, c *Checkout) (models.Order, error) {
	if err := c.BeginPayment(); err != nil {
		return models.Order{}, err
	}

	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "checkout.pay")
	defer span.End()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	order := c.NewOrder(p.now())
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.lines", len(order.Items)),
	)

	if err := p.orders.Prepend(ctx, order); err != nil {
		c.Step = StepPayment
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	if err := c.Complete(order); err != nil {
		return models.Order{}, err
	}

	slog.Info("order placed", "order_id", order.ID, "total", order.Total.StringFixed(2), "units", order.Units())

	if p.recorder != nil {
		p.recorder.RecordOrder(ctx, order)
	}
	if p.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
		err := p.publisher.PublishOrderPlaced(pubCtx, order)
		cancel()
		if err != nil {
			slog.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	return order, nil
}
