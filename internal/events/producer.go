// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes order-placed events to Kafka with the active
// trace context carried in the message headers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/models"
)

const tracerName = "storefront/events"

// OrderPlacedEvent is the payload written for every completed checkout.
type OrderPlacedEvent struct {
	OrderID  string             `json:"order_id"`
	Customer string             `json:"customer"`
	Address  string             `json:"address"`
	Items    []models.OrderItem `json:"items"`
	Total    decimal.Decimal    `json:"total"`
	Status   string             `json:"status"`
	PlacedAt time.Time          `json:"placed_at"`
}

// NewOrderPlacedEvent builds the event for o.
func NewOrderPlacedEvent(o models.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:  o.ID,
		Customer: o.Customer,
		Address:  o.Address,
		Items:    o.Items,
		Total:    o.Total,
		Status:   o.StatusOr(models.DefaultOrderStatus),
		PlacedAt: o.SortTime().UTC(),
	}
}

// EventTypeHeader names the message header that tells consumers which
// event the payload holds.
const EventTypeHeader = "event-type"

const orderPlacedType = "order.placed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes order events to a single topic. Writes are synchronous;
// callers bound them with the context they pass in.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer returns a Producer for topic on brokers. The topic is
// created on first write when the cluster allows it. A write is attempted
// at most three times.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			MaxAttempts:            3,
			WriteTimeout:           2 * time.Second,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishOrderPlaced writes the OrderPlacedEvent for o, keyed by the order
// id so every event of one order lands on the same partition. The current
// trace context travels in the message headers.
func (p *Producer) PublishOrderPlaced(ctx context.Context, o models.Order) error {
	payload, err := json.Marshal(NewOrderPlacedEvent(o))
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(o.ID),
		),
	)
	defer span.End()

	msg := kafka.Message{
		Key:     []byte(o.ID),
		Value:   payload,
		Headers: []kafka.Header{{Key: EventTypeHeader, Value: []byte(orderPlacedType)}},
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{&msg.Headers})

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish order %s to %s: %w", o.ID, p.topic, err)
	}
	return nil
}

// Close flushes pending writes and releases the broker connections.
func (p *Producer) Close() error {
	return p.writer.Close()
}
