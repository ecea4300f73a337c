// Package events publishes booking lifecycle events.
package events

import (
	"context"
	"time"
)

const (
	OrderCreated    = "order.created"
	PaymentVerified = "payment.verified"
	PaymentRejected = "payment.rejected"
	BookingExpired  = "booking.expired"
)

// Event is the JSON payload written to the topic.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id,omitempty"`
	BookingID  uint      `json:"booking_id,omitempty"`
	ListingID  uint      `json:"listing_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
