package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/Wanderlust/events"
	"github.com/Govind-619/Wanderlust/metrics"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
)

const batchSize = 200

// BookingExpirer periodically marks bookings that were never paid as expired.
type BookingExpirer struct {
	bookings  storage.BookingStore
	publisher events.Publisher
	interval  time.Duration // how often to scan
	ttl       time.Duration // how long an order may wait for payment
	now       func() time.Time
}

func NewBookingExpirer(bookings storage.BookingStore, publisher events.Publisher, ttl, interval time.Duration) *BookingExpirer {
	if interval <= 0 {
		interval = time.Minute
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BookingExpirer{bookings: bookings, publisher: publisher, interval: interval, ttl: ttl, now: time.Now}
}

// Start runs until ctx is cancelled.
func (w *BookingExpirer) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

// tick expires one batch and reports how many bookings it moved.
func (w *BookingExpirer) tick(ctx context.Context) int {
	cutoff := w.now().Add(-w.ttl)
	stale, err := w.bookings.ListStaleBookings(ctx, payment.StateAwaitingPayment, cutoff, batchSize)
	if err != nil {
		utils.LogError("booking-expirer: list stale error: %v", err)
		return 0
	}

	expired := 0
	for _, b := range stale {
		err := w.bookings.TransitionBooking(ctx, b.ID, payment.StateAwaitingPayment, payment.StateExpired, storage.BookingUpdate{})
		if errors.Is(err, payment.ErrIllegalTransition) {
			// paid or verified since the scan
			continue
		}
		if err != nil {
			utils.LogError("booking-expirer: expire booking=%d order=%s err=%v", b.ID, b.RazorpayOrderID, err)
			continue
		}
		expired++
		metrics.BookingsExpired.Inc()
		if err := w.publisher.Publish(ctx, expiredEvent(b)); err != nil {
			utils.LogError("booking-expirer: publish booking=%d err=%v", b.ID, err)
		}
		utils.LogInfo("booking-expirer: expired booking=%d order=%s", b.ID, b.RazorpayOrderID)
	}
	return expired
}

func expiredEvent(b models.Booking) events.Event {
	e := events.Event{
		Type:      events.BookingExpired,
		OrderID:   b.RazorpayOrderID,
		BookingID: b.ID,
		Amount:    b.Amount,
		Currency:  b.Currency,
		Reason:    "payment window elapsed",
	}
	if b.ListingID != nil {
		e.ListingID = *b.ListingID
	}
	if b.UserID != nil {
		e.UserID = *b.UserID
	}
	return e
}
