package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/Wanderlust/events"
	"github.com/Govind-619/Wanderlust/metrics"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgInvalidAmount       = "Invalid amount"
	msgOrderFailed         = "Could not create order"
	msgMissingPaymentInfo  = "Missing payment info"
	msgInvalidSignature    = "Invalid signature"
	msgIdempotencyInFlight = "A request with this Idempotency-Key is still in progress"

	idempotencyHeader = "Idempotency-Key"

	idempotencyWriteTimeout = 5 * time.Second
)

type createOrderRequest struct {
	Amount    json.RawMessage `json:"amount"`
	ListingID *uint           `json:"listing_id"`
}

// bindCreateOrder accepts JSON with a numeric or string amount, or a form.
func bindCreateOrder(c *gin.Context) (amount string, listingID *uint) {
	if c.ContentType() != gin.MIMEJSON {
		if v, err := strconv.ParseUint(c.PostForm("listing_id"), 10, 64); err == nil && v > 0 {
			id := uint(v)
			listingID = &id
		}
		return c.PostForm("amount"), listingID
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil
	}
	raw := bytes.TrimSpace(req.Amount)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return "", req.ListingID
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", req.ListingID
		}
		return strings.TrimSpace(s), req.ListingID
	default:
		return string(raw), req.ListingID
	}
}

// CreateOrder handles POST /create-order
func (h *Handler) CreateOrder(c *gin.Context) {
	log := utils.RequestLogger(c)
	ctx := c.Request.Context()
	amount, listingID := bindCreateOrder(c)

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if key != "" && h.Idempotency != nil {
		existing, started, err := h.Idempotency.Begin(ctx, key)
		switch {
		case err != nil:
			// keep serving without deduplication
			log.Error().Err(err).Msg("idempotency store unavailable")
			key = ""
		case !started && existing.Pending:
			metrics.OrdersCreated.WithLabelValues("in_flight").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": msgIdempotencyInFlight})
			return
		case !started:
			metrics.OrdersCreated.WithLabelValues("replayed").Inc()
			log.Info().Str("idempotency_key", key).Msg("replaying stored create-order response")
			c.Data(existing.Code, "application/json; charset=utf-8", existing.Body)
			return
		}
	} else {
		key = ""
	}

	code, body := h.createOrder(ctx, *log, c, amount, listingID, key)
	if key != "" {
		h.finishIdempotency(ctx, *log, key, code, body)
	}
	c.Data(code, "application/json; charset=utf-8", body)
}

// finishIdempotency records the outcome for key even when the client has
// gone away, so the key never stays pending until its TTL.
func (h *Handler) finishIdempotency(reqCtx context.Context, log zerolog.Logger, key string, code int, body []byte) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), idempotencyWriteTimeout)
	defer cancel()

	if code == http.StatusInternalServerError {
		if err := h.Idempotency.Abort(ctx, key); err != nil {
			log.Error().Err(err).Msg("release idempotency key")
		}
		return
	}
	if err := h.Idempotency.Complete(ctx, key, code, body); err != nil {
		log.Error().Err(err).Msg("store idempotent response")
	}
}

func (h *Handler) createOrder(ctx context.Context, log zerolog.Logger, c *gin.Context, amount string, listingID *uint, idemKey string) (int, []byte) {
	issued, err := h.Issuer.Issue(ctx, amount)
	if errors.Is(err, payment.ErrInvalidAmount) {
		metrics.OrdersCreated.WithLabelValues("invalid_amount").Inc()
		log.Info().Str("amount", amount).Msg("rejected create-order: invalid amount")
		return jsonBody(http.StatusBadRequest, gin.H{"error": msgInvalidAmount})
	}
	if err != nil {
		metrics.OrdersCreated.WithLabelValues("gateway_error").Inc()
		log.Error().Err(err).Msg("create-order failed at gateway")
		return jsonBody(http.StatusInternalServerError, gin.H{"error": msgOrderFailed})
	}
	order := issued.Order
	log = log.With().Str("order_id", order.ID).Str("receipt", order.Receipt).Logger()

	booking := &models.Booking{
		RazorpayOrderID: order.ID,
		Receipt:         order.Receipt,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Status:          payment.StateCreated,
		IdempotencyKey:  idemKey,
	}
	if booking.Currency == "" {
		booking.Currency = h.Issuer.Currency()
	}
	if uid, ok := middleware.CurrentUserID(c); ok {
		booking.UserID = &uid
	}
	if listingID != nil {
		if _, err := h.Store.GetListing(ctx, *listingID); err == nil {
			booking.ListingID = listingID
		} else {
			log.Warn().Err(err).Uint("listing_id", *listingID).Msg("booking not linked to listing")
		}
	}

	if err := h.Store.CreateBooking(ctx, booking); err != nil {
		metrics.OrdersCreated.WithLabelValues("store_error").Inc()
		log.Error().Err(err).Msg("persist booking")
		return jsonBody(http.StatusInternalServerError, gin.H{"error": msgOrderFailed})
	}
	if err := h.Store.TransitionBooking(ctx, booking.ID, payment.StateCreated, payment.StateAwaitingPayment, storage.BookingUpdate{}); err != nil {
		log.Error().Err(err).Uint("booking_id", booking.ID).Msg("mark booking awaiting payment")
	}

	h.publish(ctx, log, bookingEvent(events.OrderCreated, booking, ""))
	metrics.OrdersCreated.WithLabelValues("ok").Inc()
	log.Info().Int64("amount", order.Amount).Uint("booking_id", booking.ID).Msg("order created")
	return jsonBody(http.StatusOK, issued)
}

func jsonBody(code int, v interface{}) (int, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		return http.StatusInternalServerError, []byte(`{"error":"` + msgOrderFailed + `"}`)
	}
	return code, body
}

// VerifyPayment handles POST /verify-payment
func (h *Handler) VerifyPayment(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	var conf payment.Confirmation
	if err := c.ShouldBind(&conf); err != nil {
		utils.RequestLogger(c).Debug().Err(err).Msg("unreadable verify-payment body")
		conf = payment.Confirmation{}
	}
	log := utils.RequestLogger(c).With().Str("order_id", conf.OrderID).Str("payment_id", conf.PaymentID).Logger()

	err := h.Verifier.Verify(conf)
	if errors.Is(err, payment.ErrMissingPaymentInfo) {
		h.observeVerify(start, "fail", "missing_info")
		log.Info().Msg("verify-payment: missing payment info")
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "error": msgMissingPaymentInfo})
		return
	}

	booking, lookupErr := h.Store.GetBookingByOrderID(ctx, conf.OrderID)
	if lookupErr != nil && !errors.Is(lookupErr, storage.ErrNotFound) {
		log.Error().Err(lookupErr).Msg("verify-payment: booking lookup")
	}
	if lookupErr != nil {
		booking = nil
	}

	if err != nil {
		h.observeVerify(start, "fail", "invalid_signature")
		log.Warn().Msg("verify-payment: invalid signature")
		// the booking keeps waiting; only a valid signature or expiry ends it
		if booking != nil {
			h.publish(ctx, log, bookingEvent(events.PaymentRejected, booking, conf.PaymentID))
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "error": msgInvalidSignature})
		return
	}

	if booking == nil {
		log.Warn().Msg("verify-payment: valid signature for an order with no booking")
	} else {
		h.settle(ctx, log, booking, conf)
	}
	h.observeVerify(start, "ok", "")
	log.Info().Msg("payment verified")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) observeVerify(start time.Time, result, reason string) {
	metrics.PaymentVerifyRequests.WithLabelValues(result, reason).Inc()
	metrics.PaymentVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

// settle moves an awaiting booking through verifying to verified once its
// signature checks out. Store failures are logged; the client response
// depends only on the signature.
func (h *Handler) settle(ctx context.Context, log zerolog.Logger, b *models.Booking, conf payment.Confirmation) {
	log = log.With().Uint("booking_id", b.ID).Str("booking_status", b.Status.String()).Logger()

	if b.Status != payment.StateAwaitingPayment {
		if b.Status == payment.StateVerified {
			log.Info().Msg("duplicate confirmation for a verified booking")
		} else {
			log.Warn().Msg("late payment: valid signature for a booking that is no longer awaiting payment")
		}
		return
	}

	err := h.Store.TransitionBooking(ctx, b.ID, payment.StateAwaitingPayment, payment.StateVerifying, storage.BookingUpdate{})
	if err != nil {
		log.Error().Err(err).Msg("mark booking verifying")
		return
	}

	now := h.now()
	upd := storage.BookingUpdate{PaymentID: conf.PaymentID, VerifiedAt: &now}
	if err := h.Store.TransitionBooking(ctx, b.ID, payment.StateVerifying, payment.StateVerified, upd); err != nil {
		log.Error().Err(err).Msg("mark booking verified")
		return
	}
	h.publish(ctx, log, bookingEvent(events.PaymentVerified, b, conf.PaymentID))
	h.sendConfirmation(log, b, conf.PaymentID)
}

func (h *Handler) publish(ctx context.Context, log zerolog.Logger, e events.Event) {
	if err := h.Events.Publish(ctx, e); err != nil {
		log.Error().Err(err).Str("event", e.Type).Msg("publish event")
	}
}

func (h *Handler) sendConfirmation(log zerolog.Logger, b *models.Booking, paymentID string) {
	if b.User == nil || b.User.Email == "" {
		return
	}
	mail := utils.BookingMail{
		To:        b.User.Email,
		Username:  b.User.Username,
		OrderID:   b.RazorpayOrderID,
		PaymentID: paymentID,
		Amount:    b.AmountDisplay(),
		Currency:  b.Currency,
	}
	if b.Listing != nil {
		mail.ListingTitle = b.Listing.Title
	}
	h.async(func() {
		if err := h.Mailer.SendBookingConfirmation(mail); err != nil {
			log.Error().Err(err).Msg("send booking confirmation")
		}
	})
}

func bookingEvent(kind string, b *models.Booking, paymentID string) events.Event {
	e := events.Event{
		Type:      kind,
		OrderID:   b.RazorpayOrderID,
		PaymentID: paymentID,
		BookingID: b.ID,
		Amount:    b.Amount,
		Currency:  b.Currency,
	}
	if b.ListingID != nil {
		e.ListingID = *b.ListingID
	}
	if b.UserID != nil {
		e.UserID = *b.UserID
	}
	return e
}
