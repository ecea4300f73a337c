package payment

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultCurrency is used when the issuer is configured without one.
	DefaultCurrency = "INR"
	// DefaultGatewayTimeout bounds the outbound create-order call.
	DefaultGatewayTimeout = 5 * time.Second
)

// IssuerConfig holds the read-only settings of an Issuer.
type IssuerConfig struct {
	// KeyID is the public gateway key handed to the client. Never the secret.
	KeyID    string
	Currency string
	Timeout  time.Duration
}

// IssuedOrder is the result of a successful Issue call.
type IssuedOrder struct {
	Order *Order `json:"order"`
	Key   string `json:"key"`
}

// Issuer turns an amount into a gateway order.
type Issuer struct {
	gateway  Gateway
	keyID    string
	currency string
	timeout  time.Duration
	receipt  func() string
}

// NewIssuer builds an Issuer around the given gateway.
func NewIssuer(gateway Gateway, cfg IssuerConfig) *Issuer {
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGatewayTimeout
	}
	return &Issuer{
		gateway:  gateway,
		keyID:    cfg.KeyID,
		currency: cfg.Currency,
		timeout:  cfg.Timeout,
		receipt:  NewReceipt,
	}
}

// Currency reports the fixed currency code of issued orders.
func (i *Issuer) Currency() string {
	return i.currency
}

// Issue validates amount (major units), then creates an immediately
// captured order on the gateway. Invalid amounts never reach the gateway.
// Gateway failures are not retried.
func (i *Issuer) Issue(ctx context.Context, amount string) (*IssuedOrder, error) {
	minor, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	req := OrderRequest{
		Amount:         minor,
		Currency:       i.currency,
		Receipt:        i.receipt(),
		PaymentCapture: true,
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	order, err := i.gateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	if order == nil || order.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no order id", ErrOrderCreationFailed)
	}
	if order.Receipt == "" {
		order.Receipt = req.Receipt
	}

	return &IssuedOrder{Order: order, Key: i.keyID}, nil
}
