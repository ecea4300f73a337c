package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []OrderRequest
	err      error
	delay    time.Duration
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return &Order{ID: "order_" + req.Receipt, Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func TestIssueSendsMinorUnits(t *testing.T) {
	gw := &fakeGateway{}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "rzp_test_key"})

	issued, err := issuer.Issue(context.Background(), "12.5")
	require.NoError(t, err)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, int64(1250), req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.True(t, req.PaymentCapture)
	assert.Contains(t, req.Receipt, ReceiptPrefix)

	assert.Equal(t, "rzp_test_key", issued.Key)
	assert.Equal(t, int64(1250), issued.Order.Amount)
	assert.NotEmpty(t, issued.Order.ID)
}

func TestIssueInvalidAmountSkipsGateway(t *testing.T) {
	gw := &fakeGateway{}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "k"})

	for _, amount := range []string{"", "0", "-1", "ten", "0.001"} {
		_, err := issuer.Issue(context.Background(), amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.Empty(t, gw.requests)
}

func TestIssueGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("502 bad gateway")}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "k"})

	_, err := issuer.Issue(context.Background(), "100")
	assert.ErrorIs(t, err, ErrOrderCreationFailed)
	assert.Len(t, gw.requests, 1, "gateway failures are not retried")
}

func TestIssueTimeout(t *testing.T) {
	gw := &fakeGateway{delay: time.Second}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "k", Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := issuer.Issue(context.Background(), "100")
	assert.ErrorIs(t, err, ErrOrderCreationFailed)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestIssueDistinctReceipts(t *testing.T) {
	gw := &fakeGateway{}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "k"})

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		_, err := issuer.Issue(context.Background(), "250")
		require.NoError(t, err)
	}
	for _, req := range gw.requests {
		assert.False(t, seen[req.Receipt], "duplicate receipt %s", req.Receipt)
		seen[req.Receipt] = true
	}
}

func TestIssueCustomCurrency(t *testing.T) {
	gw := &fakeGateway{}
	issuer := NewIssuer(gw, IssuerConfig{KeyID: "k", Currency: "USD"})

	_, err := issuer.Issue(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "USD", gw.requests[0].Currency)
	assert.Equal(t, "USD", issuer.Currency())
}
