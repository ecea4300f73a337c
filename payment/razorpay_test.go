package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	data  map[string]interface{}
	body  map[string]interface{}
	err   error
	block chan struct{}
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.data = data
	if s.block != nil {
		<-s.block
	}
	return s.body, s.err
}

func TestRazorpayGatewayCreateOrder(t *testing.T) {
	stub := &stubOrders{body: map[string]interface{}{
		"id":          "order_N1",
		"entity":      "order",
		"amount":      float64(1250),
		"amount_paid": float64(0),
		"amount_due":  float64(1250),
		"currency":    "INR",
		"receipt":     "rcpt_1",
		"status":      "created",
		"attempts":    float64(0),
		"created_at":  float64(1700000000),
	}}
	gw := &RazorpayGateway{orders: stub}

	order, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 1250, Currency: "INR", Receipt: "rcpt_1", PaymentCapture: true})
	require.NoError(t, err)

	assert.Equal(t, int64(1250), stub.data["amount"])
	assert.Equal(t, 1, stub.data["payment_capture"])
	assert.Equal(t, "rcpt_1", stub.data["receipt"])

	assert.Equal(t, "order_N1", order.ID)
	assert.Equal(t, int64(1250), order.AmountDue)
	assert.Equal(t, int64(1700000000), order.CreatedAt)
}

func TestRazorpayGatewayError(t *testing.T) {
	gw := &RazorpayGateway{orders: &stubOrders{err: errors.New("BAD_REQUEST_ERROR")}}
	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	assert.Error(t, err)
}

func TestRazorpayGatewayMissingID(t *testing.T) {
	gw := &RazorpayGateway{orders: &stubOrders{body: map[string]interface{}{"status": "created"}}}
	_, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	assert.Error(t, err)
}

func TestRazorpayGatewayHonoursDeadline(t *testing.T) {
	stub := &stubOrders{block: make(chan struct{})}
	defer close(stub.block)
	gw := &RazorpayGateway{orders: stub}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := gw.CreateOrder(ctx, OrderRequest{Amount: 100})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
