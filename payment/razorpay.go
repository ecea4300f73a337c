package payment

import (
	"context"
	"encoding/json"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// orderCreator is the part of the razorpay SDK the gateway uses.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates orders through the Razorpay orders API.
type RazorpayGateway struct {
	orders orderCreator
}

// NewRazorpayGateway builds a gateway client from the key pair. The secret
// authenticates API calls only and is never sent to browsers.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order}
}

// CreateOrder implements Gateway. The SDK call has no context support, so
// the deadline is enforced here and a late reply is dropped.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	capture := 0
	if req.PaymentCapture {
		capture = 1
	}
	data := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": capture,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := g.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("razorpay create order: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("razorpay create order: %w", res.err)
		}
		return orderFromBody(res.body)
	}
}

func orderFromBody(body map[string]interface{}) (*Order, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode razorpay order: %w", err)
	}
	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode razorpay order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order response has no id")
	}
	return &order, nil
}
