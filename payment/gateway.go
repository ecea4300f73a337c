package payment

import "context"

// OrderRequest is what the issuer asks the gateway to create.
type OrderRequest struct {
	Amount         int64
	Currency       string
	Receipt        string
	PaymentCapture bool
}

// Order is the gateway-side order record. Only ID is guaranteed to be set.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity,omitempty"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status,omitempty"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at,omitempty"`
}

// Gateway creates orders on the external payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}
