package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Confirmation is what the client posts back after paying on the gateway.
// All three fields are untrusted.
type Confirmation struct {
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature"`
}

// Complete reports whether every field is present.
func (c Confirmation) Complete() bool {
	return c.OrderID != "" && c.PaymentID != "" && c.Signature != ""
}

// Verifier authenticates payment confirmations with the shared gateway secret.
type Verifier struct {
	secret []byte
	newMAC func(key []byte) hash.Hash
}

// NewVerifier returns a Verifier keyed with the integration secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		newMAC: func(key []byte) hash.Hash { return hmac.New(sha256.New, key) },
	}
}

// Sign returns the lowercase hex HMAC-SHA256 of "orderID|paymentID".
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := v.newMAC(v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a confirmation. Incomplete input fails before any MAC is
// computed. The digest comparison is constant-time.
func (v *Verifier) Verify(c Confirmation) error {
	if !c.Complete() {
		return ErrMissingPaymentInfo
	}
	expected := v.Sign(c.OrderID, c.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(c.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}
