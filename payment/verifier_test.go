package payment

import (
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
)

const vectorSignature = "93f5a785992a41d68e10e2e08c1c7ca5692e58e24bdedbc5f0616c97fc4438aa"

func TestSignMatchesKnownVector(t *testing.T) {
	v := NewVerifier("testsecret")
	assert.Equal(t, vectorSignature, v.Sign("order_ABC", "pay_XYZ"))
}

func TestSignIsDeterministic(t *testing.T) {
	v := NewVerifier("testsecret")
	first := v.Sign("order_1", "pay_1")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, v.Sign("order_1", "pay_1"))
	}
	assert.Equal(t, "9278a9b6533601a5a1dfe3bbbe21097e8d38eb588970da5dfe0aa3a1b3b081f0", first)
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v := NewVerifier("testsecret")
	err := v.Verify(Confirmation{OrderID: "order_ABC", PaymentID: "pay_XYZ", Signature: vectorSignature})
	assert.NoError(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewVerifier("othersecret")
	err := v.Verify(Confirmation{OrderID: "order_ABC", PaymentID: "pay_XYZ", Signature: vectorSignature})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySingleCharacterMutation(t *testing.T) {
	v := NewVerifier("testsecret")
	for i := range vectorSignature {
		sig := []byte(vectorSignature)
		if sig[i] == '0' {
			sig[i] = '1'
		} else {
			sig[i] = '0'
		}
		err := v.Verify(Confirmation{OrderID: "order_ABC", PaymentID: "pay_XYZ", Signature: string(sig)})
		assert.ErrorIs(t, err, ErrInvalidSignature, "position %d", i)
	}
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	v := NewVerifier("testsecret")
	err := v.Verify(Confirmation{OrderID: "order_ABC", PaymentID: "pay_XYZ", Signature: "93F5A785992A41D68E10E2E08C1C7CA5692E58E24BDEDBC5F0616C97FC4438AA"})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

type countingHash struct {
	hash.Hash
	calls *int
}

func TestVerifyMissingFieldsComputesNoMAC(t *testing.T) {
	calls := 0
	v := NewVerifier("testsecret")
	inner := v.newMAC
	v.newMAC = func(key []byte) hash.Hash {
		calls++
		return countingHash{Hash: inner(key), calls: &calls}
	}

	missing := []Confirmation{
		{},
		{OrderID: "order_ABC"},
		{PaymentID: "pay_XYZ"},
		{Signature: vectorSignature},
		{OrderID: "order_ABC", PaymentID: "pay_XYZ"},
		{OrderID: "order_ABC", Signature: vectorSignature},
		{PaymentID: "pay_XYZ", Signature: vectorSignature},
	}
	for _, c := range missing {
		assert.ErrorIs(t, v.Verify(c), ErrMissingPaymentInfo)
	}
	assert.Equal(t, 0, calls)

	assert.NoError(t, v.Verify(Confirmation{OrderID: "order_ABC", PaymentID: "pay_XYZ", Signature: vectorSignature}))
	assert.Equal(t, 1, calls)
}
