package payment

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is missing, non-numeric or not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOrderCreationFailed wraps every gateway failure during order creation.
	ErrOrderCreationFailed = errors.New("order creation failed")
	// ErrMissingPaymentInfo is returned when a confirmation lacks one of its three fields.
	ErrMissingPaymentInfo = errors.New("missing payment info")
	// ErrInvalidSignature is returned when the supplied signature does not match.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrIllegalTransition is returned for a state change the lifecycle does not allow.
	ErrIllegalTransition = errors.New("illegal payment state transition")
)
