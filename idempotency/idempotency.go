// Package idempotency remembers the outcome of requests carrying an
// Idempotency-Key so a retried checkout does not create a second order.
package idempotency

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL bounds how long a key is remembered.
const DefaultTTL = 24 * time.Hour

// ErrEmptyKey is returned for a blank key.
var ErrEmptyKey = errors.New("idempotency key is empty")

// Entry is what is stored under a key. Pending entries have no response yet.
type Entry struct {
	Pending bool   `json:"pending"`
	Code    int    `json:"code,omitempty"`
	Body    []byte `json:"body,omitempty"`
}

// Store records request outcomes by key.
type Store interface {
	// Begin claims the key. started is true when the caller owns it and must
	// later Complete or Abort; otherwise the existing entry is returned.
	Begin(ctx context.Context, key string) (existing Entry, started bool, err error)
	Complete(ctx context.Context, key string, code int, body []byte) error
	// Abort forgets a claimed key so the request may be retried.
	Abort(ctx context.Context, key string) error
}
