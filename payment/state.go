package payment

import "fmt"

// State is a step of the booking payment lifecycle.
type State string

const (
	StateCreated         State = "created"
	StateAwaitingPayment State = "awaiting_payment"
	StateVerifying       State = "verifying"
	StateVerified        State = "verified"
	StateRejected        State = "rejected"
	// StateExpired marks an order abandoned past its TTL.
	StateExpired State = "expired"
)

var transitions = map[State][]State{
	StateCreated:         {StateAwaitingPayment},
	StateAwaitingPayment: {StateVerifying, StateExpired},
	StateVerifying:       {StateVerified, StateRejected},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s State) String() string {
	return string(s)
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition is CanTransition as an error.
func CheckTransition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}
