package domain

import "errors"

// State enumerates the checkout workflow states. The flow is linear with
// bounded backtracking: one step backwards at most, no skip-ahead without
// passing the current step's guard.
type State string

const (
	StateInformation State = "INFORMATION"
	StatePayment     State = "PAYMENT"
	StateReview      State = "REVIEW"
	StateSubmitting  State = "SUBMITTING"
	StateSucceeded   State = "SUCCESS"
	StateFailed      State = "FAILED"
)

var ErrInvalidTransition = errors.New("checkout transition not allowed")

// transitions is the explicit table of legal state changes. FAILED is
// recoverable: the user may return to REVIEW and retry the submit.
var transitions = map[State][]State{
	StateInformation: {StatePayment},
	StatePayment:     {StateInformation, StateReview},
	StateReview:      {StatePayment, StateSubmitting},
	StateSubmitting:  {StateSucceeded, StateFailed},
	StateFailed:      {StateReview},
}

// CanTransition reports whether the table allows moving from one state to
// another.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the forward step from the given pre-submit state.
func (s State) Next() (State, bool) {
	switch s {
	case StateInformation:
		return StatePayment, true
	case StatePayment:
		return StateReview, true
	default:
		return s, false
	}
}

// Previous returns the immediately preceding step for backtracking.
func (s State) Previous() (State, bool) {
	switch s {
	case StatePayment:
		return StateInformation, true
	case StateReview:
		return StatePayment, true
	default:
		return s, false
	}
}

// Terminal reports whether the workflow has reached an end state for the
// current attempt. SUCCESS is final; FAILED still permits a retry.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) String() string {
	return string(s)
}
