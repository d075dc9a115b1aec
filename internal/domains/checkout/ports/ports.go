package ports

import (
	"context"
	"errors"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutNotStarted = errors.New("checkout has not been started")
	ErrSubmitInFlight     = errors.New("a checkout submission is already in flight")
	ErrMissingSessionID   = errors.New("payment session id is missing")
	ErrGatewayFailure     = errors.New("payment session creation failed")
	ErrVerificationFailed = errors.New("order verification failed")
)

// SessionItem is one line of the payment-session request: beat id,
// normalized tier identifier, and the extended (price × quantity) amount.
type SessionItem struct {
	BeatID string  `json:"beatId"`
	Tier   string  `json:"tier"`
	Price  float64 `json:"price"`
}

// CreateSessionRequest is the payload handed to the payment gateway.
type CreateSessionRequest struct {
	Items      []SessionItem `json:"items"`
	Email      string        `json:"email"`
	SuccessURL string        `json:"successUrl"`
	CancelURL  string        `json:"cancelUrl"`
}

// CheckoutSession points at the externally hosted payment page.
type CheckoutSession struct {
	URL string `json:"url"`
}

// PaymentGateway creates hosted payment sessions. A missing redirect URL or
// a non-2xx answer surfaces as ErrGatewayFailure (wrapped with detail).
type PaymentGateway interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (CheckoutSession, error)
}

// OrderVerifier confirms a completed payment session and returns the
// finalized order summary.
type OrderVerifier interface {
	Verify(ctx context.Context, sessionID string) (*domain.OrderSummary, error)
}

// SubmitOrchestrator runs the payment-session creation, either inline
// against the gateway or through a durable workflow.
type SubmitOrchestrator interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (CheckoutSession, error)
}

// ProcessedSessions records session ids that already cleared the cart so a
// replayed success URL cannot clear or report twice. MarkProcessed returns
// true only for the first caller of a given session id.
type ProcessedSessions interface {
	MarkProcessed(ctx context.Context, sessionID string) (bool, error)
}
