package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

// CreatePaymentSessionActivityName asks the payment gateway for a hosted
// checkout page.
const CreatePaymentSessionActivityName = "checkout.activities.CreatePaymentSession"

// Activities groups activities operating on the checkout bounded context.
type Activities struct {
	gateway ports.PaymentGateway
}

// NewActivities wires the payment gateway into the Temporal activities bundle.
func NewActivities(gateway ports.PaymentGateway) *Activities {
	return &Activities{gateway: gateway}
}

// CreatePaymentSession calls the gateway and returns the redirect target.
func (a *Activities) CreatePaymentSession(ctx context.Context, req ports.CreateSessionRequest) (*ports.CheckoutSession, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.gateway == nil {
		logger.Error("payment session activity not initialized")
		return nil, errors.New("payment session activity not initialized")
	}
	logger.Info("CreatePaymentSession activity started", "email", req.Email, "items", len(req.Items))
	session, err := a.gateway.CreateSession(ctx, req)
	if err != nil {
		logger.Error("CreatePaymentSession activity failed", "error", err)
		return nil, err
	}
	logger.Info("CreatePaymentSession activity completed")
	return &session, nil
}
