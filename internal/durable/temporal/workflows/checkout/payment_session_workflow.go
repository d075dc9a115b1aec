package checkout

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
	checkoutactivities "github.com/beatforge/beatstore-api/internal/durable/temporal/activities/checkout"
)

const (
	// PaymentSessionWorkflowName is the public identifier for registering the workflow.
	PaymentSessionWorkflowName = "checkout.workflows.PaymentSession"
	// CheckoutTaskQueue is the queue consumed by the worker processing checkout workflows.
	CheckoutTaskQueue = "CHECKOUT_SUBMIT"
)

// PaymentSessionWorkflowInput captures the payload needed to create a
// hosted payment session.
type PaymentSessionWorkflowInput struct {
	Request ports.CreateSessionRequest
	TraceID string
}

// PaymentSessionWorkflow runs the payment-session creation with retries.
// The gateway call is the only activity; its result is the redirect URL the
// customer leaves the application through.
func PaymentSessionWorkflow(ctx workflow.Context, input PaymentSessionWorkflowInput) (*ports.CheckoutSession, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PaymentSessionWorkflow started", withTraceID(input.TraceID, "email", input.Request.Email)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var session ports.CheckoutSession
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.CreatePaymentSessionActivityName, input.Request).Get(ctx, &session); err != nil {
		logger.Error("PaymentSessionWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("PaymentSessionWorkflow completed", withTraceID(input.TraceID)...)
	return &session, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
