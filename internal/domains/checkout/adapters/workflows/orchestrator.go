package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
	checkoutworkflows "github.com/beatforge/beatstore-api/internal/durable/temporal/workflows/checkout"
)

var (
	_ ports.SubmitOrchestrator = (*TemporalSubmitOrchestrator)(nil)
	_ ports.SubmitOrchestrator = (*InlineSubmitOrchestrator)(nil)
)

// TemporalSubmitOrchestrator starts payment-session workflows on a Temporal
// cluster so gateway calls survive process restarts and get retried.
type TemporalSubmitOrchestrator struct {
	client    client.Client
	taskQueue string
}

// NewTemporalSubmitOrchestrator wires a Temporal client into the orchestrator.
func NewTemporalSubmitOrchestrator(c client.Client) *TemporalSubmitOrchestrator {
	return &TemporalSubmitOrchestrator{client: c, taskQueue: checkoutworkflows.CheckoutTaskQueue}
}

// CreateSession runs the durable workflow and blocks for its result; the
// controller still observes a single request/response exchange.
func (o *TemporalSubmitOrchestrator) CreateSession(ctx context.Context, req ports.CreateSessionRequest) (ports.CheckoutSession, error) {
	if o == nil || o.client == nil {
		return ports.CheckoutSession{}, errors.New("temporal submit orchestrator not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("payment-session-%s", traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.PaymentSessionWorkflow,
		checkoutworkflows.PaymentSessionWorkflowInput{Request: req, TraceID: traceComponent},
	)
	if err != nil {
		// A retried submit for the same trace attaches to the run already
		// in flight instead of opening a second gateway session.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var session ports.CheckoutSession
			if err := existingRun.Get(ctx, &session); err != nil {
				return ports.CheckoutSession{}, err
			}
			return session, nil
		}
		return ports.CheckoutSession{}, err
	}
	var session ports.CheckoutSession
	if err := run.Get(ctx, &session); err != nil {
		return ports.CheckoutSession{}, err
	}
	return session, nil
}

// InlineSubmitOrchestrator calls the gateway directly without Temporal,
// useful for tests or dev fallbacks.
type InlineSubmitOrchestrator struct {
	gateway ports.PaymentGateway
}

// NewInlineSubmitOrchestrator wraps the gateway for synchronous execution.
func NewInlineSubmitOrchestrator(gateway ports.PaymentGateway) *InlineSubmitOrchestrator {
	return &InlineSubmitOrchestrator{gateway: gateway}
}

// CreateSession delegates to the gateway without durable orchestration.
func (o *InlineSubmitOrchestrator) CreateSession(ctx context.Context, req ports.CreateSessionRequest) (ports.CheckoutSession, error) {
	if o == nil || o.gateway == nil {
		return ports.CheckoutSession{}, errors.New("inline submit orchestrator not configured")
	}
	return o.gateway.CreateSession(ctx, req)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
