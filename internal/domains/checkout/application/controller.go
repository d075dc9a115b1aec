package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

// Controller drives one cart's checkout workflow through the explicit state
// machine, from INFORMATION over PAYMENT and REVIEW to SUBMITTING and then
// SUCCESS or FAILED. Each transition has its own guard; a single in-flight
// flag prevents a second submit while one is pending.
type Controller struct {
	cartID       string
	carts        cartports.Service
	orchestrator ports.SubmitOrchestrator
	successURL   string
	cancelURL    string
	logger       *slog.Logger

	mu         sync.Mutex
	state      domain.State
	draft      domain.Draft
	submitting bool
}

// NewController begins checkout for a cart. Entry guard: an empty cart
// never enters the workflow and returns ErrEmptyCart.
func NewController(ctx context.Context, cartID string, carts cartports.Service, orchestrator ports.SubmitOrchestrator, successURL, cancelURL string, logger *slog.Logger) (*Controller, error) {
	cart, err := carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ports.ErrEmptyCart
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cartID:       cartID,
		carts:        carts,
		orchestrator: orchestrator,
		successURL:   successURL,
		cancelURL:    cancelURL,
		logger:       logger,
		state:        domain.StateInformation,
	}, nil
}

// State reports the current workflow state.
func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns a copy of the in-progress checkout draft.
func (c *Controller) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// UpdateDraft replaces the draft with step-local form data. Drafts are
// mutable until the submission is in flight.
func (c *Controller) UpdateDraft(draft domain.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting || c.state == domain.StateSubmitting {
		return ports.ErrSubmitInFlight
	}
	c.draft = draft
	return nil
}

// Next advances one step forward after the current step's guard passes.
// Information requires the contact and billing fields to validate; the
// payment step collects nothing locally so its transition is unconditional.
func (c *Controller) Next() (domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, ok := c.state.Next()
	if !ok {
		return c.state, domain.ErrInvalidTransition
	}
	if c.state == domain.StateInformation {
		if err := c.draft.ValidateContact(); err != nil {
			return c.state, err
		}
	}
	return c.transition(next)
}

// Back moves to the immediately preceding step only.
func (c *Controller) Back() (domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.state.Previous()
	if !ok {
		return c.state, domain.ErrInvalidTransition
	}
	return c.transition(prev)
}

// Submit runs the Review guard, builds the line-item summary, and asks the
// gateway for a hosted payment page. On success the returned URL is a hard
// suspension point: the machine stays in SUBMITTING and payment completes
// externally. On failure it lands in FAILED, from where a retry re-enters
// REVIEW.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	req, err := c.beginSubmit(ctx)
	if err != nil {
		return "", err
	}
	session, err := c.orchestrator.CreateSession(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.state = domain.StateFailed
		c.logger.ErrorContext(ctx, "payment session creation failed",
			slog.String("cart.id", c.cartID), slog.String("error", err.Error()))
		return "", err
	}
	c.logger.InfoContext(ctx, "payment session created, redirecting",
		slog.String("cart.id", c.cartID))
	return session.URL, nil
}

func (c *Controller) beginSubmit(ctx context.Context) (ports.CreateSessionRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ports.CreateSessionRequest{}, ports.ErrSubmitInFlight
	}
	if c.state == domain.StateFailed {
		// Recoverable failure: retry re-enters Review before submitting.
		if _, err := c.transition(domain.StateReview); err != nil {
			return ports.CreateSessionRequest{}, err
		}
	}
	if c.state != domain.StateReview {
		return ports.CreateSessionRequest{}, domain.ErrInvalidTransition
	}
	// The whole draft validates again here: a later draft replacement at the
	// Payment step can drop the contact fields the Information guard checked.
	if err := c.draft.ValidateContact(); err != nil {
		return ports.CreateSessionRequest{}, err
	}
	if err := c.draft.ValidateTerms(); err != nil {
		return ports.CreateSessionRequest{}, err
	}
	cart, err := c.carts.Get(ctx, c.cartID)
	if err != nil {
		return ports.CreateSessionRequest{}, err
	}
	if cart.IsEmpty() {
		return ports.CreateSessionRequest{}, ports.ErrEmptyCart
	}
	req := ports.CreateSessionRequest{
		Email:      c.draft.Email,
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
	}
	for _, item := range cart.Items {
		req.Items = append(req.Items, ports.SessionItem{
			BeatID: item.Beat.ID,
			Tier:   NormalizeTier(item.Tier.Tier),
			Price:  item.Tier.Price * float64(item.Quantity),
		})
	}
	if _, err := c.transition(domain.StateSubmitting); err != nil {
		return ports.CreateSessionRequest{}, err
	}
	c.submitting = true
	return req, nil
}

// transition applies a table-checked state change. Callers hold the lock.
func (c *Controller) transition(to domain.State) (domain.State, error) {
	if !domain.CanTransition(c.state, to) {
		return c.state, domain.ErrInvalidTransition
	}
	c.state = to
	return c.state, nil
}

// NormalizeTier lowercases a tier label and collapses whitespace runs into
// underscores, matching the identifier format the payment backend expects.
func NormalizeTier(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}
