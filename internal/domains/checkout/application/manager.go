package application

import (
	"context"
	"log/slog"
	"sync"

	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

// Manager owns at most one live checkout controller per cart. Beginning
// checkout again discards any earlier abandoned attempt; drafts are never
// persisted across attempts.
type Manager struct {
	carts        cartports.Service
	orchestrator ports.SubmitOrchestrator
	successURL   string
	cancelURL    string
	logger       *slog.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager(carts cartports.Service, orchestrator ports.SubmitOrchestrator, successURL, cancelURL string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		carts:        carts,
		orchestrator: orchestrator,
		successURL:   successURL,
		cancelURL:    cancelURL,
		logger:       logger,
		controllers:  map[string]*Controller{},
	}
}

// Begin starts a fresh checkout for the cart, replacing any prior attempt.
func (m *Manager) Begin(ctx context.Context, cartID string) (*Controller, error) {
	controller, err := NewController(ctx, cartID, m.carts, m.orchestrator, m.successURL, m.cancelURL, m.logger)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controllers[cartID] = controller
	return controller, nil
}

// Get returns the live controller for a cart, or ErrCheckoutNotStarted.
func (m *Manager) Get(cartID string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	controller, ok := m.controllers[cartID]
	if !ok {
		return nil, ports.ErrCheckoutNotStarted
	}
	return controller, nil
}

// End discards the controller for a cart, on completion or abandonment.
func (m *Manager) End(cartID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, cartID)
}
