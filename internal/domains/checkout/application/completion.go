package application

import (
	"context"
	"log/slog"
	"strings"

	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

// CompletionService is the stateless view reached after the external
// payment redirect returns. It verifies the session id once per request and
// clears the cart exactly once per verified session.
type CompletionService struct {
	carts     cartports.Service
	verifier  ports.OrderVerifier
	processed ports.ProcessedSessions
	logger    *slog.Logger
}

func NewCompletionService(carts cartports.Service, verifier ports.OrderVerifier, processed ports.ProcessedSessions, logger *slog.Logger) *CompletionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionService{
		carts:     carts,
		verifier:  verifier,
		processed: processed,
		logger:    logger,
	}
}

// Complete verifies the payment session and, on the first successful
// verification of a given session id, clears the cart. A missing session id
// fails immediately without any network call; a verification failure is
// terminal for this attempt and leaves the cart untouched.
func (s *CompletionService) Complete(ctx context.Context, cartID, sessionID string) (*domain.OrderSummary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ports.ErrMissingSessionID
	}
	summary, err := s.verifier.Verify(ctx, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "order verification failed",
			slog.String("cart.id", cartID), slog.String("error", err.Error()))
		return nil, err
	}
	first, err := s.processed.MarkProcessed(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if first {
		if err := s.carts.Clear(ctx, cartID); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "order verified, cart cleared",
			slog.String("cart.id", cartID), slog.String("order.id", summary.ID))
	}
	return summary, nil
}
