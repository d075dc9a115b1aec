package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	checkoutmemory "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/memory"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

type scriptedVerifier struct {
	mu      sync.Mutex
	calls   int
	summary *domain.OrderSummary
	err     error
}

func (v *scriptedVerifier) Verify(context.Context, string) (*domain.OrderSummary, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.summary, nil
}

func (v *scriptedVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func exampleSummary() *domain.OrderSummary {
	return &domain.OrderSummary{ID: "order-77", Total: 49.5, ItemCount: 2, Email: "listener@example.com"}
}

func TestComplete_MissingSessionID(t *testing.T) {
	verifier := &scriptedVerifier{summary: exampleSummary()}
	svc := NewCompletionService(newCartWithItem(t), verifier, checkoutmemory.NewProcessedSessions(), nil)

	_, err := svc.Complete(context.Background(), testCartID, "   ")
	require.ErrorIs(t, err, ports.ErrMissingSessionID)
	require.Zero(t, verifier.callCount())
}

func TestComplete_VerificationFailureLeavesCart(t *testing.T) {
	carts := newCartWithItem(t)
	verifier := &scriptedVerifier{err: ports.ErrVerificationFailed}
	svc := NewCompletionService(carts, verifier, checkoutmemory.NewProcessedSessions(), nil)

	_, err := svc.Complete(context.Background(), testCartID, "cs_123")
	require.ErrorIs(t, err, ports.ErrVerificationFailed)

	count, err := carts.ItemCount(context.Background(), testCartID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestComplete_ClearsCartOnce(t *testing.T) {
	carts := newCartWithItem(t)
	verifier := &scriptedVerifier{summary: exampleSummary()}
	svc := NewCompletionService(carts, verifier, checkoutmemory.NewProcessedSessions(), nil)

	summary, err := svc.Complete(context.Background(), testCartID, "cs_123")
	require.NoError(t, err)
	require.Equal(t, "order-77", summary.ID)

	count, err := carts.ItemCount(context.Background(), testCartID)
	require.NoError(t, err)
	require.Zero(t, count)

	// Replaying the success URL re-verifies but must not clear again.
	beat, tier := testBeatAndTier()
	_, err = carts.AddItem(context.Background(), testCartID, beat, tier)
	require.NoError(t, err)

	summary, err = svc.Complete(context.Background(), testCartID, "cs_123")
	require.NoError(t, err)
	require.Equal(t, "order-77", summary.ID)
	require.Equal(t, 2, verifier.callCount())

	count, err = carts.ItemCount(context.Background(), testCartID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
