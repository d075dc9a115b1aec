package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/memory"
	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var testBeat = domain.BeatRef{ID: "beat-001", Name: "Midnight Drive"}

var mp3Lease = domain.PricingTier{Tier: "MP3 Lease", LicenseType: "MP3 Lease", Price: 25}

type recordingNotifier struct {
	added    []domain.LineItem
	bumped   []domain.LineItem
	removed  []domain.LineItem
	applied  []string
	rejected []string
}

func (n *recordingNotifier) ItemAdded(_ context.Context, item domain.LineItem) {
	n.added = append(n.added, item)
}

func (n *recordingNotifier) QuantityIncreased(_ context.Context, item domain.LineItem) {
	n.bumped = append(n.bumped, item)
}

func (n *recordingNotifier) ItemRemoved(_ context.Context, item domain.LineItem) {
	n.removed = append(n.removed, item)
}

func (n *recordingNotifier) PromoApplied(_ context.Context, code string, _ float64) {
	n.applied = append(n.applied, code)
}

func (n *recordingNotifier) PromoRejected(_ context.Context, code string) {
	n.rejected = append(n.rejected, code)
}

type failingPromoValidator struct {
	err error
}

func (v failingPromoValidator) Validate(context.Context, string) (float64, error) {
	return 0, v.err
}

func newTestService(opts ...Option) (*Service, *cartmemory.SnapshotStore) {
	store := cartmemory.NewSnapshotStore()
	return NewService(store, cartmemory.NewPromoValidator(), opts...), store
}

func TestGet_UnknownCartIsEmpty(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.Get(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Zero(t, cart.Totals.Total)
}

func TestAddItem_PersistsAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	added := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(
		WithNotifier(notifier),
		WithClock(func() time.Time { return added }),
	)

	cart, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)
	require.InDelta(t, 27.5, cart.Totals.Total, 1e-9)
	require.Len(t, notifier.added, 1)
	require.Equal(t, added, notifier.added[0].AddedAt)

	snap, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)

	cart, err = svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)
	require.Equal(t, 2, cart.ItemCount())
	require.Len(t, notifier.added, 1)
	require.Len(t, notifier.bumped, 1)
}

func TestAddItem_InvalidTierLeavesStoreUntouched(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, domain.PricingTier{Price: 10})
	require.ErrorIs(t, err, domain.ErrEmptyTierLabel)

	_, err = store.Load(context.Background(), "cart-1")
	require.ErrorIs(t, err, ports.ErrCartNotFound)
}

func TestRemoveItem_AbsentIsNoop(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(WithNotifier(notifier))

	cart, err := svc.RemoveItem(context.Background(), "cart-1", "missing")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Empty(t, notifier.removed)
}

func TestUpdateQuantity_ZeroRemovesAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(WithNotifier(notifier))

	added, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	cart, err := svc.UpdateQuantity(context.Background(), "cart-1", itemID, 0)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())
	require.Len(t, notifier.removed, 1)
}

func TestApplyPromoCode_AcceptedAndPersisted(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(WithNotifier(notifier))

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)

	cart, err := svc.ApplyPromoCode(context.Background(), "cart-1", "save10")
	require.NoError(t, err)
	require.Equal(t, "SAVE10", cart.PromoCode)
	require.InDelta(t, 10.0, cart.DiscountPercent, 1e-9)
	require.Equal(t, []string{"SAVE10"}, notifier.applied)

	snap, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Equal(t, "SAVE10", snap.PromoCode)
}

func TestApplyPromoCode_RejectedLeavesStateUntouched(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newTestService(WithNotifier(notifier))

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)

	_, err = svc.ApplyPromoCode(context.Background(), "cart-1", "BOGUS")
	require.ErrorIs(t, err, ports.ErrPromoRejected)
	require.Equal(t, []string{"BOGUS"}, notifier.rejected)

	snap, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Empty(t, snap.PromoCode)
	require.Zero(t, snap.DiscountPercent)
}

func TestApplyPromoCode_UnavailableIsDistinguishable(t *testing.T) {
	notifier := &recordingNotifier{}
	store := cartmemory.NewSnapshotStore()
	svc := NewService(store, failingPromoValidator{err: ports.ErrPromoUnavailable}, WithNotifier(notifier))

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)

	_, err = svc.ApplyPromoCode(context.Background(), "cart-1", "SAVE10")
	require.ErrorIs(t, err, ports.ErrPromoUnavailable)
	require.NotErrorIs(t, err, ports.ErrPromoRejected)
	require.Empty(t, notifier.rejected)
}

func TestApplyPromoCode_BlankCode(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ApplyPromoCode(context.Background(), "cart-1", "   ")
	require.ErrorIs(t, err, domain.ErrEmptyPromoCode)
}

func TestRemovePromoCode_RestoresTotals(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)
	_, err = svc.ApplyPromoCode(context.Background(), "cart-1", "SAVE10")
	require.NoError(t, err)

	cart, err := svc.RemovePromoCode(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Empty(t, cart.PromoCode)
	require.InDelta(t, 27.5, cart.Totals.Total, 1e-9)
}

func TestClearAndItemCount(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "cart-1", testBeat, mp3Lease)
	require.NoError(t, err)

	count, err := svc.ItemCount(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, svc.Clear(context.Background(), "cart-1"))
	count, err = svc.ItemCount(context.Background(), "cart-1")
	require.NoError(t, err)
	require.Zero(t, count)
}
