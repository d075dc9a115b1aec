package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

// Service orchestrates cart aggregate use cases on top of the snapshot
// store. Every mutation loads the snapshot, applies the change through the
// aggregate (which recomputes totals), and persists before returning, so
// the derived-totals invariant holds at every observation point.
type Service struct {
	snapshots ports.SnapshotStore
	promos    ports.PromoValidator
	notifier  ports.Notifier
	now       func() time.Time
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithNotifier injects the user-facing notification sink.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the added-at timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(snapshots ports.SnapshotStore, promos ports.PromoValidator, opts ...Option) *Service {
	s := &Service{
		snapshots: snapshots,
		promos:    promos,
		notifier:  ports.NoopNotifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get loads the cart for the given id, returning an empty cart when none
// has been persisted yet.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.load(ctx, cartID)
}

// AddItem attaches a frozen tier snapshot to the cart, deduplicating on the
// (beat, tier) pair by incrementing quantity.
func (s *Service) AddItem(ctx context.Context, cartID string, beat domain.BeatRef, tier domain.PricingTier) (*domain.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	item, added, err := cart.AddItem(beat, tier, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cartID, cart); err != nil {
		return nil, err
	}
	if added {
		s.notifier.ItemAdded(ctx, item)
	} else {
		s.notifier.QuantityIncreased(ctx, item)
	}
	return cart, nil
}

// RemoveItem deletes a line item; removing an absent item is a no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	removed, ok := cart.RemoveItem(itemID)
	if err := s.persist(ctx, cartID, cart); err != nil {
		return nil, err
	}
	if ok {
		s.notifier.ItemRemoved(ctx, removed)
	}
	return cart, nil
}

// UpdateQuantity sets a line item quantity; values below 1 remove the item.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, cartID, itemID)
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.UpdateQuantity(itemID, quantity)
	if err := s.persist(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart and persists the empty state.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return err
	}
	cart.Clear()
	return s.persist(ctx, cartID, cart)
}

// ItemCount sums line item quantities for badge displays.
func (s *Service) ItemCount(ctx context.Context, cartID string) (int, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// ApplyPromoCode consults the promo validation port. On acceptance the
// normalized code and discount are applied and persisted. On rejection or
// transport failure the prior state is left untouched and the error is
// returned unchanged so callers can tell the two apart.
func (s *Service) ApplyPromoCode(ctx context.Context, cartID, code string) (*domain.Cart, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrEmptyPromoCode
	}
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	discount, err := s.promos.Validate(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrPromoRejected) {
			s.notifier.PromoRejected(ctx, code)
		}
		return nil, err
	}
	if err := cart.ApplyPromo(code, discount); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, cartID, cart); err != nil {
		return nil, err
	}
	s.notifier.PromoApplied(ctx, cart.PromoCode, discount)
	return cart, nil
}

// RemovePromoCode clears the active code and restores undiscounted totals.
func (s *Service) RemovePromoCode(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.RemovePromo()
	if err := s.persist(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) load(ctx context.Context, cartID string) (*domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, errors.New("cart id is empty")
	}
	snap, err := s.snapshots.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, ports.ErrCartNotFound) {
			return domain.NewCart(), nil
		}
		return nil, err
	}
	return domain.FromSnapshot(snap), nil
}

func (s *Service) persist(ctx context.Context, cartID string, cart *domain.Cart) error {
	return s.snapshots.Save(ctx, cartID, cart.Snapshot())
}

var _ ports.Service = (*Service)(nil)
