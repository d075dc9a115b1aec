package ports

import (
	"context"
	"errors"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	// ErrPromoRejected means the backend looked at the code and said no.
	ErrPromoRejected = errors.New("promo code rejected")
	// ErrPromoUnavailable means the validation backend could not be reached
	// or answered with a transport-level failure. Kept distinct from
	// ErrPromoRejected so callers can tell the two apart.
	ErrPromoUnavailable = errors.New("promo validation unavailable")
)

// SnapshotStore abstracts durable cart persistence keyed by cart id.
// Loading an unknown cart returns ErrCartNotFound.
type SnapshotStore interface {
	Load(ctx context.Context, cartID string) (domain.Snapshot, error)
	Save(ctx context.Context, cartID string, snap domain.Snapshot) error
	Delete(ctx context.Context, cartID string) error
}

// PromoValidator is the outbound port consulted to accept or reject a promo
// code. On acceptance it returns the discount percentage (0-100); rejection
// surfaces ErrPromoRejected, transport trouble ErrPromoUnavailable.
type PromoValidator interface {
	Validate(ctx context.Context, code string) (float64, error)
}

// Notifier receives user-facing cart events. Implementations must not fail
// the triggering mutation.
type Notifier interface {
	ItemAdded(ctx context.Context, item domain.LineItem)
	QuantityIncreased(ctx context.Context, item domain.LineItem)
	ItemRemoved(ctx context.Context, item domain.LineItem)
	PromoApplied(ctx context.Context, code string, discountPercent float64)
	PromoRejected(ctx context.Context, code string)
}

// NoopNotifier is a safe default when callers do not need notifications.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) ItemAdded(context.Context, domain.LineItem)         {}
func (noopNotifier) QuantityIncreased(context.Context, domain.LineItem) {}
func (noopNotifier) ItemRemoved(context.Context, domain.LineItem)       {}
func (noopNotifier) PromoApplied(context.Context, string, float64)      {}
func (noopNotifier) PromoRejected(context.Context, string)              {}

// Service exposes the cart aggregate use cases to adapters.
type Service interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, beat domain.BeatRef, tier domain.PricingTier) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
	ItemCount(ctx context.Context, cartID string) (int, error)
	ApplyPromoCode(ctx context.Context, cartID, code string) (*domain.Cart, error)
	RemovePromoCode(ctx context.Context, cartID string) (*domain.Cart, error)
}
