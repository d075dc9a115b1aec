package notification

import (
	"context"
	"log/slog"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var _ ports.Notifier = (*SlogNotifier)(nil)

// SlogNotifier emits the storefront's user-facing cart events as structured
// log records. The web frontend renders these same events as toasts; the
// service keeps them observable on the backend.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) ItemAdded(ctx context.Context, item domain.LineItem) {
	n.logger.InfoContext(ctx, "added to cart",
		slog.String("beat", item.Beat.Name),
		slog.String("tier", tierLabel(item.Tier)),
	)
}

func (n *SlogNotifier) QuantityIncreased(ctx context.Context, item domain.LineItem) {
	n.logger.InfoContext(ctx, "cart updated, quantity increased",
		slog.String("beat", item.Beat.Name),
		slog.Int("quantity", item.Quantity),
	)
}

func (n *SlogNotifier) ItemRemoved(ctx context.Context, item domain.LineItem) {
	n.logger.InfoContext(ctx, "removed from cart", slog.String("beat", item.Beat.Name))
}

func (n *SlogNotifier) PromoApplied(ctx context.Context, code string, discountPercent float64) {
	n.logger.InfoContext(ctx, "promo code applied",
		slog.String("code", code),
		slog.Float64("discount_percent", discountPercent),
	)
}

func (n *SlogNotifier) PromoRejected(ctx context.Context, code string) {
	n.logger.InfoContext(ctx, "invalid promo code", slog.String("code", code))
}

// tierLabel prefers the license type for display, as the storefront does.
func tierLabel(tier domain.PricingTier) string {
	if tier.LicenseType != "" {
		return tier.LicenseType
	}
	return tier.Tier
}
