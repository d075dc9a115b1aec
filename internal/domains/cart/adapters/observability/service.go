package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

const tracerName = "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/observability/service"

// Service decorates the cart application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core cart service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Get loads a cart with derived totals.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.String("cart.id", cartID))
	defer span.End()

	cart, err := s.inner.Get(ctx, cartID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("cart.id", cartID))
	}
	span.SetAttributes(attribute.Int("cart.items", len(cart.Items)))
	return cart, nil
}

// AddItem records the add-to-cart mutation.
func (s *Service) AddItem(ctx context.Context, cartID string, beat domain.BeatRef, tier domain.PricingTier) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.AddItem",
		attribute.String("cart.id", cartID),
		attribute.String("beat.id", beat.ID),
		attribute.String("tier.label", tier.Tier),
	)
	defer span.End()

	s.logInfo(ctx, "adding item to cart", slog.String("cart.id", cartID), slog.String("beat.id", beat.ID), slog.String("tier", tier.Tier))
	cart, err := s.inner.AddItem(ctx, cartID, beat, tier)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add item", slog.String("cart.id", cartID), slog.String("beat.id", beat.ID))
	}
	s.metrics.recordItemAdded(ctx, tier.Tier)
	s.logInfo(ctx, "item added", slog.String("cart.id", cartID), slog.Float64("cart.total", cart.Totals.Total))
	return cart, nil
}

// RemoveItem records the removal mutation.
func (s *Service) RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.RemoveItem",
		attribute.String("cart.id", cartID),
		attribute.String("cart.item.id", itemID),
	)
	defer span.End()

	cart, err := s.inner.RemoveItem(ctx, cartID, itemID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove item", slog.String("cart.id", cartID), slog.String("item.id", itemID))
	}
	s.metrics.recordItemRemoved(ctx)
	s.logInfo(ctx, "item removed", slog.String("cart.id", cartID), slog.String("item.id", itemID))
	return cart, nil
}

// UpdateQuantity records quantity changes.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateQuantity",
		attribute.String("cart.id", cartID),
		attribute.String("cart.item.id", itemID),
		attribute.Int("cart.item.quantity", quantity),
	)
	defer span.End()

	cart, err := s.inner.UpdateQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update quantity", slog.String("cart.id", cartID), slog.String("item.id", itemID))
	}
	s.logInfo(ctx, "quantity updated", slog.String("cart.id", cartID), slog.String("item.id", itemID), slog.Int("quantity", quantity))
	return cart, nil
}

// Clear records the cart reset.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	ctx, span := s.startSpan(ctx, "Service.Clear", attribute.String("cart.id", cartID))
	defer span.End()

	if err := s.inner.Clear(ctx, cartID); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("cart.id", cartID))
	}
	s.metrics.recordCleared(ctx)
	s.logInfo(ctx, "cart cleared", slog.String("cart.id", cartID))
	return nil
}

// ItemCount reads the badge count.
func (s *Service) ItemCount(ctx context.Context, cartID string) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.ItemCount", attribute.String("cart.id", cartID))
	defer span.End()

	count, err := s.inner.ItemCount(ctx, cartID)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count items", slog.String("cart.id", cartID))
	}
	span.SetAttributes(attribute.Int("cart.item.count", count))
	return count, nil
}

// ApplyPromoCode records the promo application attempt.
func (s *Service) ApplyPromoCode(ctx context.Context, cartID, code string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.ApplyPromoCode", attribute.String("cart.id", cartID))
	defer span.End()

	s.logInfo(ctx, "applying promo code", slog.String("cart.id", cartID))
	cart, err := s.inner.ApplyPromoCode(ctx, cartID, code)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to apply promo code", slog.String("cart.id", cartID))
	}
	s.metrics.recordPromoApplied(ctx)
	s.logInfo(ctx, "promo code applied", slog.String("cart.id", cartID), slog.Float64("discount.percent", cart.DiscountPercent))
	return cart, nil
}

// RemovePromoCode records the promo removal.
func (s *Service) RemovePromoCode(ctx context.Context, cartID string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Service.RemovePromoCode", attribute.String("cart.id", cartID))
	defer span.End()

	cart, err := s.inner.RemovePromoCode(ctx, cartID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove promo code", slog.String("cart.id", cartID))
	}
	s.logInfo(ctx, "promo code removed", slog.String("cart.id", cartID))
	return cart, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	itemsAdded    metric.Int64Counter
	itemsRemoved  metric.Int64Counter
	cartsCleared  metric.Int64Counter
	promosApplied metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Number of line items added"))
	itemsRemoved, _ := m.Int64Counter("cart.service.items_removed", metric.WithDescription("Number of line items removed"))
	cartsCleared, _ := m.Int64Counter("cart.service.cleared", metric.WithDescription("Number of carts cleared"))
	promosApplied, _ := m.Int64Counter("cart.service.promos_applied", metric.WithDescription("Number of promo codes applied"))
	return serviceMetrics{
		itemsAdded:    itemsAdded,
		itemsRemoved:  itemsRemoved,
		cartsCleared:  cartsCleared,
		promosApplied: promosApplied,
	}
}

func (m serviceMetrics) recordItemAdded(ctx context.Context, tier string) {
	addCounter(ctx, m.itemsAdded, 1, attribute.String("tier.label", tier))
}

func (m serviceMetrics) recordItemRemoved(ctx context.Context) {
	addCounter(ctx, m.itemsRemoved, 1)
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	addCounter(ctx, m.cartsCleared, 1)
}

func (m serviceMetrics) recordPromoApplied(ctx context.Context) {
	addCounter(ctx, m.promosApplied, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
