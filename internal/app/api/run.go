package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storeserver "github.com/beatforge/beatstore-api/server"

	"github.com/beatforge/beatstore-api/internal/clients/http/catalog"
	"github.com/beatforge/beatstore-api/internal/clients/http/payments"
	"github.com/beatforge/beatstore-api/internal/clients/http/promo"
	cartmemory "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/memory"
	cartnotification "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/notification"
	cartobs "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/beatforge/beatstore-api/internal/domains/cart/application"
	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
	checkoutmemory "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/memory"
	checkoutpostgres "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/beatforge/beatstore-api/internal/domains/checkout/application"
	checkoutports "github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
	platformobservability "github.com/beatforge/beatstore-api/internal/platform/observability"
	platformpostgres "github.com/beatforge/beatstore-api/internal/platform/postgres"
)

// Run boots the cart and checkout HTTP API with observability, stores, and
// workflow orchestration wired.
func Run(ctx context.Context) error {
	const serviceName = "beatstore-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()

	var snapshots cartports.SnapshotStore
	var processed checkoutports.ProcessedSessions
	if db != nil {
		snapshots = cartpostgres.NewSnapshotStore(db)
		processed = checkoutpostgres.NewProcessedSessions(db)
		logger.Info("cart snapshots configured with postgres")
	} else {
		snapshots = cartmemory.NewSnapshotStore()
		processed = checkoutmemory.NewProcessedSessions()
	}

	promoValidator, err := buildPromoValidator(cfg, logger)
	if err != nil {
		return err
	}

	coreCartService := cartapp.NewService(snapshots, promoValidator,
		cartapp.WithNotifier(cartnotification.NewSlogNotifier(logger)),
	)
	cartService := cartobs.New(
		coreCartService,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog client: %w", err)
	}
	paymentsClient, err := payments.NewClient(cfg.PaymentsBaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build payments client: %w", err)
	}

	var orchestrator checkoutports.SubmitOrchestrator = checkoutworkflows.NewInlineSubmitOrchestrator(paymentsClient)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating payment sessions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = checkoutworkflows.NewTemporalSubmitOrchestrator(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	checkoutManager := checkoutapp.NewManager(cartService, orchestrator, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, logger)
	completion := checkoutapp.NewCompletionService(cartService, paymentsClient, processed, logger)

	handlers := storeserver.ApiHandleFunctions{
		CartAPI:     storeserver.NewCartAPI(cartService, catalogClient),
		CheckoutAPI: storeserver.NewCheckoutAPI(checkoutManager, completion),
	}

	// Middleware attaches before route registration so gin compiles it into
	// every handler chain.
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := storeserver.NewRouterWithGinEngine(engine, handlers)
	addr := ":" + cfg.Port
	logger.Info("beatstore API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("beatstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildPromoValidator(cfg Config, logger *slog.Logger) (cartports.PromoValidator, error) {
	if cfg.PromoBaseURL == "" {
		logger.Warn("PROMO_API_BASE_URL not set, validating promo codes against the built-in table")
		return cartmemory.NewPromoValidator(), nil
	}
	validator, err := promo.NewClient(cfg.PromoBaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build promo client: %w", err)
	}
	return validator, nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
