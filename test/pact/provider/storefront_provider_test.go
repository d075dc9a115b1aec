//go:build pact
// +build pact

package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/beatforge/beatstore-api/test/pact"

	"github.com/beatforge/beatstore-api/internal/clients/http/catalog"
	cartmemory "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/observability"
	cartapp "github.com/beatforge/beatstore-api/internal/domains/cart/application"
	checkoutmemory "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/memory"
	checkoutworkflows "github.com/beatforge/beatstore-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/beatforge/beatstore-api/internal/domains/checkout/application"
	checkoutdomain "github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	checkoutports "github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
	storeserver "github.com/beatforge/beatstore-api/server"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	resetState := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.resetCart(t)
		return nil, nil
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCartEmpty:     resetState,
		pacttest.StateBeatAvailable: resetState,
		pacttest.StatePromoAccepted: resetState,
		pacttest.StatePromoRejected: resetState,
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetCart(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	snapshots *cartmemory.SnapshotStore
	server    *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	catalogStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/beats/"+pacttest.ExampleBeatID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pacttest.ExampleBeatPayload())
	}))
	t.Cleanup(catalogStub.Close)

	catalogClient, err := catalog.NewClient(catalogStub.URL, nil)
	require.NoError(t, err)

	snapshots := cartmemory.NewSnapshotStore()
	cartService := cartobs.New(cartapp.NewService(snapshots, cartmemory.NewPromoValidator()))

	orchestrator := checkoutworkflows.NewInlineSubmitOrchestrator(stubGateway{})
	manager := checkoutapp.NewManager(cartService, orchestrator, "http://storefront.test/success", "http://storefront.test/cancel", nil)
	completion := checkoutapp.NewCompletionService(cartService, stubVerifier{}, checkoutmemory.NewProcessedSessions(), nil)

	handlers := storeserver.ApiHandleFunctions{
		CartAPI:     storeserver.NewCartAPI(cartService, catalogClient),
		CheckoutAPI: storeserver.NewCheckoutAPI(manager, completion),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = storeserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		snapshots: snapshots,
		server:    server,
	}
}

func (a *contractProviderApp) resetCart(t testing.TB) {
	t.Helper()
	require.NoError(t, a.snapshots.Delete(context.Background(), pacttest.ExampleCartID))
}

type stubGateway struct{}

func (stubGateway) CreateSession(context.Context, checkoutports.CreateSessionRequest) (checkoutports.CheckoutSession, error) {
	return checkoutports.CheckoutSession{URL: "http://payments.test/session"}, nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(context.Context, string) (*checkoutdomain.OrderSummary, error) {
	return nil, checkoutports.ErrVerificationFailed
}
