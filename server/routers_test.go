package storeserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/beatforge/beatstore-api/internal/domains/cart/application"
)

func newCartOnlyEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := cartapp.NewService(cartmemory.NewSnapshotStore(), cartmemory.NewPromoValidator())
	engine := gin.New()
	return NewRouterWithGinEngine(engine, ApiHandleFunctions{
		CartAPI: NewCartAPI(service, nil),
	})
}

// Gin compiles the middleware chain into each handler at registration, so
// engine middleware has to attach before NewRouterWithGinEngine.
func TestRouter_MiddlewareAttachedBeforeRoutesRuns(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := cartapp.NewService(cartmemory.NewSnapshotStore(), cartmemory.NewPromoValidator())
	engine := gin.New()
	var sawRequest bool
	engine.Use(func(c *gin.Context) {
		sawRequest = true
		c.Next()
	})
	router := NewRouterWithGinEngine(engine, ApiHandleFunctions{
		CartAPI: NewCartAPI(service, nil),
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v2/cart", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, sawRequest)
}

func TestRouter_IssuesCartIDWhenAbsent(t *testing.T) {
	router := newCartOnlyEngine(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v2/cart", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get(CartIDHeader))
}
