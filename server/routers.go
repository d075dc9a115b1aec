// Package storeserver wires the storefront HTTP transport: cart and
// checkout endpoints over gin.
package storeserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartIDHeader carries the client's durable cart slot identifier. The
// server issues a fresh id when the header is absent and echoes it back so
// the client can persist it.
const CartIDHeader = "X-Cart-ID"

// ApiHandleFunctions groups the API controllers mounted by the router.
type ApiHandleFunctions struct {
	CartAPI     CartAPI
	CheckoutAPI CheckoutAPI
}

// Route defines the parameters for one endpoint.
type Route struct {
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a gin router with all storefront routes attached.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine attaches the storefront routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(ensureCartID())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandler
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{http.MethodGet, "/v2/cart", handleFunctions.CartAPI.GetCart},
		{http.MethodPost, "/v2/cart/items", handleFunctions.CartAPI.AddItem},
		{http.MethodPatch, "/v2/cart/items/:itemId", handleFunctions.CartAPI.UpdateQuantity},
		{http.MethodDelete, "/v2/cart/items/:itemId", handleFunctions.CartAPI.RemoveItem},
		{http.MethodDelete, "/v2/cart", handleFunctions.CartAPI.ClearCart},
		{http.MethodGet, "/v2/cart/count", handleFunctions.CartAPI.GetItemCount},
		{http.MethodPost, "/v2/cart/promo", handleFunctions.CartAPI.ApplyPromoCode},
		{http.MethodDelete, "/v2/cart/promo", handleFunctions.CartAPI.RemovePromoCode},
		{http.MethodPost, "/v2/checkout", handleFunctions.CheckoutAPI.BeginCheckout},
		{http.MethodGet, "/v2/checkout", handleFunctions.CheckoutAPI.GetCheckout},
		{http.MethodPost, "/v2/checkout/next", handleFunctions.CheckoutAPI.NextStep},
		{http.MethodPost, "/v2/checkout/back", handleFunctions.CheckoutAPI.PreviousStep},
		{http.MethodPost, "/v2/checkout/submit", handleFunctions.CheckoutAPI.Submit},
		{http.MethodGet, "/v2/checkout/success", handleFunctions.CheckoutAPI.CompleteCheckout},
	}
}

func defaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "not implemented"})
}

// ensureCartID assigns a cart id to requests that arrive without one and
// echoes the effective id on every response.
func ensureCartID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(CartIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(cartIDKey, id)
		c.Header(CartIDHeader, id)
		c.Next()
	}
}

const cartIDKey = "storeserver.cartID"

func cartID(c *gin.Context) string {
	return c.GetString(cartIDKey)
}
