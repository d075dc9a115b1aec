package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatforge/beatstore-api/internal/clients/http/catalog"
	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

// CartAPI wires HTTP transport with the cart bounded context service and
// the catalog read client.
type CartAPI struct {
	service cartports.Service
	catalog *catalog.Client
}

// NewCartAPI creates a CartAPI backed by the provided collaborators.
func NewCartAPI(service cartports.Service, catalogClient *catalog.Client) CartAPI {
	return CartAPI{service: service, catalog: catalogClient}
}

// Get /v2/cart
// Current cart snapshot with derived totals
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.Get(c.Request.Context(), cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

type addItemRequest struct {
	BeatID string `json:"beatId" binding:"required"`
	Tier   string `json:"tier" binding:"required"`
}

// Post /v2/cart/items
// Resolve a (beat, tier) pair against the catalog and add it to the cart
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload addItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	beat, tier, err := api.catalog.ResolveTier(c.Request.Context(), payload.BeatID, payload.Tier)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cart, err := api.service.AddItem(c.Request.Context(), cartID(c), beat, tier)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Patch /v2/cart/items/:itemId
// Set a line item quantity; quantities below 1 remove the item
func (api *CartAPI) UpdateQuantity(c *gin.Context) {
	var payload updateQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	cart, err := api.service.UpdateQuantity(c.Request.Context(), cartID(c), c.Param("itemId"), payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /v2/cart/items/:itemId
// Remove a line item; removing an absent item is a no-op
func (api *CartAPI) RemoveItem(c *gin.Context) {
	cart, err := api.service.RemoveItem(c.Request.Context(), cartID(c), c.Param("itemId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /v2/cart
// Empty the cart and drop the promo code
func (api *CartAPI) ClearCart(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context(), cartID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get /v2/cart/count
// Sum of line item quantities, used for badge displays
func (api *CartAPI) GetItemCount(c *gin.Context) {
	count, err := api.service.ItemCount(c.Request.Context(), cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type promoRequest struct {
	Code string `json:"code" binding:"required"`
}

// Post /v2/cart/promo
// Validate and apply a promo code
func (api *CartAPI) ApplyPromoCode(c *gin.Context) {
	var payload promoRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	cart, err := api.service.ApplyPromoCode(c.Request.Context(), cartID(c), payload.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}

// Delete /v2/cart/promo
// Remove the active promo code and restore undiscounted totals
func (api *CartAPI) RemovePromoCode(c *gin.Context) {
	cart, err := api.service.RemovePromoCode(c.Request.Context(), cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromCart(cart))
}
