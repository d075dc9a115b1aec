package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/beatforge/beatstore-api/internal/domains/checkout/application"
	checkoutdomain "github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
)

// CheckoutAPI wires HTTP transport with the checkout workflow and the
// post-payment completion view.
type CheckoutAPI struct {
	manager    *checkoutapp.Manager
	completion *checkoutapp.CompletionService
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided services.
func NewCheckoutAPI(manager *checkoutapp.Manager, completion *checkoutapp.CompletionService) CheckoutAPI {
	return CheckoutAPI{manager: manager, completion: completion}
}

type checkoutResponse struct {
	State string               `json:"state"`
	Draft checkoutdomain.Draft `json:"draft"`
}

// Post /v2/checkout
// Begin checkout for the current cart; an empty cart never enters the flow
func (api *CheckoutAPI) BeginCheckout(c *gin.Context) {
	controller, err := api.manager.Begin(c.Request.Context(), cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{State: controller.State().String(), Draft: controller.Draft()})
}

// Get /v2/checkout
// Current workflow state and draft echo
func (api *CheckoutAPI) GetCheckout(c *gin.Context) {
	controller, err := api.manager.Get(cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{State: controller.State().String(), Draft: controller.Draft()})
}

// Post /v2/checkout/next
// Update the draft with step-local form data and advance one step
func (api *CheckoutAPI) NextStep(c *gin.Context) {
	controller, err := api.manager.Get(cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var draft checkoutdomain.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := controller.UpdateDraft(draft); err != nil {
		respondServiceError(c, err)
		return
	}
	state, err := controller.Next()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{State: state.String(), Draft: controller.Draft()})
}

// Post /v2/checkout/back
// Step back to the immediately preceding step
func (api *CheckoutAPI) PreviousStep(c *gin.Context) {
	controller, err := api.manager.Get(cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	state, err := controller.Back()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{State: state.String(), Draft: controller.Draft()})
}

type submitResponse struct {
	URL string `json:"url"`
}

// Post /v2/checkout/submit
// Run the Review guard and create the hosted payment session
func (api *CheckoutAPI) Submit(c *gin.Context) {
	controller, err := api.manager.Get(cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	url, err := controller.Submit(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{URL: url})
}

// Get /v2/checkout/success
// Post-payment completion: verify the session, clear the cart once
func (api *CheckoutAPI) CompleteCheckout(c *gin.Context) {
	id := cartID(c)
	summary, err := api.completion.Complete(c.Request.Context(), id, c.Query("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.manager.End(id)
	c.JSON(http.StatusOK, gin.H{"order": summary})
}
