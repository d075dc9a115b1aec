package storeserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatforge/beatstore-api/internal/clients/http/catalog"
	cartdomain "github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	cartports "github.com/beatforge/beatstore-api/internal/domains/cart/ports"
	checkoutdomain "github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	checkoutports "github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
	apierrors "github.com/beatforge/beatstore-api/internal/shared/errors"
)

// respondServiceError maps domain and port errors onto RFC 7807 problems.
func respondServiceError(c *gin.Context, err error) {
	var validation *checkoutdomain.ValidationError
	switch {
	case errors.As(err, &validation):
		apierrors.DefaultResponder.ValidationFailed(c, validation.Fields)
	case errors.Is(err, checkoutdomain.ErrTermsNotAccepted):
		apierrors.DefaultResponder.ValidationFailed(c, map[string]string{
			"agreeToTerms": "You must agree to the terms and conditions",
		})
	case errors.Is(err, checkoutports.ErrEmptyCart),
		errors.Is(err, checkoutports.ErrCheckoutNotStarted),
		errors.Is(err, checkoutports.ErrSubmitInFlight),
		errors.Is(err, checkoutdomain.ErrInvalidTransition):
		apierrors.Respond(c, apierrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, checkoutports.ErrMissingSessionID):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, cartports.ErrPromoRejected):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("The code you entered is not valid"))
	case errors.Is(err, cartports.ErrPromoUnavailable),
		errors.Is(err, checkoutports.ErrGatewayFailure),
		errors.Is(err, checkoutports.ErrVerificationFailed):
		apierrors.Respond(c, apierrors.ErrUpstream.WithDetail(err.Error()))
	case errors.Is(err, catalog.ErrBeatNotFound):
		apierrors.Respond(c, apierrors.NewNotFoundProblem("beat", ""))
	case errors.Is(err, catalog.ErrTierNotFound):
		apierrors.Respond(c, apierrors.NewNotFoundProblem("pricing tier", ""))
	case errors.Is(err, cartdomain.ErrEmptyBeatID),
		errors.Is(err, cartdomain.ErrEmptyTierLabel),
		errors.Is(err, cartdomain.ErrNegativePrice),
		errors.Is(err, cartdomain.ErrInvalidDiscount),
		errors.Is(err, cartdomain.ErrEmptyPromoCode):
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, err)
	}
}

// respondError preserves simple status-driven call sites while returning
// RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	apierrors.Respond(c, problem)
}
