// Package promo talks to the promo validation backend. The storefront once
// shipped with an inline code table; this client replaces it with the real
// port call.
package promo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var _ ports.PromoValidator = (*Client)(nil)

// Client validates promo codes against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the promo client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("promo base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Accepted        bool    `json:"accepted"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Validate asks the backend to accept or reject a code. Rejection returns
// ErrPromoRejected; transport trouble or a non-2xx answer returns an error
// wrapping ErrPromoUnavailable so callers can distinguish the two.
func (c *Client) Validate(ctx context.Context, code string) (float64, error) {
	body, err := json.Marshal(validateRequest{Code: code})
	if err != nil {
		return 0, err
	}
	endpoint := c.baseURL + "/api/promo/validate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrPromoUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: unexpected status %s", ports.ErrPromoUnavailable, resp.Status)
	}
	var payload validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ports.ErrPromoUnavailable, err)
	}
	if !payload.Accepted {
		return 0, ports.ErrPromoRejected
	}
	return payload.DiscountPercent, nil
}
