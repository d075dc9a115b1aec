// Package payments wraps the hosted payment backend: session creation
// before the external redirect, and order verification after it.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/domain"
	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

var (
	_ ports.PaymentGateway = (*Client)(nil)
	_ ports.OrderVerifier  = (*Client)(nil)
)

// Client calls the payments API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the payments client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("payments base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type sessionResponse struct {
	URL string `json:"url"`
}

// CreateSession posts the line-item summary and customer email, returning
// the hosted payment page URL. A non-2xx answer or a missing URL is a
// gateway failure.
func (c *Client) CreateSession(ctx context.Context, req ports.CreateSessionRequest) (ports.CheckoutSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	endpoint := c.baseURL + "/api/payments/create-checkout-session"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: %v", ports.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.CheckoutSession{}, fmt.Errorf("%w: unexpected status %s", ports.ErrGatewayFailure, resp.Status)
	}
	var payload sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: decode response: %v", ports.ErrGatewayFailure, err)
	}
	if strings.TrimSpace(payload.URL) == "" {
		return ports.CheckoutSession{}, fmt.Errorf("%w: response carries no redirect url", ports.ErrGatewayFailure)
	}
	return ports.CheckoutSession{URL: payload.URL}, nil
}

type verifyResponse struct {
	Order struct {
		ID    string            `json:"id"`
		Total float64           `json:"total"`
		Items []json.RawMessage `json:"items"`
		Email string            `json:"email"`
	} `json:"order"`
}

// Verify confirms a payment session and returns the finalized order
// summary. Any transport error or non-2xx answer wraps
// ErrVerificationFailed; the session is never retried here.
func (c *Client) Verify(ctx context.Context, sessionID string) (*domain.OrderSummary, error) {
	endpoint := fmt.Sprintf("%s/api/payments/verify-session?session_id=%s", c.baseURL, url.QueryEscape(sessionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrVerificationFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ports.ErrVerificationFailed, resp.Status)
	}
	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ports.ErrVerificationFailed, err)
	}
	if strings.TrimSpace(payload.Order.ID) == "" {
		return nil, fmt.Errorf("%w: response carries no order", ports.ErrVerificationFailed)
	}
	return &domain.OrderSummary{
		ID:        payload.Order.ID,
		Total:     payload.Order.Total,
		ItemCount: len(payload.Order.Items),
		Email:     payload.Order.Email,
	}, nil
}
