// Package catalog reads beat summaries and pricing tiers from the catalog
// service. The cart core only consumes this data; it never owns it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
)

var ErrBeatNotFound = errors.New("beat not found in catalog")
var ErrTierNotFound = errors.New("pricing tier not found for beat")

// Client fetches beats from the catalog API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type beatPayload struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Pricing []tierPayload `json:"pricing"`
}

type tierPayload struct {
	Tier        string   `json:"tier"`
	LicenseType string   `json:"licenseType"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// GetBeat loads one beat summary with its pricing tiers.
func (c *Client) GetBeat(ctx context.Context, beatID string) (domain.BeatRef, []domain.PricingTier, error) {
	endpoint := fmt.Sprintf("%s/api/beats/%s", c.baseURL, url.PathEscape(beatID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.BeatRef{}, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.BeatRef{}, nil, fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.BeatRef{}, nil, ErrBeatNotFound
	case resp.StatusCode != http.StatusOK:
		return domain.BeatRef{}, nil, fmt.Errorf("catalog API unexpected status: %s", resp.Status)
	}
	var payload beatPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.BeatRef{}, nil, fmt.Errorf("decode catalog response: %w", err)
	}
	beat := domain.BeatRef{ID: payload.ID, Name: payload.Name}
	tiers := make([]domain.PricingTier, 0, len(payload.Pricing))
	for _, t := range payload.Pricing {
		tiers = append(tiers, domain.PricingTier{
			Tier:        t.Tier,
			LicenseType: t.LicenseType,
			Price:       t.Price,
			Description: t.Description,
			Features:    t.Features,
		})
	}
	return beat, tiers, nil
}

// ResolveTier loads a beat and selects one of its tiers by label.
func (c *Client) ResolveTier(ctx context.Context, beatID, tierLabel string) (domain.BeatRef, domain.PricingTier, error) {
	beat, tiers, err := c.GetBeat(ctx, beatID)
	if err != nil {
		return domain.BeatRef{}, domain.PricingTier{}, err
	}
	for _, tier := range tiers {
		if strings.EqualFold(tier.Tier, tierLabel) {
			return beat, tier, nil
		}
	}
	return domain.BeatRef{}, domain.PricingTier{}, ErrTierNotFound
}
