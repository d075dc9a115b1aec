//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/beatforge/beatstore-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type cartPayload struct {
	Items           []json.RawMessage `json:"items"`
	PromoCode       string            `json:"promoCode"`
	DiscountPercent float64           `json:"discountPercent"`
	Subtotal        float64           `json:"subtotal"`
	Tax             float64           `json:"tax"`
	Total           float64           `json:"total"`
	ItemCount       int               `json:"itemCount"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	cartIDMatcher := matchers.S(pacttest.ExampleCartID)
	lineItemMatcher := matchers.Map{
		"id":       matchers.Like(pacttest.ExampleBeatID + "-" + pacttest.ExampleTierLabel),
		"beatId":   matchers.S(pacttest.ExampleBeatID),
		"beatName": matchers.Like(pacttest.ExampleBeatName),
		"tier": matchers.StructMatcher{
			"tier":  matchers.S(pacttest.ExampleTierLabel),
			"price": matchers.Like(pacttest.ExampleTierPrice),
		},
		"quantity": matchers.Like(1),
	}

	pact.AddInteraction().
		Given(pacttest.StateCartEmpty).
		UponReceiving("a request for an empty cart").
		WithRequest("GET", "/v2/cart", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Cart-ID", cartIDMatcher)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.StructMatcher{
				"items":     []any{},
				"subtotal":  matchers.Like(0.0),
				"tax":       matchers.Like(0.0),
				"total":     matchers.Like(0.0),
				"itemCount": matchers.Like(0),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBeatAvailable).
		UponReceiving("a request to add a beat license to the cart").
		WithRequest("POST", "/v2/cart/items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Cart-ID", cartIDMatcher)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"beatId": matchers.S(pacttest.ExampleBeatID),
				"tier":   matchers.S(pacttest.ExampleTierLabel),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"items":     matchers.ArrayMinLike(lineItemMatcher, 1),
				"subtotal":  matchers.Like(pacttest.ExampleTierPrice),
				"tax":       matchers.Like(2.5),
				"total":     matchers.Like(27.5),
				"itemCount": matchers.Like(1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePromoAccepted).
		UponReceiving("a request to apply a valid promo code").
		WithRequest("POST", "/v2/cart/promo", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Cart-ID", cartIDMatcher)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"code": matchers.S("save10"),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"promoCode":       matchers.S(pacttest.AcceptedPromoCode),
				"discountPercent": matchers.Like(pacttest.AcceptedPromoRate),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePromoRejected).
		UponReceiving("a request to apply an invalid promo code").
		WithRequest("POST", "/v2/cart/promo", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("X-Cart-ID", cartIDMatcher)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"code": matchers.S(pacttest.RejectedPromoCode),
			})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/bad-request"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.Like("The code you entered is not valid"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		empty, err := client.GetCart(ctx)
		if err != nil {
			return fmt.Errorf("get cart: %w", err)
		}
		if empty == nil || len(empty.Items) != 0 {
			return fmt.Errorf("expected empty cart, got %+v", empty)
		}

		withItem, err := client.AddItem(ctx, pacttest.ExampleBeatID, pacttest.ExampleTierLabel)
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		if withItem == nil || withItem.ItemCount == 0 {
			return fmt.Errorf("expected item in cart, got %+v", withItem)
		}

		discounted, err := client.ApplyPromo(ctx, "save10")
		if err != nil {
			return fmt.Errorf("apply promo: %w", err)
		}
		if discounted == nil || discounted.PromoCode != pacttest.AcceptedPromoCode {
			return fmt.Errorf("expected promo %s, got %+v", pacttest.AcceptedPromoCode, discounted)
		}

		if _, err := client.ApplyPromo(ctx, pacttest.RejectedPromoCode); err == nil {
			return fmt.Errorf("expected rejection for promo %s", pacttest.RejectedPromoCode)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusBadRequest {
			return fmt.Errorf("expected 400, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) GetCart(ctx context.Context) (*cartPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/cart", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Cart-ID", pacttest.ExampleCartID)
	return c.doCart(req)
}

func (c *storefrontClient) AddItem(ctx context.Context, beatID, tier string) (*cartPayload, error) {
	body, err := json.Marshal(map[string]string{"beatId": beatID, "tier": tier})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/cart/items", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-ID", pacttest.ExampleCartID)
	return c.doCart(req)
}

func (c *storefrontClient) ApplyPromo(ctx context.Context, code string) (*cartPayload, error) {
	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/cart/promo", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-ID", pacttest.ExampleCartID)
	return c.doCart(req)
}

func (c *storefrontClient) doCart(req *http.Request) (*cartPayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload cartPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	return apiError{status: res.StatusCode, title: problem.Title, detail: problem.Detail}
}
