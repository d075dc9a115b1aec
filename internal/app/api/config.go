package api

import (
	"os"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	PostgresDSN        string
	CatalogBaseURL     string
	PromoBaseURL       string
	PaymentsBaseURL    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	TemporalAddress    string
	TemporalNamespace  string
	TemporalDisabled   bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogBaseURL:     envDefault("CATALOG_API_BASE_URL", "http://localhost:3000"),
		PromoBaseURL:       strings.TrimSpace(os.Getenv("PROMO_API_BASE_URL")),
		PaymentsBaseURL:    envDefault("PAYMENTS_API_BASE_URL", "http://localhost:3000"),
		CheckoutSuccessURL: envDefault("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:  envDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout"),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
