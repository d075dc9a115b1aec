//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "beatstore-api"
	ConsumerName = "beat-storefront"

	StateCartEmpty     = "cart is empty"
	StateBeatAvailable = "beat beat-001 is in the catalog"
	StatePromoAccepted = "promo code SAVE10 is accepted"
	StatePromoRejected = "promo code BOGUS is rejected"
)

const (
	ExampleCartID    = "3f1c8a6a-pact-cart"
	ExampleBeatID    = "beat-001"
	ExampleBeatName  = "Midnight Drive"
	ExampleTierLabel = "MP3 Lease"
	ExampleTierPrice = 25.0

	AcceptedPromoCode = "SAVE10"
	AcceptedPromoRate = 10.0
	RejectedPromoCode = "BOGUS"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleBeatPayload is the catalog document backing the add-item interactions.
func ExampleBeatPayload() map[string]any {
	return map[string]any{
		"id":   ExampleBeatID,
		"name": ExampleBeatName,
		"pricing": []map[string]any{
			{
				"tier":        ExampleTierLabel,
				"licenseType": "MP3 Lease",
				"price":       ExampleTierPrice,
				"description": "Untagged MP3 download",
				"features":    []string{"MP3 file", "Up to 5,000 streams"},
			},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
