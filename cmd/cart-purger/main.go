package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	cartpostgres "github.com/beatforge/beatstore-api/internal/domains/cart/adapters/persistence/postgres"
	platformpostgres "github.com/beatforge/beatstore-api/internal/platform/postgres"
)

const defaultCartTTL = 72 * time.Hour

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge carts")
	}

	store := cartpostgres.NewSnapshotStore(db)
	purged, err := store.PurgeOlderThan(ctx, time.Now().Add(-cartTTLFromEnv()))
	if err != nil {
		log.Fatalf("failed to purge carts: %v", err)
	}
	log.Printf("cart purge completed, removed %d stale carts", purged)
}

func cartTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("CART_TTL_HOURS"))
	if raw == "" {
		return defaultCartTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return defaultCartTTL
	}
	return time.Duration(hours) * time.Hour
}
