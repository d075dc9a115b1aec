package main

import (
	"context"
	"log"

	"github.com/beatforge/beatstore-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("beatstore API exited: %v", err)
	}
}
