// Command server runs the lingua-cards HTTP API.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml), a .env
// file and the environment. SIGINT or SIGTERM triggers graceful shutdown.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/lingua-cards/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
