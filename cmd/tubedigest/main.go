package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TubeDigest/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logging.New(os.Getenv("LOG_LEVEL"), "").Error("tubedigest stopped", "error", err)
		os.Exit(1)
	}
}
