package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// The serve loop shuts down gracefully when this context ends.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
