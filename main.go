package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrgl-labs/arbbot/cmd"
	"github.com/mrgl-labs/arbbot/utils"
)

func main() {
	defer utils.CleanupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
