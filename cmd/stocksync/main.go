// Package main provides the entry point for the stocksync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version information populated at build time.
var version = "dev"

func main() {
	// Interrupts stop the run between records
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCommand(os.Stdout).ExecuteContext(ctx)
	cancel()
	if err != nil {
		_, _ = os.Stderr.WriteString("stocksync: " + err.Error() + "\n")
		os.Exit(1)
	}
}
