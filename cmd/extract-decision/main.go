package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inab/conflict-decisions/internal/cli"
	"github.com/inab/conflict-decisions/internal/logging"
)

// main is the entry point for the extract-decision CLI binary.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	err := cli.ExecuteContext(ctx, os.Args[1:], logger)
	stop()

	if cli.ShouldLog(err) {
		logger.Error("command failed", "error", err)
	}
	os.Exit(cli.ExitCode(err))
}
