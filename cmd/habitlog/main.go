package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/habitlog/habitlog/adapter/cli"
	"github.com/habitlog/habitlog/adapter/cli/journal"
	"github.com/habitlog/habitlog/adapter/cli/mcp"
	"github.com/habitlog/habitlog/adapter/cli/progress"
	"github.com/habitlog/habitlog/internal/app"
	mcpinternal "github.com/habitlog/habitlog/internal/mcp"
	"github.com/habitlog/habitlog/pkg/config"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, logCloser := app.NewLogger(cfg, os.Stderr)
	defer logCloser.Close()
	cli.SetLogger(logger)
	cli.Version = cfg.Version

	// Commands that need no store (version, help) still work when the
	// container cannot start outside production.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsProduction() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		cliApp = mcpinternal.NewCLIApp(container, cfg.LocalUserID())
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(journal.Cmd)
	cli.AddCommand(progress.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
