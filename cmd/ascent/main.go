// Command ascent generates, renders and serves procedural dungeon layouts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ascent/internal/cli"
	"github.com/matzehuels/ascent/pkg/observability"
	"github.com/matzehuels/ascent/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)

	loadEnv(c.Logger)
	defer startTelemetry(ctx, c.Logger)()

	hooks := observability.NewLogHooks(c.Logger)
	defer observability.Install(observability.Hooks{Pipeline: hooks, Cache: hooks})()

	var verbose bool
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log stage timings and cache activity")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	}
	return root.ExecuteContext(ctx)
}

// loadEnv reads .env from the working directory when present.
func loadEnv(logger *log.Logger) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("ignoring .env", "err", err)
	}
}

// startTelemetry exports traces when an OTLP endpoint is configured and
// returns the function that flushes them.
func startTelemetry(ctx context.Context, logger *log.Logger) func() {
	if !telemetry.Enabled() {
		return func() {}
	}
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flush traces", "err", err)
		}
	}
}
