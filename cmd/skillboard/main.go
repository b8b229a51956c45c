// Package main provides the CLI entrypoint for skillboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/skillboard/internal/config"
	"github.com/okian/skillboard/pkg/logger"
)

var configPath string

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skillboard",
		Short:         "Robotics skills leaderboard collector",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides SKILLBOARD_CONFIG)")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// setup loads configuration and initializes logging for a subcommand.
func setup(ctx context.Context) (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadFile(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	// every subcommand fetches from RobotEvents
	if err := cfg.ValidateFetch(); err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}
