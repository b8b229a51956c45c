package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/skillboard/internal/adapters/http/api"
	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/adapters/snapshot"
	app "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/config"
	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Refresh the leaderboard periodically and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	out, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	board := repository.NewBoard()
	svc := newService(cfg, log, newFetcher(cfg), out.publisher, app.WithBoard(board))

	warm(ctx, cfg, log, out.archive, svc)

	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	apiServer := api.NewServer(apiDeps{svc},
		api.WithMaxLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(log.Named("http")),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// warm seeds the leaderboard and team directory from the latest archived
// snapshots so the API has data before the first collection finishes.
func warm(ctx context.Context, cfg *config.Config, log logger.Logger, archive *snapshot.Store, svc *app.Service) {
	if archive == nil {
		return
	}

	if snap, err := archive.Latest(ctx, cfg.TeamsName); err == nil {
		if teams, err := snap.Teams(); err == nil {
			svc.SetDirectory(teams)
		} else {
			log.Warn(ctx, "ignoring unreadable team snapshot", logger.Error(err))
		}
	} else if !errors.Is(err, snapshot.ErrNotFound) {
		log.Warn(ctx, "loading team snapshot failed", logger.Error(err))
	}

	snap, err := archive.Latest(ctx, cfg.SkillsName)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return
	case err != nil:
		log.Warn(ctx, "loading skills snapshot failed", logger.Error(err))
		return
	}
	records, err := snap.Records()
	if err != nil {
		log.Warn(ctx, "ignoring unreadable skills snapshot", logger.Error(err))
		return
	}
	svc.Warm(ctx, records)
	log.Info(ctx, "leaderboard warmed from snapshot",
		logger.String("run_id", snap.RunID),
		logger.Int("records", len(records)))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics keeps the leaderboard gauge in step with the board.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	metrics.UpdateLeaderboardSize(svc.Count(ctx))
}

// apiDeps maps service errors onto the HTTP layer's sentinels.
type apiDeps struct {
	*app.Service
}

func (d apiDeps) Refresh() error {
	err := d.Service.Refresh()
	if errors.Is(err, app.ErrBusy) {
		return fmt.Errorf("%w: %w", api.ErrBackpressure, err)
	}
	return err
}
