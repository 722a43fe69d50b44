package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/carltonupp/upperdine/internal/adapters/http/api"
	"github.com/carltonupp/upperdine/internal/adapters/http/site"
	"github.com/carltonupp/upperdine/internal/adapters/http/swagger"
	app "github.com/carltonupp/upperdine/internal/app"
	"github.com/carltonupp/upperdine/internal/config"
	"github.com/carltonupp/upperdine/pkg/logger"
	"github.com/carltonupp/upperdine/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	maxPostsLimit             = 100
	nanosecondsPerMillisecond = 1e6
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, log, err := setup(ctx, os.Stdout)
	if err != nil {
		return err
	}

	svc, err := newService(cfg, log, cfg.WatchPosts)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	handler, err := newHandler(ctx, cfg, svc, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gCtx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gCtx)
		return nil
	})

	g.Go(func() error {
		// Wait for shutdown signal or a failed listener
		<-gCtx.Done()
		log.Info(context.Background(), "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error(context.Background(), "server stopped with error", logger.Error(err))
		return err
	}
	log.Info(context.Background(), "server stopped")
	return nil
}

// newHandler wires every route onto one mux behind the request id middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	// Register ReDoc and the OpenAPI document
	swagger.Register(ctx, mux)

	// Register JSON API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, maxPostsLimit)
	apiServer.Register(ctx, mux)

	pages, err := site.New(svc, site.Config{
		BaseURL:          cfg.BaseURL,
		AnalyticsEnabled: cfg.AnalyticsEnabled,
		AnalyticsID:      cfg.AnalyticsID,
		CommentsEnabled:  cfg.CommentsEnabled,
		DisqusShortname:  cfg.DisqusShortname,
		AssetsDir:        cfg.AssetsDir,
	}, site.WithLogger(log.Named("site")))
	if err != nil {
		return nil, err
	}
	pages.Register(ctx, mux)

	return api.RequestID(mux), nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
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
		// Average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
