// Package main is the upperdine command: the portfolio web server plus a
// couple of helpers for working with posts from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	app "github.com/carltonupp/upperdine/internal/app"
	"github.com/carltonupp/upperdine/internal/config"
	"github.com/carltonupp/upperdine/internal/domain/profile"
	"github.com/carltonupp/upperdine/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "upperdine",
	Short:         "Portfolio and blog web server",
	Long:          "upperdine serves the portfolio site: home, posts, about and post pages plus a small JSON API over the same content.",
	SilenceUsage:  true,
	SilenceErrors: true,
	// With no subcommand the site is served.
	RunE: runServe,
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads configuration (defaults -> .env -> optional file -> env) and
// initializes logging to w with the configured format and level.
func setup(ctx context.Context, w io.Writer) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(w)); err != nil {
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

// newService builds the content service from configuration.
func newService(cfg *config.Config, log logger.Logger, watch bool) (*app.Service, error) {
	p, err := profile.Load(cfg.ProfileFile)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log),
		app.WithPostsDir(cfg.PostsDir),
		app.WithProfile(p),
		app.WithWatch(watch),
		app.WithRecentLimit(cfg.RecentPosts),
		app.WithReloadDebounce(time.Duration(cfg.ReloadDebounceMS)*time.Millisecond),
	), nil
}
