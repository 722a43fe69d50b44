// Package service provides the core content service that implements
// the dependencies required by the HTTP API and site.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/carltonupp/upperdine/internal/adapters/markdown"
	"github.com/carltonupp/upperdine/internal/adapters/repository"
	"github.com/carltonupp/upperdine/internal/adapters/watcher"
	"github.com/carltonupp/upperdine/internal/domain/ordering"
	"github.com/carltonupp/upperdine/internal/domain/profile"
	"github.com/carltonupp/upperdine/internal/domain/types"
	"github.com/carltonupp/upperdine/pkg/logger"
	"github.com/carltonupp/upperdine/pkg/metrics"
)

// ErrNotFound is returned by Post when no post has the slug.
var ErrNotFound = repository.ErrNotFound

// Service implements the content dependencies for the site and API.
type Service struct {
	mu sync.RWMutex

	// Core components
	profile types.Profile
	store   repository.Store
	loader  *repository.Loader
	watcher *watcher.Watcher

	// Configuration
	postsDir       string
	watch          bool
	recentLimit    int
	reloadDebounce time.Duration

	// State
	started bool

	// reloadMu serialises reloads from the watcher and from callers and
	// guards the fields below.
	reloadMu   sync.Mutex
	lastReload time.Time
	skipped    int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPostsDir sets the directory holding markdown posts.
func WithPostsDir(dir string) Option {
	return func(s *Service) {
		s.postsDir = dir
	}
}

// WithProfile replaces the embedded profile content.
func WithProfile(p types.Profile) Option {
	return func(s *Service) {
		s.profile = p
	}
}

// WithWatch enables reloading posts when the directory changes.
func WithWatch(enabled bool) Option {
	return func(s *Service) {
		s.watch = enabled
	}
}

// WithRecentLimit sets how many posts RecentPosts returns.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithReloadDebounce sets the quiet period before a watched change reloads.
func WithReloadDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.reloadDebounce = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		profile:        profile.Default(),
		store:          repository.NewMemoryStore(),
		loader:         repository.NewLoader(markdown.NewRenderer()),
		postsDir:       "posts",
		recentLimit:    5,
		reloadDebounce: 250 * time.Millisecond,
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads posts and, when enabled, begins watching the posts directory.
// A missing posts directory is not fatal: the site serves no posts.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting content service...", logger.String("postsDir", s.postsDir))

	if err := s.Reload(ctx); err != nil {
		if !errors.Is(err, repository.ErrReadDir) {
			return err
		}
		s.logger.Warn(ctx, "posts directory unavailable, serving no posts", logger.Error(err))
	} else if s.watch {
		w := watcher.New(s.postsDir, s.Reload,
			watcher.WithDebounce(s.reloadDebounce),
			watcher.WithLogger(s.logger.Named("watcher")),
		)
		if err := w.Start(ctx); err != nil {
			s.logger.Warn(ctx, "post watching disabled", logger.Error(err))
		} else {
			s.watcher = w
		}
	}

	s.started = true
	s.logger.Info(ctx, "content service started",
		logger.Int("posts", s.store.Count(ctx)),
		logger.Bool("watching", s.watcher != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping content service...")

	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "content service stopped")
}

// Reload re-reads every post from disk and swaps the published set. Files
// that fail to parse are logged and skipped. On error the previous set is
// kept.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	log := s.log()
	start := time.Now()

	res, err := s.loader.Load(ctx, os.DirFS(s.postsDir))
	if err != nil {
		metrics.RecordContentReloadFailure()
		return fmt.Errorf("reload posts: %w", err)
	}
	for _, fe := range res.Skipped {
		log.Warn(ctx, "skipping post", logger.String("file", fe.Name), logger.Error(fe.Err))
	}
	if err := s.store.Replace(ctx, res.Posts); err != nil {
		metrics.RecordContentReloadFailure()
		return fmt.Errorf("reload posts: %w", err)
	}

	elapsed := time.Since(start)
	metrics.RecordContentReload(float64(elapsed.Microseconds()) / 1000)
	metrics.UpdatePostsSkipped(len(res.Skipped))

	s.lastReload = time.Now()
	s.skipped = len(res.Skipped)

	log.Info(ctx, "posts loaded",
		logger.Int("posts", len(res.Posts)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Duration("took", elapsed),
	)
	return nil
}

// Profile returns the site owner's profile.
func (s *Service) Profile(_ context.Context) types.Profile {
	return s.profile
}

// Jobs returns employment history in the order it is written.
func (s *Service) Jobs(_ context.Context) []types.Job {
	out := make([]types.Job, len(s.profile.Jobs))
	copy(out, s.profile.Jobs)
	return out
}

// Skills returns the skills, strongest first.
func (s *Service) Skills(_ context.Context) []types.Skill {
	return ordering.Descending(s.profile.Skills, func(sk types.Skill) int { return sk.Level })
}

// Posts returns every published post, newest first.
func (s *Service) Posts(ctx context.Context) []types.Post {
	return s.store.All(ctx)
}

// RecentPosts returns the configured number of newest posts.
func (s *Service) RecentPosts(ctx context.Context) []types.Post {
	posts, err := s.store.Recent(ctx, s.recentLimit)
	if err != nil {
		// recentLimit is always positive.
		s.log().Error(ctx, "recent posts", logger.Error(err))
		return nil
	}
	return posts
}

// LatestPosts returns up to n newest posts.
// Returns repository.ErrInvalidLimit when n < 1.
func (s *Service) LatestPosts(ctx context.Context, n int) ([]types.Post, error) {
	return s.store.Recent(ctx, n)
}

// Post returns the post with the given slug, or ErrNotFound.
func (s *Service) Post(ctx context.Context, slug string) (types.Post, error) {
	return s.store.Get(ctx, slug)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"postsDir":    s.postsDir,
		"watching":    s.watcher != nil,
		"recentLimit": s.recentLimit,
		"posts":       s.store.Count(ctx),
		"jobs":        len(s.profile.Jobs),
		"skills":      len(s.profile.Skills),
	}

	s.reloadMu.Lock()
	if !s.lastReload.IsZero() {
		stats["lastReload"] = s.lastReload
		stats["skipped"] = s.skipped
	}
	s.reloadMu.Unlock()

	return stats
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}
