// Package config defines the site configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Validation failures wrap ErrInvalidConfig, source failures ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// PostsDir is the directory holding <slug>.md files.
	PostsDir string `koanf:"posts_dir"`

	// AssetsDir, when set, is served from disk under /assets/.
	AssetsDir string `koanf:"assets_dir"`

	// ProfileFile overrides the embedded profile (jobs, skills, socials).
	ProfileFile string `koanf:"profile_file"`

	// RecentPosts is how many posts the home page lists.
	RecentPosts int `koanf:"recent_posts"`

	// WatchPosts reloads posts when files in PostsDir change.
	WatchPosts bool `koanf:"watch_posts"`

	// ReloadDebounceMS coalesces bursts of file events into one reload.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// BaseURL is the public origin, used for comment thread URLs.
	BaseURL string `koanf:"base_url"`

	// AnalyticsEnabled toggles the Google Analytics snippet.
	AnalyticsEnabled bool `koanf:"analytics_enabled"`

	// AnalyticsID is the GA measurement id.
	AnalyticsID string `koanf:"analytics_id"`

	// CommentsEnabled toggles the Disqus embed on post pages.
	CommentsEnabled bool `koanf:"comments_enabled"`

	// DisqusShortname identifies the Disqus forum.
	DisqusShortname string `koanf:"disqus_shortname"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":3000",
		PostsDir:         "posts",
		RecentPosts:      5,
		WatchPosts:       true,
		ReloadDebounceMS: 250,
		BaseURL:          "https://carlton.upperdine.dev",
		AnalyticsID:      "G-WGK06NVVVH",
	}
}

// ReloadDebounce returns ReloadDebounceMS as a duration.
func (c *Config) ReloadDebounce() time.Duration {
	return time.Duration(c.ReloadDebounceMS) * time.Millisecond
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.PostsDir) == "":
		return fmt.Errorf("%w: posts_dir must not be empty", ErrInvalidConfig)
	case c.RecentPosts < 1:
		return fmt.Errorf("%w: recent_posts must be positive", ErrInvalidConfig)
	case c.ReloadDebounceMS < 0:
		return fmt.Errorf("%w: reload_debounce_ms must not be negative", ErrInvalidConfig)
	case c.AnalyticsEnabled && strings.TrimSpace(c.AnalyticsID) == "":
		return fmt.Errorf("%w: analytics_id is required when analytics is enabled", ErrInvalidConfig)
	case c.CommentsEnabled && strings.TrimSpace(c.DisqusShortname) == "":
		return fmt.Errorf("%w: disqus_shortname is required when comments are enabled", ErrInvalidConfig)
	}
	return nil
}
