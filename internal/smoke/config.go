// Package smoke checks a running site end to end over HTTP: the pages
// render what visitors expect and the JSON API agrees with them.
package smoke

import (
	"errors"
	"time"
)

// Defaults for Config.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultWorkers     = 4
	DefaultSocialLinks = 3
)

// ErrCheckFailed is returned by Run when at least one check failed.
var ErrCheckFailed = errors.New("smoke check failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL     string        // Base URL of the site
	Workers     int           // Concurrent per-post checks
	Timeout     time.Duration // HTTP request timeout
	SocialLinks int           // Expected number of a.social-icon links
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.SocialLinks == 0 {
		c.SocialLinks = DefaultSocialLinks
	}
	return c
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool { return r.Err == nil }

// Report holds every check result of a run.
type Report struct {
	Results   []Result
	StartTime time.Time
	Duration  time.Duration
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}
