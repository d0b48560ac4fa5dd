package pagecraft

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eringen/pagecraft/block"
)

// Config holds all configuration for an Engine.
type Config struct {
	DatabasePath string // SQLite path (default "data/pagecraft.db")
	MediaDir     string // Directory for imported media files (default "data/media")
	MediaBaseURL string // URL prefix for media files (default "/media")
	SiteURL      string // Canonical site URL for sitemaps (default "http://localhost:3000")

	CacheTTL time.Duration // Published page cache TTL (default 5min)
}

func (c *Config) setDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pagecraft.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.MediaBaseURL == "" {
		c.MediaBaseURL = "/media"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:3000"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// Option configures additional Engine behavior.
type Option func(*Engine)

// WithLogger sets the logger used by the engine (default: a logrus logger
// at info level writing to stderr).
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithIDGenerator sets the source of block, page and template ids. Tests
// use block.NewSequence for deterministic ids.
func WithIDGenerator(gen block.IDGenerator) Option {
	return func(e *Engine) {
		e.factory = block.NewFactory(gen)
	}
}
