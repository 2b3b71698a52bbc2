package minewatch

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	path   string
	sites  []Site
	logger *zap.Logger
}

// WithStoragePath sets the usage file path. Default: mine_usage.txt.
func WithStoragePath(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.path = path
	})
}

// WithSites replaces the default site set (Rosemont, Sierrita, Mission).
func WithSites(sites ...Site) Option {
	return optionFunc(func(c *clientConfig) {
		c.sites = sites
	})
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = logger
	})
}
