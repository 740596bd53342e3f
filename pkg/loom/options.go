package loom

import (
	"log/slog"
	"time"
)

// DefaultYieldThreshold is the remaining idle time below which the work
// loop hands control back to the host.
const DefaultYieldThreshold = time.Millisecond

// Config configures a Runtime.
type Config struct {
	// YieldThreshold is the minimum remaining budget needed to start
	// another unit of work. Default: DefaultYieldThreshold.
	YieldThreshold time.Duration

	// Logger receives Debug records for slices and commits and Error
	// records for failed commits. Default: slog.Default().
	Logger *slog.Logger

	// Observer is notified after every work slice and commit.
	Observer Observer

	// OnError is called by the Start loop when WorkLoop fails. Default:
	// log at Error level.
	OnError func(error)
}

// Option configures a Runtime.
type Option func(*Config)

// WithYieldThreshold sets the yield threshold.
func WithYieldThreshold(d time.Duration) Option {
	return func(c *Config) {
		c.YieldThreshold = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithObserver sets the observer.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithErrorHandler sets the callback for errors raised inside Start.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.OnError = fn
	}
}

func defaultConfig() Config {
	return Config{
		YieldThreshold: DefaultYieldThreshold,
		Logger:         slog.Default(),
	}
}
