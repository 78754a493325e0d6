package board

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Config holds the board client configuration.
type Config struct {
	// AckTimeout is how long to wait for the acknowledgment byte of one attempt
	AckTimeout time.Duration

	// Retries is the number of attempts per command
	Retries int

	// RetryDelay is the pause between attempts
	RetryDelay time.Duration

	// Clock drives timeouts; tests inject a fake clock
	Clock clockwork.Clock
}

// defaultConfig mirrors the timings the board has always been driven with.
func defaultConfig() Config {
	return Config{
		AckTimeout: 2 * time.Second,
		Retries:    3,
		RetryDelay: 500 * time.Millisecond,
		Clock:      clockwork.NewRealClock(),
	}
}

// Option is a functional option for configuring the Board.
type Option func(*Config)

// WithAckTimeout sets the per-attempt acknowledgment timeout.
func WithAckTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.AckTimeout = d
	}
}

// WithRetries sets the number of attempts per command.
func WithRetries(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Retries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = d
	}
}

// WithClock sets the clock used for timeouts.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}
