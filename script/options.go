package script

import "time"

// Config holds the runner configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// StepCallback is called for every sent command, received line and
	// evaluated expectation (optional)
	StepCallback StepCallback

	// Matcher evaluates EXPECT patterns
	Matcher Matcher

	// ReadTimeout bounds the wait for the reply to a read-bearing command
	ReadTimeout time.Duration

	// SettleTime is the quiet period that ends the reply to a command
	// without a data line
	SettleTime time.Duration

	// StartupWait is the quiet period drained before the first command,
	// absorbing the banner a device prints after reset (0 disables)
	StartupWait time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Matcher:     NewRegexpMatcher(),
		ReadTimeout: 2 * time.Second,
		SettleTime:  100 * time.Millisecond,
		StartupWait: 250 * time.Millisecond,
	}
}

// Option is a functional option for configuring the Runner.
type Option func(*Config)

// WithLogger sets a logger for runner operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithStepCallback sets a callback that receives the audit trail of a run.
//
// Example:
//
//	r := script.New(port, script.WithStepCallback(func(s script.Step) {
//	    fmt.Println(s)
//	}))
func WithStepCallback(callback StepCallback) Option {
	return func(c *Config) {
		c.StepCallback = callback
	}
}

// WithMatcher sets the EXPECT matcher. A nil matcher is ignored.
func WithMatcher(m Matcher) Option {
	return func(c *Config) {
		if m != nil {
			c.Matcher = m
		}
	}
}

// WithReadTimeout sets how long to wait for the reply to a read-bearing command.
//
// Example:
//
//	r := script.New(port, script.WithReadTimeout(5*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithSettleTime sets the quiet period that ends a reply without a data line.
func WithSettleTime(settle time.Duration) Option {
	return func(c *Config) {
		if settle > 0 {
			c.SettleTime = settle
		}
	}
}

// WithStartupWait sets the quiet period drained before the first command.
// Zero disables draining.
func WithStartupWait(wait time.Duration) Option {
	return func(c *Config) {
		if wait >= 0 {
			c.StartupWait = wait
		}
	}
}
