package bridge

// Config holds the bridge configuration.
type Config struct {
	// Logger is used for host-side logging of bridge activity (optional)
	Logger Logger

	// EventCallback is called after every handled line (optional)
	EventCallback EventCallback

	// Debug enables informational diagnostics on the diagnostic channel.
	// Error diagnostics are always emitted.
	Debug bool

	// Banner emits the usage help once when Serve starts
	Banner bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Debug:  false,
		Banner: true,
	}
}

// Option is a functional option for configuring the Bridge.
type Option func(*Config)

// WithLogger sets a logger for bridge operations.
//
// Example:
//
//	b := bridge.New(bus, bridge.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithEventCallback sets a callback invoked after every handled line.
func WithEventCallback(callback EventCallback) Option {
	return func(c *Config) {
		c.EventCallback = callback
	}
}

// WithDebug enables or disables informational diagnostics.
//
// Example:
//
//	b := bridge.New(bus, bridge.WithDebug(true))
func WithDebug(debug bool) Option {
	return func(c *Config) {
		c.Debug = debug
	}
}

// WithBanner enables or disables the start-up usage banner. Default is true.
func WithBanner(banner bool) Option {
	return func(c *Config) {
		c.Banner = banner
	}
}
