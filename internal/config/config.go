// Package config loads the YAML configuration files of the i2cbridge and
// i2cscript binaries. Values absent from a file keep their defaults; command
// line flags set explicitly override both.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Bridge configures the i2cbridge daemon.
type Bridge struct {
	// Port is the serial device the bridge answers on, or "-" for stdio
	Port string `yaml:"port"`

	// Listen is a TCP address to serve instead of Port
	Listen string `yaml:"listen"`

	// Baud is the serial line rate
	Baud int `yaml:"baud"`

	// Bus selects the bus backend: "sim" or an i2c-dev path such as /dev/i2c-1
	Bus string `yaml:"bus"`

	// Devices is the simulated device map file used with the "sim" bus
	Devices string `yaml:"devices"`

	// Debug enables informational diagnostics on the wire
	Debug bool `yaml:"debug"`

	// Banner emits the usage help when a session starts
	Banner bool `yaml:"banner"`

	// MetricsAddr serves Prometheus metrics when set
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is the stderr log level
	LogLevel string `yaml:"log_level"`
}

// Script configures the i2cscript runner.
type Script struct {
	// Port is the bridge endpoint: serial path, tcp://host:port or "-"
	Port string `yaml:"port"`

	// Baud is the serial line rate
	Baud int `yaml:"baud"`

	// Timeout bounds the wait for a read reply
	Timeout time.Duration `yaml:"timeout"`

	// Settle is the quiet period that ends a reply without data
	Settle time.Duration `yaml:"settle"`

	// StartupWait is drained before the first command
	StartupWait time.Duration `yaml:"startup_wait"`

	// Regex selects the EXPECT engine: "re2" or "pcre"
	Regex string `yaml:"regex"`

	// Verbose echoes diagnostics and enables debug logging
	Verbose bool `yaml:"verbose"`

	// NoColor disables coloured output
	NoColor bool `yaml:"no_color"`

	// LogLevel is the stderr log level
	LogLevel string `yaml:"log_level"`
}

// DefaultBridge returns the bridge defaults.
func DefaultBridge() Bridge {
	return Bridge{
		Port:     "-",
		Baud:     9600,
		Bus:      "sim",
		Banner:   true,
		LogLevel: "info",
	}
}

// DefaultScript returns the runner defaults.
func DefaultScript() Script {
	return Script{
		Port:        "/dev/ttyACM0",
		Baud:        9600,
		Timeout:     2 * time.Second,
		Settle:      100 * time.Millisecond,
		StartupWait: 250 * time.Millisecond,
		Regex:       "re2",
		LogLevel:    "info",
	}
}

// LoadBridge reads a bridge configuration file over the defaults.
// An empty path returns the defaults.
func LoadBridge(path string) (Bridge, error) {
	cfg := DefaultBridge()
	if err := load(path, &cfg); err != nil {
		return Bridge{}, err
	}
	if cfg.Baud <= 0 {
		return Bridge{}, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}
	return cfg, nil
}

// LoadScript reads a runner configuration file over the defaults.
// An empty path returns the defaults.
func LoadScript(path string) (Script, error) {
	cfg := DefaultScript()
	if err := load(path, &cfg); err != nil {
		return Script{}, err
	}
	if cfg.Baud <= 0 {
		return Script{}, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}
	if cfg.Timeout <= 0 {
		return Script{}, fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}
	return cfg, nil
}

func load(path string, out any) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}
