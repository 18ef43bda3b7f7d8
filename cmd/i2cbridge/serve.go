package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/bus"
	"github.com/moffa90/go-i2cbridge/internal/config"
	"github.com/moffa90/go-i2cbridge/internal/logging"
	"github.com/moffa90/go-i2cbridge/internal/metrics"
	"github.com/moffa90/go-i2cbridge/internal/transport"
)

const simBus = "sim"

// demoDevices populates the simulated bus when no devices file is given.
const demoDevices = `
devices:
  - name: imu
    address: 0x6b
    registers:
      0x0f: 0x6c
    read_only: [0x0f]
  - name: eeprom
    address: 0x50
`

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bridge protocol",
	Long: `Serves the bridge protocol on --port, or on a TCP socket with --listen.
The bus is simulated unless --bus names an i2c-dev adapter such as /dev/i2c-1.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd.Flags())

	// Make 'serve' the default command
	addServeFlags(rootCmd.Flags())
	rootCmd.RunE = runServe
}

func addServeFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultBridge()
	flags.String("port", defaults.Port, "Serial device to answer on, or - for stdio")
	flags.String("listen", defaults.Listen, "TCP address to serve instead of --port")
	flags.Int("baud", defaults.Baud, "Serial baud rate")
	flags.String("bus", defaults.Bus, "Bus backend: sim or an i2c-dev path")
	flags.String("devices", defaults.Devices, "YAML device map for the simulated bus")
	flags.Bool("debug", defaults.Debug, "Emit informational diagnostics")
	flags.Bool("banner", defaults.Banner, "Print usage help when a session starts")
	flags.String("metrics-addr", defaults.MetricsAddr, "Serve Prometheus metrics on this address")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	flags.String("config", "", "YAML configuration file")
}

// loadConfig reads the configuration file named by --config and applies
// every flag that was set explicitly on the command line.
func loadConfig(flags *pflag.FlagSet) (config.Bridge, error) {
	path, _ := flags.GetString("config")
	cfg, err := config.LoadBridge(path)
	if err != nil {
		return config.Bridge{}, err
	}

	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
	if flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("baud") {
		cfg.Baud, _ = flags.GetInt("baud")
	}
	if flags.Changed("bus") {
		cfg.Bus, _ = flags.GetString("bus")
	}
	if flags.Changed("devices") {
		cfg.Devices, _ = flags.GetString("devices")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("banner") {
		cfg.Banner, _ = flags.GetBool("banner")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	b, closeBus, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeBus() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithDebug(cfg.Debug),
		bridge.WithBanner(cfg.Banner),
	}

	metricsErr := make(chan error, 1)
	if cfg.MetricsAddr != "" {
		m := metrics.New()
		opts = append(opts, bridge.WithEventCallback(m.Observe))
		go func() { metricsErr <- metrics.Serve(ctx, cfg.MetricsAddr, m.Handler()) }()
		logger.Info("metrics enabled", "addr", cfg.MetricsAddr)
	} else {
		metricsErr <- nil
	}

	serveErr := serve(ctx, cfg, logger, b, opts)
	stop()

	if err := <-metricsErr; err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// openBus returns the configured bus and the function that releases it.
func openBus(cfg config.Bridge) (bridge.Bus, func() error, error) {
	noop := func() error { return nil }

	if cfg.Bus != simBus {
		dev, err := bus.OpenI2CDev(cfg.Bus)
		if err != nil {
			return nil, nil, err
		}
		return dev, dev.Close, nil
	}

	if cfg.Devices == "" {
		sim, err := bus.ParseDevices(strings.NewReader(demoDevices))
		if err != nil {
			return nil, nil, err
		}
		return sim, noop, nil
	}

	sim, err := bus.LoadDevices(cfg.Devices)
	if err != nil {
		return nil, nil, err
	}
	return sim, noop, nil
}

// serve answers the protocol on a TCP listener or a single port until ctx ends.
// Every TCP client gets a fresh session sharing the same bus.
func serve(ctx context.Context, cfg config.Bridge, logger *slog.Logger, b bridge.Bus, opts []bridge.Option) error {
	if cfg.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
		}
		logger.Info("listening", "addr", ln.Addr().String(), "bus", cfg.Bus)

		return transport.Serve(ctx, ln, func(ctx context.Context, conn net.Conn) error {
			logger.Info("client connected", "remote", conn.RemoteAddr().String())
			defer logger.Info("client disconnected", "remote", conn.RemoteAddr().String())
			return bridge.New(b, opts...).Serve(ctx, conn)
		}, func(addr net.Addr, err error) {
			logger.Error("session failed", "remote", addr.String(), "err", err)
		})
	}

	port, err := transport.Open(cfg.Port, transport.WithBaudRate(cfg.Baud))
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	logger.Info("serving", "port", cfg.Port, "baud", cfg.Baud, "bus", cfg.Bus)

	// A blocked read on stdio cannot be interrupted, so cancellation does
	// not wait for the session to notice.
	done := make(chan error, 1)
	go func() { done <- bridge.New(b, opts...).Serve(ctx, port) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
