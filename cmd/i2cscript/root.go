package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-i2cbridge/internal/config"
	"github.com/moffa90/go-i2cbridge/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "i2cscript",
	Short: "Replay command scripts against an I2C bridge",
	Long: `i2cscript sends the lines of a command script to an I2C bridge over a
serial port, TCP or stdio, and validates the replies with EXPECT directives.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultScript()

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("port", "p", defaults.Port, "Bridge endpoint: serial device, tcp://host:port or - for stdio")
	flags.IntP("baud", "b", defaults.Baud, "Serial baud rate")
	flags.BoolP("verbose", "v", defaults.Verbose, "Echo diagnostics and enable debug logging")
	flags.Bool("no-color", defaults.NoColor, "Disable coloured output")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	flags.String("config", "", "YAML configuration file")
}

// loadConfig reads the configuration file named by --config and applies
// every flag that was set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (config.Script, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.LoadScript(path)
	if err != nil {
		return config.Script{}, err
	}

	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
	if flags.Changed("baud") {
		cfg.Baud, _ = flags.GetInt("baud")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Lookup("settle") != nil && flags.Changed("settle") {
		cfg.Settle, _ = flags.GetDuration("settle")
	}
	if flags.Lookup("startup-wait") != nil && flags.Changed("startup-wait") {
		cfg.StartupWait, _ = flags.GetDuration("startup-wait")
	}
	if flags.Lookup("regex") != nil && flags.Changed("regex") {
		cfg.Regex, _ = flags.GetString("regex")
	}

	return cfg, nil
}

// newLogger builds the stderr logger; --verbose forces debug level.
func newLogger(cfg config.Script) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return logging.New(level), nil
}
