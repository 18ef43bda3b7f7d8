package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/moffa90/go-i2cbridge/internal/config"
	"github.com/moffa90/go-i2cbridge/internal/transport"
	"github.com/moffa90/go-i2cbridge/script"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a command script against the bridge",
	Long: `Sends every command line of the script in order, waiting for each reply,
and evaluates EXPECT directives against the most recent data reply.
The exit status is non-zero when an expectation fails or the bridge stops
answering.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addRunFlags(runCmd.Flags())

	// 'i2cscript <script>' runs the script
	addRunFlags(rootCmd.Flags())
	rootCmd.Args = cobra.ExactArgs(1)
	rootCmd.RunE = runScript
}

func addRunFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultScript()
	flags.Duration("timeout", defaults.Timeout, "Reply timeout for read commands")
	flags.Duration("settle", defaults.Settle, "Quiet period that ends a reply without data")
	flags.Duration("startup-wait", defaults.StartupWait, "Quiet period drained before the first command")
	flags.String("regex", defaults.Regex, "EXPECT pattern engine: re2 or pcre")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	s, err := script.Parse(args[0])
	if err != nil {
		return err
	}

	matcher, err := script.NewMatcher(cfg.Regex)
	if err != nil {
		return err
	}

	port, err := transport.Open(cfg.Port, transport.WithBaudRate(cfg.Baud))
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	logger.Debug("port opened", "port", cfg.Port, "baud", cfg.Baud)

	p := newPrinter(cmd.OutOrStdout(), cfg.NoColor, cfg.Verbose)
	runner := script.New(port,
		script.WithLogger(logger),
		script.WithStepCallback(p.step),
		script.WithMatcher(matcher),
		script.WithReadTimeout(cfg.Timeout),
		script.WithSettleTime(cfg.Settle),
		script.WithStartupWait(cfg.StartupWait),
	)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	report, runErr := runner.Run(ctx, s)
	p.summary(report, runErr)

	if runErr != nil {
		return fmt.Errorf("%s: %w", s.Name, runErr)
	}
	return report.Err()
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
