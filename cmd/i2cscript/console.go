package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/moffa90/go-i2cbridge/internal/transport"
	"github.com/moffa90/go-i2cbridge/protocol"
)

const consolePrompt = "i2c> "

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open an interactive session with the bridge",
	Long: `Reads protocol lines from the keyboard and sends them to the bridge,
printing every line the bridge returns. Type "exit" or press Ctrl-D to quit.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	port, err := transport.Open(cfg.Port, transport.WithBaudRate(cfg.Baud))
	if err != nil {
		return err
	}
	defer func() { _ = port.Close() }()

	logger.Debug("console connected", "port", cfg.Port)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		p := newPrinter(cmd.OutOrStdout(), true, true)
		go relay(ctx, port, p.line)
		return sendLines(os.Stdin, port)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, consolePrompt)

	p := newPrinter(t, cfg.NoColor, true)
	go relay(ctx, port, p.line)

	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}
		if _, err := io.WriteString(port, line+protocol.LineTerminator); err != nil {
			return fmt.Errorf("write command: %w", err)
		}
	}
}

// relay prints every line received from port until it closes or ctx ends.
func relay(ctx context.Context, port io.Reader, emit func(string)) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		emit(strings.TrimRight(scanner.Text(), "\r"))
	}
}

// sendLines forwards input lines to port until input ends.
func sendLines(in io.Reader, port io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := io.WriteString(port, line+protocol.LineTerminator); err != nil {
			return fmt.Errorf("write command: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
