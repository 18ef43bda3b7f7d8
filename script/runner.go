package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// Runner replays scripts against a bridge over a transport.
//
// Execution is strictly sequential: each command is sent and its reply fully
// collected before the next script line is processed. A single background
// goroutine reads the transport so that waits can be bounded; it exits when
// the transport returns an error, so close the transport when done.
type Runner struct {
	transport io.ReadWriter
	config    Config

	startOnce sync.Once
	lines     chan received
	lastReply string
}

type received struct {
	text string
	err  error
}

// New creates a new Runner using the given transport.
//
// Example:
//
//	port, _ := transport.Open("/dev/ttyACM0", transport.WithBaudRate(9600))
//	r := script.New(port,
//	    script.WithReadTimeout(2*time.Second),
//	    script.WithStepCallback(printStep),
//	)
func New(transport io.ReadWriter, opts ...Option) *Runner {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Runner{
		transport: transport,
		config:    cfg,
		lines:     make(chan received, 64),
	}
}

// LastReply returns the most recent data reply; empty if the last command
// produced none.
func (r *Runner) LastReply() string {
	return r.lastReply
}

// Run executes every line of s in order.
//
// EXPECT failures are recorded in the report and do not stop the run; check
// Report.Err afterwards. Transport failures, including a read-bearing command
// left unanswered for ReadTimeout, abort the run. The report is returned in
// every case and covers the lines executed so far.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if s == nil {
		return nil, fmt.Errorf("script cannot be nil")
	}

	startTime := time.Now()
	report := &Report{Script: s.Name}
	defer func() { report.Elapsed = time.Since(startTime) }()

	r.start()

	if r.config.StartupWait > 0 {
		if _, err := r.collect(ctx, nil, false, r.config.StartupWait); err != nil {
			return report, fmt.Errorf("drain start-up output: %w", err)
		}
	}

	r.logInfo("running script", "script", s.Name, "lines", len(s.Lines))

	for _, line := range s.Lines {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("cancelled: %w", err)
		}

		switch line.Kind {
		case LineExpect:
			outcome := r.Evaluate(line)
			report.Outcomes = append(report.Outcomes, outcome)
			r.step(Step{Kind: StepExpect, Line: line, Text: line.Text, Outcome: &outcome})

		case LineCommand:
			if err := r.Exec(ctx, line); err != nil {
				return report, err
			}
			report.Commands++
		}
	}

	r.logInfo("script complete",
		"script", s.Name,
		"commands", report.Commands,
		"passed", report.Passed(),
		"failed", report.Failed(),
		"elapsed", time.Since(startTime).String(),
	)

	return report, nil
}

// Exec sends one command line and collects its reply.
// The data reply, if any, becomes LastReply.
func (r *Runner) Exec(ctx context.Context, line *Line) error {
	r.start()

	r.logDebug("sending command", "line", line.Number, "command", line.Text)
	r.step(Step{Kind: StepSend, Line: line, Text: line.Text})

	if _, err := io.WriteString(r.transport, line.Text+protocol.LineTerminator); err != nil {
		return fmt.Errorf("line %d: write command: %w", line.Number, err)
	}

	expectData := readsData(line.Text)
	wait := r.config.SettleTime
	if expectData {
		wait = r.config.ReadTimeout
	}

	reply, err := r.collect(ctx, line, expectData, wait)
	if err != nil {
		return fmt.Errorf("line %d: %w", line.Number, err)
	}

	r.lastReply = reply
	return nil
}

// Evaluate checks an EXPECT line against the last reply.
func (r *Runner) Evaluate(line *Line) Outcome {
	outcome := Outcome{
		Line:      line.Number,
		Directive: line.Text,
		Pattern:   line.Pattern,
		Reply:     r.lastReply,
	}

	matched, err := r.config.Matcher.Match(line.Pattern, r.lastReply)
	outcome.Passed = matched && err == nil
	outcome.Err = err

	if outcome.Passed {
		r.logDebug("expectation passed", "line", line.Number, "pattern", line.Pattern, "reply", r.lastReply)
	} else {
		r.logError("expectation failed", "line", line.Number, "pattern", line.Pattern, "reply", r.lastReply, "err", err)
	}

	return outcome
}

// collect gathers the reply to one command.
//
// A data line ends collection immediately and is returned. Diagnostics are
// reported as they arrive. A read keeps its deadline measured from the send,
// so a data line that trails its diagnostics still pairs with this command;
// any other command collects until quiet for SettleTime. When data is
// expected, receiving no line at all before the deadline is a transport
// timeout, while a read answered only by diagnostics yields an empty reply.
func (r *Runner) collect(ctx context.Context, line *Line, expectData bool, wait time.Duration) (string, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	got := 0
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("cancelled: %w", ctx.Err())

		case rx, ok := <-r.lines:
			if !ok {
				return "", ErrTransportClosed
			}
			if rx.err != nil {
				if rx.err == io.EOF {
					return "", ErrTransportClosed
				}
				return "", fmt.Errorf("read reply: %w", rx.err)
			}

			text := strings.TrimSpace(rx.text)
			if text == "" {
				continue
			}
			got++

			if !protocol.IsDiagnostic(text) {
				if line == nil {
					// stray data before the first command is not a reply
					r.step(Step{Kind: StepReply, Text: text})
					continue
				}
				r.logDebug("reply", "line", line.Number, "data", text)
				r.step(Step{Kind: StepReply, Line: line, Text: text})
				return text, nil
			}

			r.logDebug("diagnostic", "text", protocol.TrimDiagnostic(text))
			r.step(Step{Kind: StepDiagnostic, Line: line, Text: text})

			if !expectData {
				resetTimer(timer, r.config.SettleTime)
			}

		case <-timer.C:
			if expectData && got == 0 {
				return "", &TimeoutError{Command: line.Text, Timeout: wait}
			}
			return "", nil
		}
	}
}

// start launches the transport reader once.
func (r *Runner) start() {
	r.startOnce.Do(func() {
		go r.readLoop()
	})
}

func (r *Runner) readLoop() {
	reader := bufio.NewReader(r.transport)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			r.lines <- received{text: text}
		}
		if err != nil {
			r.lines <- received{err: err}
			close(r.lines)
			return
		}
	}
}

// readsData reports whether a command line yields a data line on success.
// Lines the local parser rejects are answered with a diagnostic only.
func readsData(text string) bool {
	cmd, err := protocol.ParseCommand(text)
	if err != nil || cmd == nil {
		return false
	}
	return cmd.Kind().ReadsData()
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func (r *Runner) step(s Step) {
	if r.config.StepCallback != nil {
		r.config.StepCallback(s)
	}
}

// logDebug logs a debug message if a logger is configured.
func (r *Runner) logDebug(msg string, keysAndValues ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (r *Runner) logInfo(msg string, keysAndValues ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (r *Runner) logError(msg string, keysAndValues ...any) {
	if r.config.Logger != nil {
		r.config.Logger.Error(msg, keysAndValues...)
	}
}
