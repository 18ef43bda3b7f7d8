package script

import "fmt"

// StepKind identifies an entry of the run audit trail.
type StepKind int

const (
	// StepSend is a command written to the transport
	StepSend StepKind = iota

	// StepDiagnostic is a diagnostic line received from the device
	StepDiagnostic

	// StepReply is a data line received from the device
	StepReply

	// StepExpect is an evaluated EXPECT directive
	StepExpect
)

// Step is one entry of the run audit trail.
type Step struct {
	// Kind is the entry type
	Kind StepKind

	// Line is the script line being executed; nil while draining start-up output
	Line *Line

	// Text is the sent command or the received line
	Text string

	// Outcome is set for StepExpect
	Outcome *Outcome
}

// String renders the step the way the command-line runner prints it.
func (s Step) String() string {
	switch s.Kind {
	case StepSend:
		return "---> " + s.Text
	case StepDiagnostic:
		return "     " + s.Text
	case StepReply:
		return "<--- " + s.Text
	case StepExpect:
		status := "PASS"
		if !s.Outcome.Passed {
			status = "FAIL"
		}
		detail := fmt.Sprintf("%s %q on %q", status, s.Outcome.Pattern, s.Outcome.Reply)
		if s.Outcome.Err != nil {
			detail += ": " + s.Outcome.Err.Error()
		}
		return fmt.Sprintf("line %d: %s", s.Outcome.Line, detail)
	}
	return s.Text
}

// StepCallback receives the audit trail of a run, one step at a time.
type StepCallback func(Step)

// Logger is an optional logging interface that can be provided to the runner.
// *slog.Logger satisfies it.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...any)
}
