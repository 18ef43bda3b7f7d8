package script

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTransportTimeout is matched by every *TimeoutError
	ErrTransportTimeout = errors.New("transport timeout")

	// ErrTransportClosed indicates the transport reached end of stream
	ErrTransportClosed = errors.New("transport closed")
)

// TimeoutError indicates that no reply arrived for a read-bearing command.
// It aborts the run.
type TimeoutError struct {
	// Command is the command text that went unanswered
	Command string

	// Timeout is how long the runner waited
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no reply to %q within %s", e.Command, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTransportTimeout
}

// ExpectationError summarises failed EXPECT directives.
// It does not abort a run; it is reported by Report.Err once the run completes.
type ExpectationError struct {
	Failed int
	Total  int
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%d of %d expectations failed", e.Failed, e.Total)
}

// IsTimeout returns true if err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTransportTimeout)
}
