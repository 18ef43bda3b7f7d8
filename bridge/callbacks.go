package bridge

import (
	"time"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// Event describes one executed protocol line.
// Passed to EventCallback after the line has been fully handled.
type Event struct {
	// Kind is the command variant of the line
	Kind protocol.Kind

	// Line is the trimmed input line
	Line string

	// Address is the session address when the command finished
	Address protocol.Address

	// BytesWritten is the number of payload bytes acknowledged by the bus
	BytesWritten int

	// BytesRead is the number of bytes returned on the data channel
	BytesRead int

	// Errors holds every error reported for the line, in order.
	// A write-then-read line may carry one error per phase.
	Errors []error

	// Duration is the time spent executing the line
	Duration time.Duration
}

// OK reports whether the line executed without any error.
func (e Event) OK() bool {
	return len(e.Errors) == 0
}

// EventCallback is called once per handled line.
// Implementations should return quickly; the bridge does not read the next
// line until the callback returns.
//
// Example:
//
//	b := bridge.New(bus,
//	    bridge.WithEventCallback(func(e bridge.Event) {
//	        fmt.Printf("%s took %s\n", e.Kind, e.Duration)
//	    }),
//	)
type EventCallback func(Event)

// Logger is an optional logging interface that can be provided to the bridge.
// *slog.Logger satisfies it.
//
// Example:
//
//	b := bridge.New(bus, bridge.WithLogger(slog.Default()))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...any)
}
