package bridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// Bus is the bus transaction primitive driven by the bridge.
// Implementations own clock generation and acknowledge handling; the bridge
// only relies on the result-code contract below.
type Bus interface {
	// Transmit performs one write transaction (begin, write each byte, end)
	// against addr and returns the controller result code.
	Transmit(addr protocol.Address, data []byte) protocol.ResultCode

	// Request asks addr for count bytes and returns the bytes the device made
	// available, which may be fewer than count or none at all.
	Request(addr protocol.Address, count int) []byte
}

// Bridge executes protocol lines against a Bus.
// It owns the session state: the current target address.
//
// Bridge is not safe for concurrent use. One Serve loop (or one caller of
// Handle) owns a Bridge at a time, which guarantees that a line is fully
// executed and answered before the next one is read.
type Bridge struct {
	bus    Bus
	config Config
	addr   protocol.Address
}

// New creates a new Bridge driving the given bus.
//
// Example:
//
//	sim := bus.NewSimulator()
//	b := bridge.New(sim,
//	    bridge.WithDebug(true),
//	    bridge.WithLogger(logger),
//	)
func New(bus Bus, opts ...Option) *Bridge {
	if bus == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Bridge{
		bus:    bus,
		config: cfg,
		addr:   protocol.NoAddress,
	}
}

// Address returns the current target address and whether one is set.
func (b *Bridge) Address() (protocol.Address, bool) {
	return b.addr, b.addr != protocol.NoAddress
}

// SetAddress selects the target for subsequent transactions.
// Addresses outside 0x08-0x77 are rejected and leave the session unchanged.
func (b *Bridge) SetAddress(addr protocol.Address) error {
	if !addr.Valid() {
		return &protocol.AddressError{Token: protocol.EncodeByte(byte(addr))}
	}
	b.addr = addr
	return nil
}

// Write sends data to the current target in a single bus transaction.
// Any non-zero result code is returned as a *BusError.
func (b *Bridge) Write(data []byte) error {
	if b.addr == protocol.NoAddress {
		return ErrNoAddressSet
	}
	if len(data) == 0 {
		return &protocol.ByteCountError{What: "write payload", Err: protocol.ErrEmptySequence}
	}

	code := b.bus.Transmit(b.addr, data)
	if code != protocol.ResultSuccess {
		return &BusError{
			Operation: "write",
			Address:   b.addr,
			Code:      code,
		}
	}

	return nil
}

// Read requests count bytes from the current target.
// It returns exactly the bytes the device made available, which may be
// fewer than requested. No bytes at all is reported as ErrNoDeviceResponse.
func (b *Bridge) Read(count int) ([]byte, error) {
	if b.addr == protocol.NoAddress {
		return nil, ErrNoAddressSet
	}
	if count < 1 || count > protocol.MaxTransferSize {
		return nil, &protocol.ByteCountError{What: "read count", Count: count}
	}

	data := b.bus.Request(b.addr, count)
	if len(data) == 0 {
		return nil, fmt.Errorf("read %d bytes from %s: %w", count, b.addr, ErrNoDeviceResponse)
	}
	if len(data) > count {
		data = data[:count]
	}

	return data, nil
}

// Handle parses and executes one protocol line, writing any data line and
// diagnostics to w. Command failures are reported on the diagnostic channel
// and never returned; the returned error only reflects failures writing to w.
//
// Example:
//
//	var out bytes.Buffer
//	_ = b.Handle(&out, "a 6b")
//	_ = b.Handle(&out, "wr 0f 1")
//	// out contains "6C\n"
func (b *Bridge) Handle(w io.Writer, line string) error {
	return b.handle(w, line, nil)
}

// handle executes line, or rejects it with rejected when that is non-nil.
func (b *Bridge) handle(w io.Writer, line string, rejected error) error {
	line = strings.TrimSpace(line)
	if line == "" && rejected == nil {
		return nil
	}

	start := time.Now()
	out := &channelWriter{w: w, debug: b.config.Debug}
	event := Event{Line: line}

	var cmd protocol.Command
	err := rejected
	if err == nil {
		cmd, err = protocol.ParseCommand(line)
	}
	if err != nil {
		event.Kind = kindOfToken(line)
		event.Errors = append(event.Errors, err)
		out.diagnostic(true, err.Error())
	} else {
		event.Kind = cmd.Kind()
		b.dispatch(out, cmd, &event)
	}

	event.Address = b.addr
	event.Duration = time.Since(start)

	if event.OK() {
		b.logDebug("line handled", "line", line, "kind", event.Kind.String(), "elapsed", event.Duration.String())
	} else {
		b.logError("line failed", "line", line, "kind", event.Kind.String(), "err", errors.Join(event.Errors...))
	}

	if b.config.EventCallback != nil {
		b.config.EventCallback(event)
	}

	return out.err
}

// dispatch routes a parsed command to the engine.
func (b *Bridge) dispatch(out *channelWriter, cmd protocol.Command, event *Event) {
	switch c := cmd.(type) {
	case protocol.SetAddress:
		if err := b.SetAddress(c.Address); err != nil {
			event.Errors = append(event.Errors, err)
			out.diagnostic(true, err.Error())
			return
		}
		out.diagnostic(false, fmt.Sprintf("address set to %s", c.Address))

	case protocol.Write:
		b.writePhase(out, c.Data, event)

	case protocol.Read:
		b.readPhase(out, c.Count, event)

	case protocol.WriteRead:
		// The phases are independent transactions: a failed write does not
		// cancel the read.
		b.writePhase(out, c.Data, event)
		b.readPhase(out, c.Count, event)

	case protocol.Help:
		out.diagnostic(true, fmt.Sprintf("unknown command %q: expected a, w, r or wr", c.Token))
		out.diagnostic(false, helpText)
	}
}

func (b *Bridge) writePhase(out *channelWriter, data []byte, event *Event) {
	if err := b.Write(data); err != nil {
		event.Errors = append(event.Errors, err)
		out.diagnostic(true, err.Error())
		return
	}
	event.BytesWritten += len(data)
	out.diagnostic(false, fmt.Sprintf("wrote %d bytes to %s: %s", len(data), b.addr, protocol.EncodeSequence(data)))
}

func (b *Bridge) readPhase(out *channelWriter, count int, event *Event) {
	if b.addr != protocol.NoAddress {
		out.diagnostic(false, fmt.Sprintf("requesting %d bytes from %s", count, b.addr))
	}

	data, err := b.Read(count)
	if err != nil {
		event.Errors = append(event.Errors, err)
		out.diagnostic(true, err.Error())
		return
	}
	if len(data) < count {
		out.diagnostic(false, fmt.Sprintf("device supplied %d of %d bytes", len(data), count))
	}

	event.BytesRead += len(data)
	out.data(data)
}

// Serve reads lines from port and answers each one on port until the stream
// ends, a write fails, or ctx is cancelled. Cancellation is observed between
// lines; close the port to interrupt a blocked read.
//
// When the banner is enabled the usage help is emitted once before the first
// line, regardless of the debug setting. A line longer than
// protocol.MaxLineLength is dropped with one diagnostic and the session
// continues.
func (b *Bridge) Serve(ctx context.Context, port io.ReadWriter) error {
	if b.config.Banner {
		out := &channelWriter{w: port, debug: b.config.Debug}
		out.diagnostic(true, helpText)
		if out.err != nil {
			return fmt.Errorf("write banner: %w", out.err)
		}
	}

	b.logInfo("bridge serving", "debug", b.config.Debug)

	reader := bufio.NewReaderSize(port, protocol.MaxLineLength)
	for {
		line, tooLong, readErr := readLine(reader)
		if line != "" || tooLong {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cancelled: %w", err)
			}

			var rejected error
			if tooLong {
				rejected = fmt.Errorf("%w: limit is %d bytes", protocol.ErrLineTooLong, protocol.MaxLineLength)
			}
			if err := b.handle(port, line, rejected); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read line: %w", readErr)
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	return nil
}

// overlongPrefix is how much of a dropped line is kept for logging.
const overlongPrefix = 16

// readLine returns the next line without its terminator. A line longer than
// the reader's buffer is consumed and dropped; only its leading bytes are
// returned, with tooLong set.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if errors.Is(readErr, bufio.ErrBufferFull) {
			if !tooLong {
				line = string(chunk[:min(len(chunk), overlongPrefix)])
			}
			tooLong = true
			continue
		}
		if !tooLong {
			line = string(chunk)
		}
		return strings.TrimRight(line, "\r\n"), tooLong, readErr
	}
}

// kindOfToken classifies a rejected line by its first token.
func kindOfToken(line string) protocol.Kind {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return protocol.KindHelp
	}
	switch fields[0] {
	case protocol.TokenSetAddress:
		return protocol.KindSetAddress
	case protocol.TokenWrite:
		return protocol.KindWrite
	case protocol.TokenRead:
		return protocol.KindRead
	case protocol.TokenWriteRead:
		return protocol.KindWriteRead
	}
	return protocol.KindHelp
}

// logDebug logs a debug message if a logger is configured.
func (b *Bridge) logDebug(msg string, keysAndValues ...any) {
	if b.config.Logger != nil {
		b.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (b *Bridge) logInfo(msg string, keysAndValues ...any) {
	if b.config.Logger != nil {
		b.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (b *Bridge) logError(msg string, keysAndValues ...any) {
	if b.config.Logger != nil {
		b.config.Logger.Error(msg, keysAndValues...)
	}
}
