// Package transport opens the byte streams the bridge protocol runs over:
// serial ports, TCP connections and the process's standard streams.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// Endpoint kinds.
const (
	KindSerial = "serial"
	KindTCP    = "tcp"
	KindStdio  = "stdio"
)

const (
	tcpScheme = "tcp://"
	stdioName = "-"

	// pollInterval bounds a single serial read so Close is observed promptly
	pollInterval = 100 * time.Millisecond
)

// ErrClosed is returned by reads on a closed serial port.
var ErrClosed = errors.New("port closed")

// Endpoint is a parsed endpoint string.
type Endpoint struct {
	// Kind is KindSerial, KindTCP or KindStdio
	Kind string

	// Address is the device path or host:port
	Address string
}

func (e Endpoint) String() string {
	switch e.Kind {
	case KindTCP:
		return tcpScheme + e.Address
	case KindStdio:
		return stdioName
	}
	return e.Address
}

// ParseEndpoint classifies an endpoint string: "-" is stdio, "tcp://host:port"
// is a TCP connection, anything else is a serial device path.
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Endpoint{}, fmt.Errorf("empty endpoint")
	case s == stdioName:
		return Endpoint{Kind: KindStdio}, nil
	case strings.HasPrefix(s, tcpScheme):
		addr := strings.TrimPrefix(s, tcpScheme)
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return Endpoint{}, fmt.Errorf("invalid tcp endpoint %q: %w", s, err)
		}
		return Endpoint{Kind: KindTCP, Address: addr}, nil
	}
	return Endpoint{Kind: KindSerial, Address: s}, nil
}

// Config holds the options for Open.
type Config struct {
	// BaudRate is the serial line rate
	BaudRate int

	// DialTimeout bounds TCP connection setup
	DialTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		BaudRate:    9600,
		DialTimeout: 5 * time.Second,
	}
}

// Option is a functional option for Open.
type Option func(*Config)

// WithBaudRate sets the serial line rate.
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// WithDialTimeout sets the TCP connection timeout.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.DialTimeout = timeout
		}
	}
}

// Open opens an endpoint for line-oriented traffic.
//
// Example:
//
//	port, err := transport.Open("/dev/ttyACM0", transport.WithBaudRate(115200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
func Open(endpoint string, opts ...Option) (io.ReadWriteCloser, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	switch ep.Kind {
	case KindStdio:
		return Stdio(), nil
	case KindTCP:
		conn, err := net.DialTimeout("tcp", ep.Address, cfg.DialTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", ep.Address, err)
		}
		return conn, nil
	default:
		return openSerial(ep.Address, cfg.BaudRate)
	}
}

// Ports lists the serial ports present on the system.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

func openSerial(path string, baud int) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := port.SetReadTimeout(pollInterval); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", path, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return &serialPort{port: port}, nil
}

// serialPort turns the timed reads of a serial.Port back into blocking reads.
// A timed-out read returns (0, nil), which line scanners treat as a fault.
type serialPort struct {
	port   serial.Port
	closed atomic.Bool
}

func (p *serialPort) Read(b []byte) (int, error) {
	for {
		if p.closed.Load() {
			return 0, ErrClosed
		}
		n, err := p.port.Read(b)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (p *serialPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *serialPort) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.port.Close()
}

// stdio joins stdin and stdout. Close leaves both streams open.
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// Stdio returns the process's standard streams as one endpoint.
func Stdio() io.ReadWriteCloser {
	return stdio{Reader: os.Stdin, Writer: os.Stdout}
}

// Handler serves one accepted connection.
type Handler func(ctx context.Context, conn net.Conn) error

// Serve accepts connections from ln and hands them to handle one at a time,
// matching a UART that has a single peer. It returns when ctx is cancelled or
// the listener fails. Handler errors are passed to onError and do not stop
// the listener.
func Serve(ctx context.Context, ln net.Listener, handle Handler, onError func(net.Addr, error)) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		connCtx, cancel := context.WithCancel(ctx)
		closeConn := context.AfterFunc(connCtx, func() { _ = conn.Close() })

		err = handle(connCtx, conn)
		if err != nil && onError != nil && ctx.Err() == nil {
			onError(conn.RemoteAddr(), err)
		}

		cancel()
		closeConn()
		_ = conn.Close()
	}
}
