// Package bridge executes the I2C bridge line protocol against a bus.
//
// # Overview
//
// A Bridge owns the session state (the current target address) and drives a
// Bus primitive for every protocol line:
//   - "a" selects the target address
//   - "w" performs one write transaction
//   - "r" performs one read request
//   - "wr" performs a write transaction followed by a read request
//   - anything else produces usage help
//
// # Basic Usage
//
//	sim := bus.NewSimulator()
//	sim.Attach(bus.NewDevice(0x6B))
//
//	b := bridge.New(sim, bridge.WithDebug(true))
//
//	// Serve a serial port, one line at a time
//	err := b.Serve(ctx, port)
//
// # Output Channels
//
// Replies are multiplexed on the port:
//   - one bare hex data line per successful "r" or "wr"
//   - diagnostic lines prefixed with protocol.DiagnosticPrefix
//
// Informational diagnostics are only emitted when debug output is enabled.
// Error diagnostics and the start-up banner are always emitted.
//
// # Error Handling
//
// Command failures never stop the session; they are written to the
// diagnostic channel and reported through the EventCallback:
//   - protocol parse errors (invalid hex, address, byte count)
//   - ErrNoAddressSet: a transaction was attempted before "a"
//   - ErrNoDeviceResponse: a read yielded no bytes
//   - BusError: the bus returned a non-zero result code
//
// # Write-then-read
//
// "wr" runs two independent transactions. When the write phase fails its
// error is reported and the read phase is still attempted.
package bridge
