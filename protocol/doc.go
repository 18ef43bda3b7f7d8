// Package protocol implements the ASCII line protocol spoken by the I2C bridge.
//
// This package provides the hex codec, the command parser and the response
// formatter shared by the device side (package bridge) and the host side
// (package script).
//
// # Protocol Overview
//
// One command per line, newline-terminated, arguments separated by whitespace:
//
//	a <addr>                 set target address (0x08-0x77)
//	w <b1> [<b2> ...]        write 1-32 bytes to the target
//	r <count>                read 1-32 bytes from the target
//	wr <b1> [...] <count>    write, then read, as two bus transactions
//	<anything else>          usage help
//
// Where every argument is a one- or two-digit hex byte, case-insensitive.
//
// Replies travel on two channels multiplexed over the same stream:
//   - Data lines: space-separated uppercase hex pairs, e.g. "6C 01"
//   - Diagnostic lines: prefixed with DiagnosticPrefix ("[DBG] ")
//
// # Parsing Commands
//
// ParseCommand returns one of the Command variants:
//
//	cmd, err := protocol.ParseCommand("wr 0f 1")
//	switch c := cmd.(type) {
//	case protocol.WriteRead:
//	    // c.Data = []byte{0x0F}, c.Count = 1
//	}
//
// # Formatting Replies
//
//	line := protocol.FormatData([]byte{0x6C})          // "6C"
//	diag := protocol.FormatDiagnostic("line1\nline2") // "[DBG] line1\n[DBG] line2\n"
//
// # Error Handling
//
// Validation failures are typed and match sentinels with errors.Is:
//
//	_, err := protocol.ParseCommand("a 78")
//	errors.Is(err, protocol.ErrInvalidAddress) // true
//
// Bus result codes are represented by ResultCode:
//
//	protocol.ResultNackAddress.String() // "NACK on address"
package protocol
