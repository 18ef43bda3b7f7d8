package bridge

import (
	"io"

	"github.com/moffa90/go-i2cbridge/protocol"
)

const helpText = `I2C bridge, protocol ` + protocol.ProtocolVersion + `. Arguments are hex bytes.
  a <addr>                set target address (08-77)
  w <b1> [<b2> ...]       write 1-32 bytes to the target
  r <count>               read count bytes (01-20) from the target
  wr <b1> [...] <count>   write bytes, then read count bytes
Diagnostics start with ` + protocol.DiagnosticPrefix + `; data lines are bare hex.`

// channelWriter multiplexes the data and diagnostic channels onto one stream.
// The first write error sticks and suppresses further output.
type channelWriter struct {
	w     io.Writer
	debug bool
	err   error
}

// diagnostic emits msg on the diagnostic channel.
// Unforced messages are dropped unless debug output is enabled.
func (c *channelWriter) diagnostic(force bool, msg string) {
	if !force && !c.debug {
		return
	}
	c.write(protocol.FormatDiagnostic(msg))
}

// data emits one data line.
func (c *channelWriter) data(payload []byte) {
	c.write(protocol.FormatData(payload) + protocol.LineTerminator)
}

func (c *channelWriter) write(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.w, s)
}
