package protocol

// ProtocolVersion is the line protocol revision implemented by this library.
// Revision 2 is the spaced grammar with the combined "wr" command.
const ProtocolVersion = "2"

// Address range per the 7-bit I2C addressing scheme.
// 0x00-0x07 and 0x78-0x7F are reserved by the bus specification.
const (
	// MinAddress is the lowest addressable target (0x08)
	MinAddress Address = 0x08

	// MaxAddress is the highest addressable target (0x77)
	MaxAddress Address = 0x77

	// NoAddress is the session sentinel meaning no target has been selected.
	// It is never a valid target.
	NoAddress Address = 0x00
)

// MaxTransferSize is the largest payload or read count accepted per command.
// Matches the 32-byte transmit/receive buffer of the bus controller.
const MaxTransferSize = 32

// MaxLineLength bounds one protocol line, terminator included.
// The longest well-formed command is far below it.
const MaxLineLength = 1024

// Command tokens.
const (
	// TokenSetAddress selects the target address
	TokenSetAddress = "a"

	// TokenWrite writes bytes to the current address
	TokenWrite = "w"

	// TokenRead reads bytes from the current address
	TokenRead = "r"

	// TokenWriteRead writes bytes then reads bytes as two bus phases
	TokenWriteRead = "wr"
)

// Bus result codes returned by the bus primitive after a write transaction.
const (
	// ResultSuccess indicates the transaction completed and was acknowledged
	ResultSuccess ResultCode = 0

	// ResultDataTooLong indicates the payload exceeded the controller buffer
	ResultDataTooLong ResultCode = 1

	// ResultNackAddress indicates the address byte was not acknowledged
	ResultNackAddress ResultCode = 2

	// ResultNackData indicates a data byte was not acknowledged
	ResultNackData ResultCode = 3

	// ResultOther indicates any other bus failure
	ResultOther ResultCode = 4
)

// DiagnosticPrefix starts every physical line on the diagnostic channel.
// Data lines never carry it.
const DiagnosticPrefix = "[DBG] "

// LineTerminator ends every line in both directions.
const LineTerminator = "\n"
