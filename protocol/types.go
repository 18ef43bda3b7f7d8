package protocol

import "fmt"

// Address is a 7-bit I2C target address.
type Address byte

// Valid reports whether a is an addressable target (0x08-0x77).
func (a Address) Valid() bool {
	return a >= MinAddress && a <= MaxAddress
}

// String returns the address as 0xNN.
func (a Address) String() string {
	return fmt.Sprintf("0x%02X", byte(a))
}

// ResultCode is the status reported by the bus primitive for a write transaction.
type ResultCode byte

// String returns a human-readable name for the result code.
func (c ResultCode) String() string {
	switch c {
	case ResultSuccess:
		return "success"
	case ResultDataTooLong:
		return "data too long"
	case ResultNackAddress:
		return "NACK on address"
	case ResultNackData:
		return "NACK on data"
	default:
		return "other error"
	}
}

// Kind identifies the variant of a parsed Command.
type Kind int

const (
	// KindHelp is any unrecognised line; it produces usage help
	KindHelp Kind = iota

	// KindSetAddress selects the target address
	KindSetAddress

	// KindWrite writes bytes
	KindWrite

	// KindRead reads bytes
	KindRead

	// KindWriteRead writes then reads
	KindWriteRead
)

// String returns the command token for the kind.
func (k Kind) String() string {
	switch k {
	case KindSetAddress:
		return TokenSetAddress
	case KindWrite:
		return TokenWrite
	case KindRead:
		return TokenRead
	case KindWriteRead:
		return TokenWriteRead
	default:
		return "help"
	}
}

// ReadsData reports whether a successful command of this kind yields a data line.
func (k Kind) ReadsData() bool {
	return k == KindRead || k == KindWriteRead
}

// Command is a parsed protocol line.
// The concrete type is one of SetAddress, Write, Read, WriteRead or Help.
type Command interface {
	// Kind returns the command variant
	Kind() Kind

	// String renders the canonical wire form, without the line terminator
	String() string

	isCommand()
}

// SetAddress selects the target for subsequent transactions.
type SetAddress struct {
	Address Address
}

// Write sends Data to the current target in one transaction.
type Write struct {
	Data []byte
}

// Read requests Count bytes from the current target.
type Read struct {
	Count int
}

// WriteRead sends Data, then requests Count bytes, as two transactions.
type WriteRead struct {
	Data  []byte
	Count int
}

// Help is produced for any line whose first token is not a known command.
type Help struct {
	// Token is the unrecognised first token
	Token string
}

func (SetAddress) Kind() Kind { return KindSetAddress }
func (Write) Kind() Kind      { return KindWrite }
func (Read) Kind() Kind       { return KindRead }
func (WriteRead) Kind() Kind  { return KindWriteRead }
func (Help) Kind() Kind       { return KindHelp }

func (c SetAddress) String() string {
	return TokenSetAddress + " " + EncodeByte(byte(c.Address))
}

func (c Write) String() string {
	return TokenWrite + " " + EncodeSequence(c.Data)
}

func (c Read) String() string {
	return TokenRead + " " + EncodeByte(byte(c.Count))
}

func (c WriteRead) String() string {
	return TokenWriteRead + " " + EncodeSequence(c.Data) + " " + EncodeByte(byte(c.Count))
}

func (c Help) String() string {
	return c.Token
}

func (SetAddress) isCommand() {}
func (Write) isCommand()      {}
func (Read) isCommand()       {}
func (WriteRead) isCommand()  {}
func (Help) isCommand()       {}
