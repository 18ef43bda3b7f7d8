package protocol

import (
	"fmt"
	"strings"
)

// ParseCommand parses one protocol line into a Command.
// Surrounding whitespace is ignored. An empty line yields a nil Command and nil error.
// A line whose first token is not a known command yields Help, never an error.
//
// Grammar:
//
//	a  <addr>                 set target address (0x08-0x77)
//	w  <b1> [<b2> ... <b32>]  write 1-32 bytes
//	r  <count>                read 1-32 bytes
//	wr <b1> [... <b32>] <count>
//	                          write 1-32 bytes, then read count bytes
//
// All arguments are one- or two-digit hex bytes.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}

	args := fields[1:]
	switch fields[0] {
	case TokenSetAddress:
		return parseSetAddress(args)
	case TokenWrite:
		return parseWrite(args)
	case TokenRead:
		return parseRead(args)
	case TokenWriteRead:
		return parseWriteRead(args)
	default:
		return Help{Token: fields[0]}, nil
	}
}

func parseSetAddress(args []string) (Command, error) {
	if len(args) != 1 {
		return nil, &AddressError{Token: strings.Join(args, " ")}
	}

	b, err := DecodeByte(args[0])
	if err != nil {
		return nil, &AddressError{Token: args[0], Err: err}
	}

	addr := Address(b)
	if !addr.Valid() {
		return nil, &AddressError{Token: args[0]}
	}

	return SetAddress{Address: addr}, nil
}

func parseWrite(args []string) (Command, error) {
	data, err := parsePayload(args)
	if err != nil {
		return nil, err
	}
	return Write{Data: data}, nil
}

func parseRead(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, &ByteCountError{What: "read count", Count: -1}
	}
	if len(args) > 1 {
		return nil, &ByteCountError{What: "read count", Count: -1, Err: fmt.Errorf("expected one argument, got %d", len(args))}
	}

	count, err := parseCount(args[0])
	if err != nil {
		return nil, err
	}
	return Read{Count: count}, nil
}

func parseWriteRead(args []string) (Command, error) {
	if len(args) < 2 {
		if len(args) == 1 {
			if _, err := DecodeByte(args[0]); err != nil {
				return nil, err
			}
		}
		return nil, &ByteCountError{What: "read count", Count: -1}
	}

	last := len(args) - 1
	data, err := parsePayload(args[:last])
	if err != nil {
		return nil, err
	}

	count, err := parseCount(args[last])
	if err != nil {
		return nil, err
	}

	return WriteRead{Data: data, Count: count}, nil
}

// parsePayload decodes a write payload of 1-MaxTransferSize bytes.
func parsePayload(tokens []string) ([]byte, error) {
	if len(tokens) > MaxTransferSize {
		return nil, &ByteCountError{What: "write payload", Count: len(tokens)}
	}

	data, err := decodeTokens(tokens, MaxTransferSize)
	if err != nil {
		if err == ErrEmptySequence {
			return nil, &ByteCountError{What: "write payload", Count: 0, Err: err}
		}
		return nil, err
	}

	return data, nil
}

// parseCount decodes a read count in 1-MaxTransferSize.
func parseCount(token string) (int, error) {
	b, err := DecodeByte(token)
	if err != nil {
		return 0, err
	}

	count := int(b)
	if count < 1 || count > MaxTransferSize {
		return 0, &ByteCountError{What: "read count", Count: count}
	}

	return count, nil
}
