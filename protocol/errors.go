package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	// ErrInvalidHex is matched by every *HexError
	ErrInvalidHex = errors.New("invalid hex")

	// ErrInvalidAddress is matched by every *AddressError
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidByteCount is matched by every *ByteCountError
	ErrInvalidByteCount = errors.New("invalid byte count")

	// ErrLineTooLong indicates a line exceeding MaxLineLength
	ErrLineTooLong = errors.New("line too long")

	// ErrEmptySequence indicates that a hex sequence contained no tokens
	ErrEmptySequence = errors.New("no hex bytes given")
)

// HexError reports a token that is not a one- or two-digit hex byte.
type HexError struct {
	Token string
}

func (e *HexError) Error() string {
	if e.Token == "" {
		return "invalid hex: empty token"
	}
	return fmt.Sprintf("invalid hex: %q is not a hex byte", e.Token)
}

func (e *HexError) Is(target error) bool {
	return target == ErrInvalidHex
}

// AddressError reports an address argument outside 0x08-0x77 or not a single byte.
type AddressError struct {
	// Token is the raw argument text
	Token string

	// Err is the underlying decode error, if the token was not a hex byte
	Err error
}

func (e *AddressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid address %q: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("invalid address %q: valid range is %s-%s", e.Token, MinAddress, MaxAddress)
}

func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// ByteCountError reports a byte count or payload size outside 1-MaxTransferSize.
type ByteCountError struct {
	// What names the offending argument ("read count", "write payload")
	What string

	// Count is the offending value, or -1 when the argument is missing
	Count int

	// Err is the underlying error, if any
	Err error
}

func (e *ByteCountError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("invalid %s: %v", e.What, e.Err)
	case e.Count < 0:
		return fmt.Sprintf("invalid %s: missing", e.What)
	default:
		return fmt.Sprintf("invalid %s: %d is out of range 1-%d", e.What, e.Count, MaxTransferSize)
	}
}

func (e *ByteCountError) Is(target error) bool {
	return target == ErrInvalidByteCount
}

func (e *ByteCountError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is any of the command validation errors.
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidHex) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidByteCount) ||
		errors.Is(err, ErrLineTooLong)
}
