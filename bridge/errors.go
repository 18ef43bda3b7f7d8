package bridge

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-i2cbridge/protocol"
)

var (
	// ErrNoAddressSet indicates a transaction was attempted before any valid "a" command.
	ErrNoAddressSet = errors.New("no address set: select a target with 'a <addr>' first")

	// ErrNoDeviceResponse indicates that a read request yielded no bytes.
	ErrNoDeviceResponse = errors.New("no device response")
)

// BusError indicates that the bus primitive returned a non-zero result code.
type BusError struct {
	// Operation is the transaction that failed ("write")
	Operation string

	// Address is the target of the transaction
	Address protocol.Address

	// Code is the result code reported by the bus
	Code protocol.ResultCode
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s to %s failed: %s (code %d)", e.Operation, e.Address, e.Code, byte(e.Code))
}

// IsBusError returns true if err is or wraps a *BusError.
func IsBusError(err error) bool {
	var be *BusError
	return errors.As(err, &be)
}

// ResultCodeOf returns the bus result code carried by err.
// It returns protocol.ResultSuccess when err is nil and protocol.ResultOther
// when err is not a bus error.
func ResultCodeOf(err error) protocol.ResultCode {
	if err == nil {
		return protocol.ResultSuccess
	}
	var be *BusError
	if errors.As(err, &be) {
		return be.Code
	}
	return protocol.ResultOther
}
