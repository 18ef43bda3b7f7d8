package protocol

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHexError(t *testing.T) {
	err := &HexError{Token: "g4"}

	if !strings.Contains(err.Error(), `"g4"`) {
		t.Errorf("error message should name the token, got: %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidHex) {
		t.Error("HexError should match ErrInvalidHex")
	}

	empty := &HexError{}
	if !strings.Contains(empty.Error(), "empty") {
		t.Errorf("error message should mention empty token, got: %s", empty.Error())
	}
}

func TestAddressError(t *testing.T) {
	err := &AddressError{Token: "78"}
	msg := err.Error()

	if !strings.Contains(msg, "0x08-0x77") {
		t.Errorf("error message should contain the valid range, got: %s", msg)
	}
	if !errors.Is(err, ErrInvalidAddress) {
		t.Error("AddressError should match ErrInvalidAddress")
	}
	if errors.Is(err, ErrInvalidHex) {
		t.Error("range error should not match ErrInvalidHex")
	}

	wrapped := &AddressError{Token: "zz", Err: &HexError{Token: "zz"}}
	if !errors.Is(wrapped, ErrInvalidHex) {
		t.Error("wrapped decode error should match ErrInvalidHex")
	}
}

func TestByteCountError(t *testing.T) {
	tests := []struct {
		name   string
		err    *ByteCountError
		substr string
	}{
		{"out of range", &ByteCountError{What: "read count", Count: 33}, "33 is out of range 1-32"},
		{"missing", &ByteCountError{What: "read count", Count: -1}, "missing"},
		{"wrapped", &ByteCountError{What: "write payload", Err: ErrEmptySequence}, "no hex bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.substr) {
				t.Errorf("error message should contain %q, got: %s", tt.substr, tt.err.Error())
			}
			if !errors.Is(tt.err, ErrInvalidByteCount) {
				t.Error("ByteCountError should match ErrInvalidByteCount")
			}
		})
	}
}

func TestIsParseError(t *testing.T) {
	if !IsParseError(fmt.Errorf("parse: %w", &HexError{Token: "x"})) {
		t.Error("wrapped HexError should be a parse error")
	}
	if !IsParseError(&AddressError{Token: "7"}) {
		t.Error("AddressError should be a parse error")
	}
	if IsParseError(errors.New("other")) {
		t.Error("plain error should not be a parse error")
	}
	if IsParseError(nil) {
		t.Error("nil should not be a parse error")
	}
}

func TestResultCodeString(t *testing.T) {
	tests := []struct {
		code ResultCode
		want string
	}{
		{ResultSuccess, "success"},
		{ResultDataTooLong, "data too long"},
		{ResultNackAddress, "NACK on address"},
		{ResultNackData, "NACK on data"},
		{ResultOther, "other error"},
		{ResultCode(9), "other error"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ResultCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
