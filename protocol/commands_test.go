package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr error
	}{
		{name: "empty line", line: "", want: nil},
		{name: "whitespace line", line: "  \t ", want: nil},

		{name: "set address", line: "a 6b", want: SetAddress{Address: 0x6B}},
		{name: "set address surrounding space", line: "  a 6B  ", want: SetAddress{Address: 0x6B}},
		{name: "set address lower bound", line: "a 08", want: SetAddress{Address: 0x08}},
		{name: "set address upper bound", line: "a 77", want: SetAddress{Address: 0x77}},
		{name: "set address below range", line: "a 07", wantErr: ErrInvalidAddress},
		{name: "set address above range", line: "a 78", wantErr: ErrInvalidAddress},
		{name: "set address zero", line: "a 0", wantErr: ErrInvalidAddress},
		{name: "set address missing", line: "a", wantErr: ErrInvalidAddress},
		{name: "set address two bytes", line: "a 10 11", wantErr: ErrInvalidAddress},
		{name: "set address malformed", line: "a xy", wantErr: ErrInvalidHex},

		{name: "write single byte", line: "w 12", want: Write{Data: []byte{0x12}}},
		{name: "write several bytes", line: "w 12 34 56", want: Write{Data: []byte{0x12, 0x34, 0x56}}},
		{name: "write no bytes", line: "w", wantErr: ErrEmptySequence},
		{name: "write malformed", line: "w 12 zz", wantErr: ErrInvalidHex},
		{name: "write too many bytes", line: "w " + strings.Repeat("00 ", MaxTransferSize+1), wantErr: ErrInvalidByteCount},

		{name: "read lower bound", line: "r 01", want: Read{Count: 1}},
		{name: "read upper bound", line: "r 20", want: Read{Count: 32}},
		{name: "read zero", line: "r 00", wantErr: ErrInvalidByteCount},
		{name: "read above max", line: "r 21", wantErr: ErrInvalidByteCount},
		{name: "read missing count", line: "r", wantErr: ErrInvalidByteCount},
		{name: "read malformed", line: "r q", wantErr: ErrInvalidHex},
		{name: "read extra argument", line: "r 01 02", wantErr: ErrInvalidByteCount},

		{name: "write read", line: "wr f 1", want: WriteRead{Data: []byte{0x0F}, Count: 1}},
		{name: "write read several", line: "wr 0f 10 4", want: WriteRead{Data: []byte{0x0F, 0x10}, Count: 4}},
		{name: "write read missing count", line: "wr 0f", wantErr: ErrInvalidByteCount},
		{name: "write read nothing", line: "wr", wantErr: ErrInvalidByteCount},
		{name: "write read malformed count", line: "wr 0f zz", wantErr: ErrInvalidHex},
		{name: "write read count out of range", line: "wr 0f 21", wantErr: ErrInvalidByteCount},

		{name: "unknown command", line: "x 12", want: Help{Token: "x"}},
		{name: "help", line: "help", want: Help{Token: "help"}},
		{name: "legacy compact read", line: "r42", want: Help{Token: "r42"}},
		{name: "upper case token", line: "R 01", want: Help{Token: "R"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_EmptyPayloadIsByteCountError(t *testing.T) {
	_, err := ParseCommand("w   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidByteCount)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestParseCommand_ReadExtraArgumentMessage(t *testing.T) {
	_, err := ParseCommand("r 01 02")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidHex))
	assert.Equal(t, "invalid read count: expected one argument, got 2", err.Error())
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{SetAddress{Address: 0x6B}, "a 6B"},
		{Write{Data: []byte{0x12, 0x34}}, "w 12 34"},
		{Read{Count: 32}, "r 20"},
		{WriteRead{Data: []byte{0x0F}, Count: 1}, "wr 0F 01"},
		{Help{Token: "?"}, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.String())

			reparsed, err := ParseCommand(tt.cmd.String())
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, reparsed)
		})
	}
}

func TestKind(t *testing.T) {
	assert.True(t, KindRead.ReadsData())
	assert.True(t, KindWriteRead.ReadsData())
	assert.False(t, KindWrite.ReadsData())
	assert.False(t, KindSetAddress.ReadsData())
	assert.False(t, KindHelp.ReadsData())

	assert.Equal(t, "wr", KindWriteRead.String())
	assert.Equal(t, "help", KindHelp.String())
}

func TestAddressValid(t *testing.T) {
	assert.False(t, NoAddress.Valid())
	assert.False(t, Address(0x07).Valid())
	assert.True(t, Address(0x08).Valid())
	assert.True(t, Address(0x77).Valid())
	assert.False(t, Address(0x78).Valid())
	assert.Equal(t, "0x6B", Address(0x6B).String())
}
