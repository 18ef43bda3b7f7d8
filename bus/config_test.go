package bus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-i2cbridge/protocol"
)

func TestParseDevices(t *testing.T) {
	input := `
devices:
  - name: imu
    address: 0x6b
    registers:
      0x0f: 0x6c
      0x10: 7f
    read_only: [0x0f]
  - name: eeprom
    address: "50"
    read_limit: 4
`
	sim, err := ParseDevices(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []protocol.Address{0x50, 0x6B}, sim.Addresses())

	imu, ok := sim.Device(0x6B)
	require.True(t, ok)
	assert.Equal(t, "imu", imu.Name)
	assert.Equal(t, byte(0x6C), imu.Register(0x0F))
	assert.Equal(t, byte(0x7F), imu.Register(0x10))
	assert.Equal(t, protocol.ResultNackData, sim.Transmit(0x6B, []byte{0x0F, 0x00}))

	eeprom, ok := sim.Device(0x50)
	require.True(t, ok)
	assert.Equal(t, 4, eeprom.ReadLimit)
}

func TestParseDevices_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "reserved address",
			input:  "devices:\n  - address: 0x03\n",
			errMsg: "invalid address",
		},
		{
			name:   "duplicate address",
			input:  "devices:\n  - address: 0x20\n  - address: 0x20\n",
			errMsg: "duplicate address",
		},
		{
			name:   "bad register value",
			input:  "devices:\n  - address: 0x20\n    registers:\n      0x01: 0x100\n",
			errMsg: "invalid hex",
		},
		{
			name:   "negative read limit",
			input:  "devices:\n  - address: 0x20\n    read_limit: -1\n",
			errMsg: "read_limit",
		},
		{
			name:   "not yaml",
			input:  "devices: [",
			errMsg: "failed to parse devices file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDevices(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseDevices_Empty(t *testing.T) {
	sim, err := ParseDevices(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, sim.Addresses())
}

func TestLoadDevices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - address: 0x6b\n"), 0o644))

	sim, err := LoadDevices(path)
	require.NoError(t, err)
	assert.Equal(t, []protocol.Address{0x6B}, sim.Addresses())

	_, err = LoadDevices(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open devices file")
}
