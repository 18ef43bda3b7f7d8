package bus

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// DeviceConfig describes one simulated device in a devices file.
type DeviceConfig struct {
	Name      string              `yaml:"name"`
	Address   HexByte             `yaml:"address"`
	Registers map[HexByte]HexByte `yaml:"registers"`
	ReadOnly  []HexByte           `yaml:"read_only"`
	ReadLimit int                 `yaml:"read_limit"`
}

// DevicesFile is the structure of a simulated devices file.
//
// Example:
//
//	devices:
//	  - name: imu
//	    address: 0x6b
//	    registers:
//	      0x0f: 0x6c
//	    read_only: [0x0f]
type DevicesFile struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// HexByte is a byte that decodes from YAML integers ("0x6b", "107") or from
// strings, which are read as hex ("6b", "50").
type HexByte byte

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HexByte) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a byte value", value.Line)
	}

	if value.ShortTag() == "!!int" {
		v, err := strconv.ParseUint(value.Value, 0, 8)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, &protocol.HexError{Token: value.Value})
		}
		*h = HexByte(v)
		return nil
	}

	b, err := protocol.DecodeByte(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = HexByte(b)
	return nil
}

// LoadDevices reads a devices file and builds a simulator from it.
func LoadDevices(path string) (*Simulator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open devices file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseDevices(f)
}

// ParseDevices builds a simulator from a devices file read from r.
func ParseDevices(r io.Reader) (*Simulator, error) {
	var file DevicesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return NewSimulator(), nil
		}
		return nil, fmt.Errorf("failed to parse devices file: %w", err)
	}

	sim := NewSimulator()
	for i, cfg := range file.Devices {
		addr := protocol.Address(cfg.Address)
		if !addr.Valid() {
			return nil, fmt.Errorf("device %d (%s): %w", i, cfg.Name,
				&protocol.AddressError{Token: protocol.EncodeByte(byte(addr))})
		}
		if _, dup := sim.Device(addr); dup {
			return nil, fmt.Errorf("device %d (%s): duplicate address %s", i, cfg.Name, addr)
		}
		if cfg.ReadLimit < 0 {
			return nil, fmt.Errorf("device %d (%s): read_limit must not be negative", i, cfg.Name)
		}

		d := NewDevice(addr)
		d.Name = cfg.Name
		d.ReadLimit = cfg.ReadLimit
		for reg, value := range cfg.Registers {
			d.SetRegister(byte(reg), byte(value))
		}
		for _, reg := range cfg.ReadOnly {
			d.SetReadOnly(byte(reg), true)
		}

		sim.Attach(d)
	}

	return sim, nil
}
