//go:build !linux

package bus

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// ErrUnsupported is returned by OpenI2CDev on platforms without i2c-dev.
var ErrUnsupported = errors.New("i2c-dev is only available on linux")

// I2CDev drives a Linux i2c-dev character device. It cannot be opened on this platform.
type I2CDev struct{}

// OpenI2CDev always fails on this platform.
func OpenI2CDev(path string) (*I2CDev, error) {
	return nil, fmt.Errorf("open %s: %w", path, ErrUnsupported)
}

// Close implements io.Closer.
func (d *I2CDev) Close() error { return nil }

// Transmit implements bridge.Bus.
func (d *I2CDev) Transmit(addr protocol.Address, data []byte) protocol.ResultCode {
	return protocol.ResultOther
}

// Request implements bridge.Bus.
func (d *I2CDev) Request(addr protocol.Address, count int) []byte {
	return nil
}
