//go:build linux

package bus

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/protocol"
)

// i2cSlave is the i2c-dev ioctl selecting the target address (linux/i2c-dev.h).
const i2cSlave = 0x0703

var _ bridge.Bus = (*I2CDev)(nil)

// I2CDev drives a Linux i2c-dev character device such as /dev/i2c-1.
type I2CDev struct {
	mu       sync.Mutex
	path     string
	fd       int
	selected protocol.Address
}

// OpenI2CDev opens the i2c-dev node at path.
//
// Example:
//
//	dev, err := bus.OpenI2CDev("/dev/i2c-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
func OpenI2CDev(path string) (*I2CDev, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &I2CDev{path: path, fd: fd}, nil
}

// Close releases the device node.
func (d *I2CDev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *I2CDev) selectAddress(addr protocol.Address) error {
	if d.fd < 0 {
		return unix.EBADF
	}
	if d.selected == addr {
		return nil
	}
	if err := unix.IoctlSetInt(d.fd, i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("select %s: %w", addr, err)
	}
	d.selected = addr
	return nil
}

// Transmit implements bridge.Bus.
func (d *I2CDev) Transmit(addr protocol.Address, data []byte) protocol.ResultCode {
	if len(data) > protocol.MaxTransferSize {
		return protocol.ResultDataTooLong
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.selectAddress(addr); err != nil {
		return protocol.ResultOther
	}

	n, err := unix.Write(d.fd, data)
	switch {
	case err != nil:
		return resultCodeOf(err)
	case n < len(data):
		return protocol.ResultNackData
	}
	return protocol.ResultSuccess
}

// Request implements bridge.Bus.
func (d *I2CDev) Request(addr protocol.Address, count int) []byte {
	if count <= 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.selectAddress(addr); err != nil {
		return nil
	}

	buf := make([]byte, count)
	n, err := unix.Read(d.fd, buf)
	if err != nil || n <= 0 {
		return nil
	}
	return buf[:n]
}

// resultCodeOf maps i2c-dev errno values to bus result codes.
func resultCodeOf(err error) protocol.ResultCode {
	switch {
	case errors.Is(err, unix.ENXIO), errors.Is(err, unix.EREMOTEIO):
		return protocol.ResultNackAddress
	case errors.Is(err, unix.EMSGSIZE), errors.Is(err, unix.EOVERFLOW):
		return protocol.ResultDataTooLong
	default:
		return protocol.ResultOther
	}
}
