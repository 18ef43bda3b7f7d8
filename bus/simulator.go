package bus

import (
	"sort"
	"sync"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/protocol"
)

// RegisterCount is the size of a simulated device's register file.
const RegisterCount = 256

var _ bridge.Bus = (*Simulator)(nil)

// Device simulates a register-mapped I2C target.
//
// The first byte of every write selects the register pointer; the following
// bytes are stored at the pointer, which auto-increments and wraps. Reads
// return registers starting at the pointer, also auto-incrementing.
type Device struct {
	// Name is a label used in logs
	Name string

	// Address is the 7-bit target address
	Address protocol.Address

	// ReadLimit caps the bytes supplied per read request (0 = no cap)
	ReadLimit int

	registers [RegisterCount]byte
	readOnly  [RegisterCount]bool
	pointer   byte
}

// NewDevice creates a device with all registers cleared.
func NewDevice(addr protocol.Address) *Device {
	return &Device{Address: addr}
}

// SetRegister stores value in register reg.
func (d *Device) SetRegister(reg, value byte) {
	d.registers[reg] = value
}

// Register returns the value of register reg.
func (d *Device) Register(reg byte) byte {
	return d.registers[reg]
}

// SetReadOnly marks register reg as read-only. Writing it NACKs the data byte.
func (d *Device) SetReadOnly(reg byte, readOnly bool) {
	d.readOnly[reg] = readOnly
}

// Pointer returns the current register pointer.
func (d *Device) Pointer() byte {
	return d.pointer
}

func (d *Device) write(data []byte) protocol.ResultCode {
	d.pointer = data[0]
	for _, b := range data[1:] {
		if d.readOnly[d.pointer] {
			return protocol.ResultNackData
		}
		d.registers[d.pointer] = b
		d.pointer++
	}
	return protocol.ResultSuccess
}

func (d *Device) read(count int) []byte {
	if d.ReadLimit > 0 && count > d.ReadLimit {
		count = d.ReadLimit
	}
	out := make([]byte, count)
	for i := range out {
		out[i] = d.registers[d.pointer]
		d.pointer++
	}
	return out
}

// Simulator is an in-memory bus populated with simulated devices.
// It implements bridge.Bus and is safe for concurrent use.
type Simulator struct {
	mu      sync.Mutex
	devices map[protocol.Address]*Device
}

// NewSimulator creates a simulator with the given devices attached.
//
// Example:
//
//	imu := bus.NewDevice(0x6B)
//	imu.SetRegister(0x0F, 0x6C) // WHO_AM_I
//	sim := bus.NewSimulator(imu)
func NewSimulator(devices ...*Device) *Simulator {
	s := &Simulator{devices: make(map[protocol.Address]*Device)}
	for _, d := range devices {
		s.Attach(d)
	}
	return s
}

// Attach connects d to the bus, replacing any device at the same address.
func (s *Simulator) Attach(d *Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.Address] = d
}

// Detach disconnects the device at addr, if any.
func (s *Simulator) Detach(addr protocol.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.devices, addr)
}

// Device returns the device attached at addr.
func (s *Simulator) Device(addr protocol.Address) (*Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[addr]
	return d, ok
}

// Addresses returns the attached addresses in ascending order.
func (s *Simulator) Addresses() []protocol.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	addrs := make([]protocol.Address, 0, len(s.devices))
	for addr := range s.devices {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Transmit implements bridge.Bus.
func (s *Simulator) Transmit(addr protocol.Address, data []byte) protocol.ResultCode {
	if len(data) > protocol.MaxTransferSize {
		return protocol.ResultDataTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[addr]
	if !ok {
		return protocol.ResultNackAddress
	}
	if len(data) == 0 {
		return protocol.ResultSuccess
	}
	return d.write(data)
}

// Request implements bridge.Bus.
func (s *Simulator) Request(addr protocol.Address, count int) []byte {
	if count <= 0 {
		return nil
	}
	if count > protocol.MaxTransferSize {
		count = protocol.MaxTransferSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[addr]
	if !ok {
		return nil
	}
	return d.read(count)
}
