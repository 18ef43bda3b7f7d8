// Package bus provides bus primitives for the bridge.
//
// Two implementations of bridge.Bus are available:
//   - Simulator: an in-memory bus of register-mapped devices, for tests,
//     demos and host-script development without hardware
//   - I2CDev: a Linux i2c-dev node such as /dev/i2c-1
//
// # Simulated Devices
//
// Devices can be built in code or loaded from YAML:
//
//	devices:
//	  - name: imu
//	    address: 0x6b
//	    registers:
//	      0x0f: 0x6c    # WHO_AM_I
//	    read_only: [0x0f]
//	    read_limit: 0   # supply every requested byte
//
//	sim, err := bus.LoadDevices("devices.yaml")
//
// A simulated device uses the common register-pointer convention: the first
// written byte selects a register, following bytes are stored from there and
// reads continue from the pointer.
//
// # Result Codes
//
// Both implementations map failures to protocol result codes:
//   - missing device: protocol.ResultNackAddress
//   - payload over protocol.MaxTransferSize: protocol.ResultDataTooLong
//   - rejected data byte: protocol.ResultNackData
package bus
