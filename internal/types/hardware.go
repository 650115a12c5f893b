package types

// HardwareRegisters is a table of hardware IO registers, which
// can be read and written to. The table is indexed by the
// address of the hardware register ANDed with 0x007F.
//
// Each machine owns its own table, so several machines can run
// side by side without sharing register state.
type HardwareRegisters [0x80]*HardwareRegister

// NewHardwareRegisters returns an empty register table.
func NewHardwareRegisters() *HardwareRegisters {
	return &HardwareRegisters{}
}

// RegisterHardware adds a hardware register with the given address and
// read/write functions. Either function may be nil, in which case the
// register reads as 0xFF or ignores writes, respectively.
func (h *HardwareRegisters) RegisterHardware(address HardwareAddress, write func(v uint8), read func() uint8) {
	h[address&0x007F] = &HardwareRegister{
		address: address,
		write:   write,
		read:    read,
	}
}

// Read returns the value of the hardware register for
// the given address. If the hardware register does not
// exist, or is not readable, it returns 0xFF.
func (h *HardwareRegisters) Read(address uint16) uint8 {
	if reg := h[address&0x007F]; reg != nil {
		return reg.Read()
	}
	return 0xFF
}

// Write writes the given value to the hardware register
// for the given address. If the hardware register does not
// exist, or is not writable, it does nothing.
func (h *HardwareRegisters) Write(address uint16, value uint8) {
	if reg := h[address&0x007F]; reg != nil {
		reg.Write(value)
	}
}

// HardwareRegister represents a hardware register of the Game
// Boy. The hardware IO are used to control and
// read the state of the hardware.
type HardwareRegister struct {
	address HardwareAddress
	write   func(v uint8)
	read    func() uint8
}

// Address returns the address the register is mapped to.
func (h *HardwareRegister) Address() HardwareAddress {
	return h.address
}

func (h *HardwareRegister) Read() uint8 {
	if h.read != nil {
		return h.read()
	}
	return NoRead()
}

func (h *HardwareRegister) Write(value uint8) {
	if h.write != nil {
		h.write(value)
	}
}

// NoRead is a convenience function to return a read function that
// always returns 0xFF. This is useful for hardware IO that
// are not readable.
func NoRead() uint8 {
	return 0xFF
}

// NoWrite is a convenience function to return a write function that
// does nothing. This is useful for hardware IO that are not
// writable.
func NoWrite(v uint8) {
	// do nothing
}
