package types

// Register represents a GB Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags, and only its upper nibble
// exists in hardware.
type Register = uint8

// flagMask covers the bits of F that exist in hardware. The lower nibble
// is tri-stated and always reads back as 0.
const flagMask Register = 0xF0

// RegisterPair represents a pair of GB Registers which is used to hold a 16-bit
// value. The CPU has 4 register pairs: AF, BC, DE, and HL. A pair has no
// storage of its own, it is a view over the two 8-bit registers it points to.
type RegisterPair struct {
	High *Register
	Low  *Register

	// flags restricts Low to the bits that exist in F. The zero value
	// stores Low unmasked.
	flags bool
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
	if r.flags {
		*r.Low &= flagMask
	}
}

// Registers represents the GB CPU registers.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	H Register
	L Register

	f Register

	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// NewRegisters returns a zeroed register file with its pair views wired up.
func NewRegisters() *Registers {
	r := &Registers{}
	r.pair()
	return r
}

// pair (re)creates the register pair views. It must be called whenever
// the Registers value is moved, as the views point into the struct.
func (r *Registers) pair() {
	r.BC = &RegisterPair{High: &r.B, Low: &r.C}
	r.DE = &RegisterPair{High: &r.D, Low: &r.E}
	r.HL = &RegisterPair{High: &r.H, Low: &r.L}
	r.AF = &RegisterPair{High: &r.A, Low: &r.f, flags: true}
}

// F returns the flag register.
func (r *Registers) F() Register {
	return r.f
}

// SetF sets the flag register. The lower nibble is always discarded.
func (r *Registers) SetF(value Register) {
	r.f = value & flagMask
}

// Reset loads the values the DMG boot ROM leaves behind when it hands
// control to the cartridge at 0x0100.
func (r *Registers) Reset() {
	r.A, r.B, r.C, r.D, r.E, r.H, r.L = 0x01, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D
	r.SetF(0xB0)
	r.SP = 0xFFFE
	r.PC = 0x0100
}

// Clear zeroes every register, the state the CPU powers on in before a
// boot ROM runs.
func (r *Registers) Clear() {
	r.A, r.B, r.C, r.D, r.E, r.H, r.L = 0, 0, 0, 0, 0, 0, 0
	r.f = 0
	r.SP = 0
	r.PC = 0
}

// Load restores the registers from a State.
func (r *Registers) Load(s *State) {
	r.A = s.Read8()
	r.SetF(s.Read8())
	r.B = s.Read8()
	r.C = s.Read8()
	r.D = s.Read8()
	r.E = s.Read8()
	r.H = s.Read8()
	r.L = s.Read8()
	r.SP = s.Read16()
	r.PC = s.Read16()
}

// Save writes the registers to a State.
func (r *Registers) Save(s *State) {
	s.Write8(r.A)
	s.Write8(r.f)
	s.Write8(r.B)
	s.Write8(r.C)
	s.Write8(r.D)
	s.Write8(r.E)
	s.Write8(r.H)
	s.Write8(r.L)
	s.Write16(r.SP)
	s.Write16(r.PC)
}

var _ Stater = (*Registers)(nil)
