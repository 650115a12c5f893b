// Package cpu implements the SM83 processor of the Game Boy. Instructions
// are decoded from an opcode.Table, so operand fetching, timing and flag
// updates are driven by the instruction descriptors rather than by one
// function per opcode.
package cpu

import (
	"errors"

	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
)

// ErrCartridgeNotLoaded is returned by Step when there is nothing to
// execute: no cartridge is inserted and no boot ROM is mapped.
var ErrCartridgeNotLoaded = errors.New("cpu: cartridge not loaded")

type mode = uint8

const (
	// ModeNormal is the normal CPU mode.
	ModeNormal mode = iota
	// ModeHalt is the halt CPU mode.
	ModeHalt
	// ModeStop is the stop CPU mode.
	ModeStop
	// ModeLocked is entered by executing an illegal opcode. Only a
	// reset leaves it.
	ModeLocked
)

// idleCycles is the cost of a Step that executes no instruction.
const idleCycles = 4

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	*types.Registers

	mmu   *mmu.MMU
	table *opcode.Table

	ime        bool
	imePending bool // EI executed, IME is set after the next instruction
	mode       mode

	// operand bytes of the instruction being executed
	imm [2]uint8

	log   log.Logger
	trace bool
}

// Opt configures a CPU.
type Opt func(*CPU)

// WithLogger sets the logger used for lock-ups and traces.
func WithLogger(l log.Logger) Opt {
	return func(c *CPU) {
		c.log = l
	}
}

// WithTable sets the opcode table instructions are decoded from. It
// defaults to opcode.Default.
func WithTable(t *opcode.Table) Opt {
	return func(c *CPU) {
		c.table = t
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Opt {
	return func(c *CPU) {
		c.trace = trace
	}
}

// NewCPU creates a new CPU instance with the given MMU.
// The MMU is used to read and write to the memory.
func NewCPU(m *mmu.MMU, opts ...Opt) *CPU {
	c := &CPU{
		Registers: types.NewRegisters(),
		mmu:       m,
		table:     opcode.Default(),
		log:       log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Reset puts the CPU in its power on state. With a boot ROM mapped every
// register starts at zero; otherwise the registers hold the values the
// DMG boot ROM leaves behind.
func (c *CPU) Reset() {
	if c.mmu.BootROMMapped() {
		c.Registers.Clear()
	} else {
		c.Registers.Reset()
	}
	c.ime = false
	c.imePending = false
	c.mode = ModeNormal
}

// IME returns the interrupt master enable flag.
func (c *CPU) IME() bool {
	return c.ime
}

// Halted reports whether the CPU is waiting in HALT or STOP.
func (c *CPU) Halted() bool {
	return c.mode == ModeHalt || c.mode == ModeStop
}

// Locked reports whether the CPU has locked up on an illegal opcode.
func (c *CPU) Locked() bool {
	return c.mode == ModeLocked
}

// Step executes one instruction and returns the number of cycles it
// took. While halted, stopped or locked, Step idles for 4 cycles.
func (c *CPU) Step() (uint8, error) {
	switch c.mode {
	case ModeLocked:
		return idleCycles, nil
	case ModeHalt, ModeStop:
		// woken by any pending interrupt, whatever the state of IME
		if c.mmu.PendingInterrupts() == 0 {
			return idleCycles, nil
		}
		c.mode = ModeNormal
	}

	if !c.mmu.HasCartridge() && !c.mmu.BootROMMapped() {
		return 0, ErrCartridgeNotLoaded
	}

	op := c.decode()
	if c.trace {
		c.traceInstruction(op)
	}
	enableIME := c.imePending

	taken := c.execute(op)

	// EI takes effect once the instruction after it has completed, unless
	// that instruction was DI
	if enableIME && c.imePending {
		c.ime = true
		c.imePending = false
	}

	if taken {
		return op.TakenCycles(), nil
	}
	return op.BaseCycles(), nil
}

// decode fetches the instruction at PC, reads its operand bytes and
// advances PC past it.
func (c *CPU) decode() *opcode.Opcode {
	pc := c.PC
	code := c.mmu.Read(pc)
	op := c.table.Lookup(code, false)
	if op.Mnemonic == opcode.PREFIX {
		op = c.table.Lookup(c.mmu.Read(pc+1), true)
	} else {
		for i := uint16(1); i < uint16(op.Bytes) && i <= 2; i++ {
			c.imm[i-1] = c.mmu.Read(pc + i)
		}
	}
	c.PC = pc + uint16(op.Bytes)
	return op
}

func (c *CPU) traceInstruction(op *opcode.Opcode) {
	c.log.Debugf("cpu: %04X %-14s AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X",
		c.PC-uint16(op.Bytes), op.String(), c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16(), c.SP)
}

func (c *CPU) Load(s *types.State) {
	c.Registers.Load(s)
	c.ime = s.ReadBool()
	c.imePending = s.ReadBool()
	c.mode = s.Read8()
}

func (c *CPU) Save(s *types.State) {
	c.Registers.Save(s)
	s.WriteBool(c.ime)
	s.WriteBool(c.imePending)
	s.Write8(c.mode)
}

var _ types.Stater = (*CPU)(nil)
