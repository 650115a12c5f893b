package cpu

import (
	"strconv"
	"strings"

	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/internal/types"
)

// n8 returns the 8-bit immediate of the current instruction.
func (c *CPU) n8() uint8 {
	return c.imm[0]
}

// n16 returns the little-endian 16-bit immediate of the current instruction.
func (c *CPU) n16() uint16 {
	return uint16(c.imm[1])<<8 | uint16(c.imm[0])
}

// registerIndex returns the 8-bit register called name, or nil.
func (c *CPU) registerIndex(name string) *types.Register {
	switch name {
	case "A":
		return &c.A
	case "B":
		return &c.B
	case "C":
		return &c.C
	case "D":
		return &c.D
	case "E":
		return &c.E
	case "H":
		return &c.H
	case "L":
		return &c.L
	}
	return nil
}

// registerPair returns the register pair called name, or nil.
func (c *CPU) registerPair(name string) *types.RegisterPair {
	switch name {
	case "AF":
		return c.AF
	case "BC":
		return c.BC
	case "DE":
		return c.DE
	case "HL":
		return c.HL
	}
	return nil
}

// is16 reports whether op names a 16-bit value rather than a byte.
func is16(op opcode.Operand) bool {
	if !op.Immediate {
		return false
	}
	switch op.Name {
	case "AF", "BC", "DE", "HL", "SP", "n16", "a16":
		return true
	}
	return false
}

// address returns the memory address a non-immediate operand refers to.
func (c *CPU) address(op opcode.Operand) uint16 {
	switch op.Name {
	case "a8":
		return 0xFF00 | uint16(c.n8())
	case "a16":
		return c.n16()
	case "C":
		return 0xFF00 | uint16(c.C)
	}
	if pair := c.registerPair(op.Name); pair != nil {
		return pair.Uint16()
	}
	return 0
}

// read8 returns the byte op refers to.
func (c *CPU) read8(op opcode.Operand) uint8 {
	if !op.Immediate {
		return c.mmu.Read(c.address(op))
	}
	if reg := c.registerIndex(op.Name); reg != nil {
		return *reg
	}
	// n8 and e8
	return c.n8()
}

// write8 stores v where op refers to.
func (c *CPU) write8(op opcode.Operand, v uint8) {
	if !op.Immediate {
		c.mmu.Write(c.address(op), v)
		return
	}
	if reg := c.registerIndex(op.Name); reg != nil {
		*reg = v
	}
}

// read16 returns the word op refers to.
func (c *CPU) read16(op opcode.Operand) uint16 {
	switch op.Name {
	case "SP":
		return c.SP
	case "n16", "a16":
		return c.n16()
	}
	if pair := c.registerPair(op.Name); pair != nil {
		return pair.Uint16()
	}
	return 0
}

// write16 stores v where op refers to. A memory operand receives v
// little-endian, as LD (a16),SP does.
func (c *CPU) write16(op opcode.Operand, v uint16) {
	if !op.Immediate {
		c.mmu.Write16(c.address(op), v)
		return
	}
	if op.Name == "SP" {
		c.SP = v
		return
	}
	if pair := c.registerPair(op.Name); pair != nil {
		pair.SetUint16(v)
	}
}

// postIncrement applies the (HL+) and (HL-) adjustments of op. Some
// tables also mark the SP of LD HL,SP+e8 as incremented, which is
// ignored.
func (c *CPU) postIncrement(op opcode.Operand) {
	if op.Name != "HL" || op.Immediate {
		return
	}
	switch {
	case op.Increment:
		c.HL.SetUint16(c.HL.Uint16() + 1)
	case op.Decrement:
		c.HL.SetUint16(c.HL.Uint16() - 1)
	}
}

// condition evaluates a condition code.
func (c *CPU) condition(op opcode.Operand) bool {
	switch op.Name {
	case "NZ":
		return !c.isFlagSet(FlagZero)
	case "Z":
		return c.isFlagSet(FlagZero)
	case "NC":
		return !c.isFlagSet(FlagCarry)
	case "C":
		return c.isFlagSet(FlagCarry)
	}
	return true
}

// vector parses an RST target such as "$38".
func vector(op opcode.Operand) uint16 {
	v, err := strconv.ParseUint(strings.TrimPrefix(op.Name, "$"), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// bitIndex parses the bit operand of BIT, RES and SET.
func bitIndex(op opcode.Operand) uint8 {
	if op.Name == "" {
		return 0
	}
	return (op.Name[0] - '0') & 0x07
}
