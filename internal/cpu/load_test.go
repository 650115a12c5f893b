package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstruction_Load8(t *testing.T) {
	// 0x41 - LD B,C
	t.Run("LD B,C", func(t *testing.T) {
		c := newTestCPU(t, 0x41)
		c.C = 0x42
		assert.Equal(t, uint8(4), step(t, c))
		assert.Equal(t, uint8(0x42), c.B)
	})
	// 0x3E - LD A,n8
	t.Run("LD A,n8", func(t *testing.T) {
		c := newTestCPU(t, 0x3E, 0x99)
		assert.Equal(t, uint8(8), step(t, c))
		assert.Equal(t, uint8(0x99), c.A)
		assert.Equal(t, uint16(programStart+2), c.PC)
	})
	// 0x36 - LD (HL),n8
	t.Run("LD (HL),n8", func(t *testing.T) {
		c := newTestCPU(t, 0x36, 0x77)
		c.HL.SetUint16(0xC123)
		assert.Equal(t, uint8(12), step(t, c))
		assert.Equal(t, uint8(0x77), c.mmu.Read(0xC123))
	})
	// 0x46 - LD B,(HL)
	t.Run("LD B,(HL)", func(t *testing.T) {
		c := newTestCPU(t, 0x46)
		c.HL.SetUint16(0xC010)
		c.mmu.Write(0xC010, 0x5A)
		assert.Equal(t, uint8(8), step(t, c))
		assert.Equal(t, uint8(0x5A), c.B)
	})
	// 0x12 - LD (DE),A
	t.Run("LD (DE),A", func(t *testing.T) {
		c := newTestCPU(t, 0x12)
		c.DE.SetUint16(0xD000)
		c.A = 0x13
		step(t, c)
		assert.Equal(t, uint8(0x13), c.mmu.Read(0xD000))
	})
	// 0xFA - LD A,(a16)
	t.Run("LD A,(a16)", func(t *testing.T) {
		c := newTestCPU(t, 0xFA, 0x00, 0xC8)
		c.mmu.Write(0xC800, 0xAB)
		assert.Equal(t, uint8(16), step(t, c))
		assert.Equal(t, uint8(0xAB), c.A)
	})
}

func TestInstruction_LoadIncrement(t *testing.T) {
	// 0x22 - LD (HL+),A
	t.Run("LD (HL+),A", func(t *testing.T) {
		c := newTestCPU(t, 0x22)
		c.HL.SetUint16(0xC000)
		c.A = 0x42
		assert.Equal(t, uint8(8), step(t, c))
		assert.Equal(t, uint8(0x42), c.mmu.Read(0xC000))
		assert.Equal(t, uint16(0xC001), c.HL.Uint16())
	})
	// 0x2A - LD A,(HL+)
	t.Run("LD A,(HL+)", func(t *testing.T) {
		c := newTestCPU(t, 0x2A)
		c.HL.SetUint16(0xFFFF)
		c.mmu.Write(0xFFFF, 0x1F)
		step(t, c)
		assert.Equal(t, uint8(0x1F), c.A)
		assert.Equal(t, uint16(0x0000), c.HL.Uint16(), "HL wraps")
	})
	// 0x32 - LD (HL-),A
	t.Run("LD (HL-),A", func(t *testing.T) {
		c := newTestCPU(t, 0x32)
		c.HL.SetUint16(0xC010)
		c.A = 0x24
		step(t, c)
		assert.Equal(t, uint8(0x24), c.mmu.Read(0xC010))
		assert.Equal(t, uint16(0xC00F), c.HL.Uint16())
	})
	// 0x3A - LD A,(HL-)
	t.Run("LD A,(HL-)", func(t *testing.T) {
		c := newTestCPU(t, 0x3A)
		c.HL.SetUint16(0xC010)
		c.mmu.Write(0xC010, 0x99)
		step(t, c)
		assert.Equal(t, uint8(0x99), c.A)
		assert.Equal(t, uint16(0xC00F), c.HL.Uint16())
	})
}

func TestInstruction_LoadHigh(t *testing.T) {
	// 0xE0 - LDH (a8),A
	t.Run("LDH (a8),A", func(t *testing.T) {
		c := newTestCPU(t, 0xE0, 0x80)
		c.A = 0x55
		assert.Equal(t, uint8(12), step(t, c))
		assert.Equal(t, uint8(0x55), c.mmu.Read(0xFF80))
	})
	// 0xF0 - LDH A,(a8)
	t.Run("LDH A,(a8)", func(t *testing.T) {
		c := newTestCPU(t, 0xF0, 0xFE)
		c.mmu.Write(0xFFFE, 0x3C)
		step(t, c)
		assert.Equal(t, uint8(0x3C), c.A)
	})
	// 0xE2 - LDH (C),A
	t.Run("LDH (C),A", func(t *testing.T) {
		c := newTestCPU(t, 0xE2)
		c.C = 0x90
		c.A = 0x12
		assert.Equal(t, uint8(8), step(t, c))
		assert.Equal(t, uint8(0x12), c.mmu.Read(0xFF90))
	})
	// 0xF2 - LDH A,(C)
	t.Run("LDH A,(C)", func(t *testing.T) {
		c := newTestCPU(t, 0xF2)
		c.C = 0x81
		c.mmu.Write(0xFF81, 0x66)
		step(t, c)
		assert.Equal(t, uint8(0x66), c.A)
	})
}

func TestInstruction_Load16(t *testing.T) {
	// 0x01 - LD BC,n16
	t.Run("LD BC,n16", func(t *testing.T) {
		c := newTestCPU(t, 0x01, 0x34, 0x12)
		assert.Equal(t, uint8(12), step(t, c))
		assert.Equal(t, uint16(0x1234), c.BC.Uint16())
		assert.Equal(t, uint16(programStart+3), c.PC)
	})
	// 0x31 - LD SP,n16
	t.Run("LD SP,n16", func(t *testing.T) {
		c := newTestCPU(t, 0x31, 0xF0, 0xDF)
		step(t, c)
		assert.Equal(t, uint16(0xDFF0), c.SP)
	})
	// 0xF9 - LD SP,HL
	t.Run("LD SP,HL", func(t *testing.T) {
		c := newTestCPU(t, 0xF9)
		c.HL.SetUint16(0xC100)
		assert.Equal(t, uint8(8), step(t, c))
		assert.Equal(t, uint16(0xC100), c.SP)
	})
	// 0x08 - LD (a16),SP
	t.Run("LD (a16),SP", func(t *testing.T) {
		c := newTestCPU(t, 0x08, 0x00, 0xC1)
		c.SP = 0xBEEF
		assert.Equal(t, uint8(20), step(t, c))
		assert.Equal(t, uint8(0xEF), c.mmu.Read(0xC100))
		assert.Equal(t, uint8(0xBE), c.mmu.Read(0xC101))
	})
	// 0xF8 - LD HL,SP+e8
	t.Run("LD HL,SP+e8", func(t *testing.T) {
		c := newTestCPU(t, 0xF8, 0x08)
		c.SP = 0xFFF8
		c.SetF(0x80)
		assert.Equal(t, uint8(12), step(t, c))
		assert.Equal(t, uint16(0x0000), c.HL.Uint16())
		assert.Equal(t, uint16(0xFFF8), c.SP)
		assert.Equal(t, uint8(0x30), c.F(), "Z and N reset, H and C from the low byte")
	})
	t.Run("LD HL,SP-e8", func(t *testing.T) {
		c := newTestCPU(t, 0xF8, 0xFE)
		c.SP = 0xC000
		step(t, c)
		assert.Equal(t, uint16(0xBFFE), c.HL.Uint16())
		assert.Equal(t, uint8(0x00), c.F())
	})
}

func TestInstruction_Stack(t *testing.T) {
	// 0xC5 - PUSH BC, 0xF1 - POP AF
	t.Run("PUSH BC; POP AF", func(t *testing.T) {
		c := newTestCPU(t, 0xC5, 0xF1)
		c.SP = 0xFFFE
		c.BC.SetUint16(0x12FF)

		assert.Equal(t, uint8(16), step(t, c))
		assert.Equal(t, uint16(0xFFFC), c.SP)
		assert.Equal(t, uint8(0x12), c.mmu.Read(0xFFFD))
		assert.Equal(t, uint8(0xFF), c.mmu.Read(0xFFFC))

		assert.Equal(t, uint8(12), step(t, c))
		assert.Equal(t, uint8(0x12), c.A)
		assert.Equal(t, uint8(0xF0), c.F(), "lower nibble of F is discarded")
		assert.Equal(t, uint16(0xFFFE), c.SP)
	})
	// 0xD1 - POP DE
	t.Run("POP DE", func(t *testing.T) {
		c := newTestCPU(t, 0xD1)
		c.SP = 0xC000
		c.SetF(0xA0)
		c.mmu.Write16(0xC000, 0xBEEF)
		step(t, c)
		assert.Equal(t, uint16(0xBEEF), c.DE.Uint16())
		assert.Equal(t, uint8(0xA0), c.F(), "flags are unaffected")
	})
	// 0xF5 - PUSH AF
	t.Run("PUSH AF", func(t *testing.T) {
		c := newTestCPU(t, 0xF5)
		c.SP = 0xC002
		c.A = 0x01
		c.SetF(0xB0)
		step(t, c)
		assert.Equal(t, uint16(0x01B0), c.mmu.Read16(0xC000))
	})
}
