package cpu

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// programStart is where test programs are placed in ROM.
const programStart = 0x0200

// newTestCPU returns a CPU about to execute program from a ROM only
// cartridge.
func newTestCPU(t *testing.T, program ...uint8) *CPU {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[programStart:], program)
	cart, err := cartridge.Load(rom)
	require.NoError(t, err)

	m := mmu.NewMMU()
	m.LoadCartridge(cart)
	c := NewCPU(m)
	c.PC = programStart
	return c
}

// step executes a single instruction, failing the test on error.
func step(t *testing.T, c *CPU) uint8 {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cycles
}

func TestCPU_Reset(t *testing.T) {
	c := newTestCPU(t)
	c.Reset()

	if c.PC != 0x0100 {
		t.Errorf("expected PC to be 0x0100, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP to be 0xFFFE, got 0x%04X", c.SP)
	}
	if c.AF.Uint16() != 0x01B0 {
		t.Errorf("expected AF to be 0x01B0, got 0x%04X", c.AF.Uint16())
	}
	assert.False(t, c.IME())
	assert.False(t, c.Halted())
}

func TestCPU_NOP(t *testing.T) {
	c := newTestCPU(t, 0x00)
	af := c.AF.Uint16()

	cycles := step(t, c)
	assert.Equal(t, uint8(4), cycles)
	assert.Equal(t, uint16(programStart+1), c.PC)
	assert.Equal(t, af, c.AF.Uint16())
}

func TestCPU_CartridgeNotLoaded(t *testing.T) {
	c := NewCPU(mmu.NewMMU())
	pc := c.PC

	_, err := c.Step()
	if !errors.Is(err, ErrCartridgeNotLoaded) {
		t.Fatalf("expected ErrCartridgeNotLoaded, got %v", err)
	}
	if c.PC != pc {
		t.Errorf("expected PC to be unchanged, got 0x%04X", c.PC)
	}
}

func TestCPU_Illegal(t *testing.T) {
	for _, code := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		c := newTestCPU(t, code, 0x00)
		step(t, c)
		if !c.Locked() {
			t.Fatalf("0x%02X: expected CPU to be locked", code)
		}

		pc := c.PC
		for i := 0; i < 3; i++ {
			assert.Equal(t, uint8(4), step(t, c))
		}
		assert.Equal(t, pc, c.PC, "0x%02X: locked CPU advanced PC", code)

		// only a reset unlocks it
		c.Reset()
		assert.False(t, c.Locked())
	}
}

func TestCPU_Halt(t *testing.T) {
	c := newTestCPU(t, 0x76, 0x00)
	step(t, c)
	if !c.Halted() {
		t.Fatal("expected CPU to be halted")
	}

	// nothing pending, the CPU idles
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint8(4), step(t, c))
	}
	assert.Equal(t, uint16(programStart+1), c.PC)

	// a requested but disabled interrupt does not wake it
	c.mmu.RequestInterrupt(interrupts.VBlankFlag)
	step(t, c)
	assert.True(t, c.Halted())

	// an enabled one does, even with IME clear
	c.mmu.Write(types.IE, interrupts.VBlankFlag)
	assert.Equal(t, uint8(4), step(t, c))
	assert.False(t, c.Halted())
	assert.False(t, c.IME())
	assert.Equal(t, uint16(programStart+2), c.PC)
}

func TestCPU_Stop(t *testing.T) {
	c := newTestCPU(t, 0x10, 0x00, 0x00)
	step(t, c)
	assert.True(t, c.Halted())
	assert.Equal(t, uint16(programStart+2), c.PC)

	c.mmu.Write(types.IE, 0xFF)
	c.mmu.RequestInterrupt(interrupts.JoypadFlag)
	step(t, c)
	assert.False(t, c.Halted())
	assert.Equal(t, uint16(programStart+3), c.PC)
}

func TestCPU_InterruptMasterEnable(t *testing.T) {
	t.Run("EI is delayed", func(t *testing.T) {
		c := newTestCPU(t, 0xFB, 0x00, 0x00)
		step(t, c)
		if c.IME() {
			t.Error("expected IME to be clear directly after EI")
		}
		step(t, c)
		if !c.IME() {
			t.Error("expected IME to be set after the instruction following EI")
		}
	})
	t.Run("DI cancels a pending EI", func(t *testing.T) {
		c := newTestCPU(t, 0xFB, 0xF3, 0x00)
		step(t, c)
		step(t, c)
		step(t, c)
		assert.False(t, c.IME())
	})
	t.Run("DI", func(t *testing.T) {
		c := newTestCPU(t, 0xFB, 0x00, 0xF3)
		step(t, c)
		step(t, c)
		assert.True(t, c.IME())
		step(t, c)
		assert.False(t, c.IME())
	})
	t.Run("RETI is immediate", func(t *testing.T) {
		c := newTestCPU(t, 0xD9)
		c.SP = 0xFFFC
		c.mmu.Write16(0xFFFC, 0x1234)
		assert.Equal(t, uint8(16), step(t, c))
		assert.True(t, c.IME())
		assert.Equal(t, uint16(0x1234), c.PC)
		assert.Equal(t, uint16(0xFFFE), c.SP)
	})
}

func TestCPU_Trace(t *testing.T) {
	var buf bytes.Buffer
	l, err := log.NewWithLevel(&buf, "debug", false)
	require.NoError(t, err)

	rom := make([]byte, 0x8000)
	rom[programStart] = 0x3E // LD A,n8
	rom[programStart+1] = 0x42
	cart, err := cartridge.Load(rom)
	require.NoError(t, err)
	m := mmu.NewMMU()
	m.LoadCartridge(cart)

	c := NewCPU(m, WithLogger(l), WithTrace(true))
	c.PC = programStart
	step(t, c)

	out := buf.String()
	if !strings.Contains(out, "LD A,n8") || !strings.Contains(out, "0200") {
		t.Errorf("expected trace of LD A,n8 at 0200, got %q", out)
	}
}

func TestCPU_WithTable(t *testing.T) {
	// a table where every instruction is a one byte, 8 cycle NOP
	table := customTable(t, func(code string) string {
		return `"` + code + `": {"mnemonic": "NOP", "bytes": 1, "cycles": [8], "operands": [], "immediate": true, "flags": {"Z": "-", "N": "-", "H": "-", "C": "-"}}`
	})

	rom := make([]byte, 0x8000)
	rom[programStart] = 0xC3 // JP a16 in the default table
	cart, err := cartridge.Load(rom)
	require.NoError(t, err)
	m := mmu.NewMMU()
	m.LoadCartridge(cart)

	c := NewCPU(m, WithTable(table))
	c.PC = programStart
	assert.Equal(t, uint8(8), step(t, c))
	assert.Equal(t, uint16(programStart+1), c.PC)
}

// customTable builds a table whose entries are all produced by entry.
func customTable(t *testing.T, entry func(code string) string) *opcode.Table {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`{"unprefixed": {`)
	for space := 0; space < 2; space++ {
		if space == 1 {
			sb.WriteString(`}, "cbprefixed": {`)
		}
		for i := 0; i < 256; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(entry(fmt.Sprintf("0x%02X", i)))
		}
	}
	sb.WriteString(`}}`)

	table, err := opcode.Parse([]byte(sb.String()))
	require.NoError(t, err)
	return table
}

// TestCPU_Timing executes every instruction of both spaces once and
// checks that PC and the cycle count follow the descriptor.
func TestCPU_Timing(t *testing.T) {
	table := opcode.Default()
	for _, prefixed := range []bool{false, true} {
		for i := 0; i < 256; i++ {
			code := uint8(i)
			op := table.Lookup(code, prefixed)
			if op.Mnemonic == opcode.PREFIX {
				continue
			}

			program := []uint8{code, 0x00, 0x00}
			if prefixed {
				program = []uint8{opcode.PrefixCB, code}
			}
			c := newTestCPU(t, program...)
			c.HL.SetUint16(0xC000)
			c.SP = 0xDFF0

			cycles := step(t, c)
			if cycles != op.BaseCycles() && cycles != op.TakenCycles() {
				t.Errorf("%s: expected %d or %d cycles, got %d", op, op.BaseCycles(), op.TakenCycles(), cycles)
			}

			switch op.Mnemonic {
			case opcode.JP, opcode.JR, opcode.CALL, opcode.RET, opcode.RETI, opcode.RST:
				continue
			}
			if want := uint16(programStart) + uint16(op.Bytes); c.PC != want {
				t.Errorf("%s: expected PC to be 0x%04X, got 0x%04X", op, want, c.PC)
			}
			if c.F()&0x0F != 0 {
				t.Errorf("%s: lower nibble of F set: 0x%02X", op, c.F())
			}
		}
	}
}

func TestCPU_State(t *testing.T) {
	c := newTestCPU(t, 0xFB, 0x76)
	step(t, c)
	step(t, c)
	c.BC.SetUint16(0x1234)
	c.SP = 0xC0DE

	s := types.NewState()
	c.Save(s)

	restored := newTestCPU(t)
	restored.Load(types.StateFromBytes(s.Bytes()))

	assert.Equal(t, c.PC, restored.PC)
	assert.Equal(t, c.SP, restored.SP)
	assert.Equal(t, c.AF.Uint16(), restored.AF.Uint16())
	assert.Equal(t, uint16(0x1234), restored.BC.Uint16())
	assert.True(t, restored.IME())
	assert.True(t, restored.Halted())
}
