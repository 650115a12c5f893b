package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

type irqRecorder struct {
	requested uint8
}

func (r *irqRecorder) RequestInterrupt(flag uint8) {
	r.requested |= flag
}

func newTestTimer() (*Controller, *types.HardwareRegisters, *irqRecorder) {
	regs := types.NewHardwareRegisters()
	irq := &irqRecorder{}
	return NewController(regs, irq), regs, irq
}

func TestTimer_DIV(t *testing.T) {
	c, regs, _ := newTestTimer()

	c.Step(255)
	assert.Equal(t, uint8(0x00), regs.Read(types.DIV))
	c.Step(1)
	assert.Equal(t, uint8(0x01), regs.Read(types.DIV))

	regs.Write(types.DIV, 0x42)
	assert.Equal(t, uint8(0x00), regs.Read(types.DIV))
}

func TestTimer_Frequencies(t *testing.T) {
	for tac, period := range map[uint8]int{0x04: 1024, 0x05: 16, 0x06: 64, 0x07: 256} {
		c, regs, _ := newTestTimer()
		regs.Write(types.TAC, tac)
		for i := 0; i < period*3; i++ {
			c.Step(1)
		}
		if got := regs.Read(types.TIMA); got != 3 {
			t.Errorf("TAC 0x%02X: expected TIMA to be 3, got %d", tac, got)
		}
	}
}

func TestTimer_Disabled(t *testing.T) {
	c, regs, irq := newTestTimer()
	regs.Write(types.TAC, 0x01)
	for i := 0; i < 100; i++ {
		c.Step(255)
	}
	assert.Zero(t, regs.Read(types.TIMA))
	assert.Zero(t, irq.requested)
	assert.Equal(t, uint8(0xF9), regs.Read(types.TAC))
}

func TestTimer_Overflow(t *testing.T) {
	c, regs, irq := newTestTimer()
	regs.Write(types.TAC, 0x05)
	regs.Write(types.TMA, 0x10)
	regs.Write(types.TIMA, 0xFF)

	c.Step(16)
	assert.Equal(t, uint8(0x00), regs.Read(types.TIMA), "TIMA reads 0 before the reload")
	assert.Zero(t, irq.requested)

	c.Step(4)
	assert.Equal(t, interrupts.TimerFlag, irq.requested)
	assert.Equal(t, uint8(0x10), regs.Read(types.TIMA))
}

func TestTimer_Glitches(t *testing.T) {
	t.Run("DIV reset", func(t *testing.T) {
		c, regs, _ := newTestTimer()
		regs.Write(types.TAC, 0x05)
		c.Step(8) // selected bit is now set
		regs.Write(types.DIV, 0)
		assert.Equal(t, uint8(1), regs.Read(types.TIMA))
	})
	t.Run("TAC disable", func(t *testing.T) {
		c, regs, _ := newTestTimer()
		regs.Write(types.TAC, 0x05)
		c.Step(8)
		regs.Write(types.TAC, 0x01)
		assert.Equal(t, uint8(1), regs.Read(types.TIMA))
	})
	t.Run("TAC disable while low", func(t *testing.T) {
		c, regs, _ := newTestTimer()
		regs.Write(types.TAC, 0x05)
		c.Step(4)
		regs.Write(types.TAC, 0x01)
		assert.Equal(t, uint8(0), regs.Read(types.TIMA))
	})
}

func TestTimer_State(t *testing.T) {
	c, regs, _ := newTestTimer()
	regs.Write(types.TAC, 0x06)
	regs.Write(types.TMA, 0x80)
	c.Step(200)

	s := types.NewState()
	c.Save(s)

	restored, restoredRegs, _ := newTestTimer()
	loaded := types.StateFromBytes(s.Bytes())
	restored.Load(loaded)
	require.NoError(t, loaded.Err())

	for _, addr := range []uint16{types.DIV, types.TIMA, types.TMA, types.TAC} {
		assert.Equal(t, regs.Read(addr), restoredRegs.Read(addr), "register 0x%04X", addr)
	}

	c.Step(200)
	restored.Step(200)
	assert.Equal(t, regs.Read(types.TIMA), restoredRegs.Read(types.TIMA))
}
