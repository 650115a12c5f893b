// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TimerControlRegister.
package timer

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Controller is a timer controller. It is used to generate
// interrupts at a specific frequency. The frequency can be
// configured using the types.TAC register.
//
// TIMA increments on every falling edge of the selected bit of the
// 16-bit system counter ANDed with the enable bit, so resetting DIV or
// rewriting TAC can increment TIMA early, as on hardware.
type Controller struct {
	div        uint16
	currentBit uint16

	tima               uint8
	ticksSinceOverflow uint8
	tma                uint8
	tac                uint8

	Enabled  bool
	overflow bool

	irq interrupts.Requester
}

// NewController returns a new timer controller, with its registers
// added to regs.
func NewController(regs *types.HardwareRegisters, irq interrupts.Requester) *Controller {
	c := &Controller{irq: irq}
	c.Reset()

	regs.RegisterHardware(
		types.DIV,
		func(uint8) {
			before := c.signal()
			c.div = 0
			c.detectEdge(before)
		}, func() uint8 {
			return uint8(c.div >> 8)
		},
	)
	regs.RegisterHardware(
		types.TIMA,
		func(v uint8) {
			// writes to TIMA are ignored if written the same tick it is
			// reloading
			if c.ticksSinceOverflow != 5 {
				c.tima = v
				c.overflow = false
				c.ticksSinceOverflow = 0
			}
		}, func() uint8 {
			return c.tima
		},
	)
	regs.RegisterHardware(
		types.TMA,
		func(v uint8) {
			c.tma = v
			// if you write to TMA the same tick that TIMA is reloading,
			// TIMA will be set to the new value of TMA
			if c.ticksSinceOverflow == 5 {
				c.tima = v
			}
		}, func() uint8 {
			return c.tma
		},
	)
	regs.RegisterHardware(
		types.TAC,
		func(v uint8) {
			before := c.signal()
			c.setTAC(v)
			c.detectEdge(before)
		}, func() uint8 {
			return c.tac | 0b11111000
		},
	)

	return c
}

// Reset puts the timer in its power on state.
func (c *Controller) Reset() {
	c.div = 0
	c.tima = 0
	c.tma = 0
	c.overflow = false
	c.ticksSinceOverflow = 0
	c.setTAC(0)
}

// Step advances the timer by the given number of clock cycles.
func (c *Controller) Step(cycles uint8) {
	for i := uint8(0); i < cycles; i++ {
		c.tick()
	}
}

func (c *Controller) tick() {
	before := c.signal()
	c.div++
	c.detectEdge(before)

	if c.overflow {
		c.ticksSinceOverflow++

		// TIMA reads 0 for a machine cycle before the reload
		switch c.ticksSinceOverflow {
		case 4:
			c.irq.RequestInterrupt(interrupts.TimerFlag)
		case 5:
			c.tima = c.tma
		case 6:
			c.overflow = false
			c.ticksSinceOverflow = 0
		}
	}
}

func (c *Controller) setTAC(v uint8) {
	// 00 = shift by 9 bits
	// 01 = shift by 3 bits
	// 10 = shift by 5 bits
	// 11 = shift by 7 bits
	c.tac = v & 0b111
	c.currentBit = bits[v&0b11]
	c.Enabled = v&types.Bit2 != 0
}

func (c *Controller) signal() bool {
	return c.Enabled && c.div&c.currentBit != 0
}

func (c *Controller) detectEdge(before bool) {
	if before && !c.signal() {
		c.tima++
		if c.tima == 0 {
			c.overflow = true
			c.ticksSinceOverflow = 0
		}
	}
}

var bits = [4]uint16{512, 8, 32, 128}

var (
	_ types.Peripheral = (*Controller)(nil)
	_ types.Stater     = (*Controller)(nil)
)

// Load loads the state of the controller.
func (c *Controller) Load(s *types.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.setTAC(s.Read8())
	c.overflow = s.ReadBool()
	c.ticksSinceOverflow = s.Read8()
}

// Save saves the state of the controller.
func (c *Controller) Save(s *types.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.WriteBool(c.overflow)
	s.Write8(c.ticksSinceOverflow)
}
