// Package serial implements the link port of the Game Boy, shifting
// bytes in and out of SB one bit at a time.
package serial

import (
	"io"

	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/scheduler"
	"github.com/thelolagemann/gbcore/internal/types"
)

const (
	// a bit is sent every 128 M-cycles (8.192 kHz)
	ticksPerBit = 512
)

// Controller is the serial controller. It is responsible for sending and
// receiving data to and from devices.
// Before a transfer, data holds the next byte to be sent. AKA types.SB
// During a transfer, it has a mix of the incoming data and the outgoing data.
// each cycle, the leftmost bit of data is sent to the attached device, and
// shifted out of data, and the incoming bit is shifted into data.
//
// example:
//
//	Before : data = o7 o6 o5 o4 o3 o2 o1 o0
//	Cycle 1: data = o6 o5 o4 o3 o2 o1 o0 i0
//	Cycle 2: data = o5 o4 o3 o2 o1 o0 i0 i1
//	...
//	Cycle 8: data = i0 i1 i2 i3 i4 i5 i6 i7
//
// Where o0-o7 are the outgoing bits, and i0-i7 are the incoming bits.
type Controller struct {
	data            uint8
	outgoing        uint8 // the byte data held when the transfer started.
	count           uint8 // the number of bits that have been transferred.
	InternalClock   bool  // if true, this controller is the master.
	TransferRequest bool  // if true, a transfer has been requested.

	AttachedDevice Device // the device that is attached to this controller.
	output         io.Writer

	irq interrupts.Requester
	s   *scheduler.Scheduler
}

// Opt configures a Controller.
type Opt func(c *Controller)

// WithDevice attaches d to the other end of the link.
func WithDevice(d Device) Opt {
	return func(c *Controller) {
		c.AttachedDevice = d
	}
}

// WithOutput writes every byte sent as the master to w. Test ROMs
// report their results this way.
func WithOutput(w io.Writer) Opt {
	return func(c *Controller) {
		c.output = w
	}
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	c.AttachedDevice = d
}

// NewController creates a new Controller with SB and SC added to regs,
// that times its transfers with s and raises the serial interrupt on
// irq.
//
// By default, the Controller is attached to a nullDevice, which acts as if
// there is no device attached. This is the same as if the device is not
// plugged in.
func NewController(regs *types.HardwareRegisters, s *scheduler.Scheduler, irq interrupts.Requester, opts ...Opt) *Controller {
	c := &Controller{
		AttachedDevice: nullDevice{},
		irq:            irq,
		s:              s,
	}
	for _, opt := range opts {
		opt(c)
	}

	regs.RegisterHardware(types.SB, func(v uint8) {
		c.data = v
	}, func() uint8 {
		return c.data
	})
	regs.RegisterHardware(types.SC, func(v uint8) {
		c.InternalClock = v&types.Bit0 == types.Bit0
		c.TransferRequest = v&types.Bit7 == types.Bit7
		c.count = 0

		// the master drives the clock, a slave waits for the other end
		if c.TransferRequest && c.InternalClock {
			c.outgoing = c.data
			s.ScheduleEvent(scheduler.SerialBitTransfer, ticksPerBit)
		} else {
			s.DescheduleEvent(scheduler.SerialBitTransfer)
		}
	}, func() uint8 {
		v := uint8(0x7E) // bits 1-6 are unused
		if c.TransferRequest {
			v |= types.Bit7
		}
		if c.InternalClock {
			v |= types.Bit0
		}
		return v
	})

	s.RegisterEvent(scheduler.SerialBitTransfer, c.transferBit)
	return c
}

func (c *Controller) transferBit() {
	if !c.InternalClock || !c.TransferRequest {
		return
	}
	bit := c.AttachedDevice.Send()
	c.AttachedDevice.Receive(c.data&types.Bit7 == types.Bit7)

	c.data <<= 1
	if bit {
		c.data |= 1
	}

	if c.checkTransfer() {
		if c.output != nil {
			_, _ = c.output.Write([]byte{c.outgoing})
		}
	} else {
		c.s.ScheduleEvent(scheduler.SerialBitTransfer, ticksPerBit)
	}
}

// checkTransfer counts a shifted bit. Once 8 have been, it triggers a
// serial interrupt, clears the transfer request and reports true.
func (c *Controller) checkTransfer() bool {
	if c.count++; c.count < 8 {
		return false
	}
	c.count = 0
	c.TransferRequest = false
	c.irq.RequestInterrupt(interrupts.SerialFlag)
	return true
}

// Send returns the leftmost bit of the data register, unless
// the caller is the master, in which case it always returns true.
// This is because the master is driving the clock, and thus should
// not be trying to read from its own data register.
func (c *Controller) Send() bool {
	if c.InternalClock {
		return true
	}
	return c.data&types.Bit7 == types.Bit7
}

// Receive receives a bit from the attached device, and shifts it into
// the data register. If the caller is the master, it does nothing.
func (c *Controller) Receive(bit bool) {
	if c.InternalClock {
		return
	}
	c.data <<= 1
	if bit {
		c.data |= 1
	}
	if c.TransferRequest {
		c.checkTransfer()
	}
}

// Reset puts the controller in its power on state, cancelling any
// transfer in progress.
func (c *Controller) Reset() {
	c.data = 0
	c.outgoing = 0
	c.count = 0
	c.InternalClock = false
	c.TransferRequest = false
	c.s.DescheduleEvent(scheduler.SerialBitTransfer)
}

var (
	_ Device       = (*Controller)(nil)
	_ types.Stater = (*Controller)(nil)
)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - data (uint8)
//   - outgoing (uint8)
//   - count (uint8)
//   - InternalClock (bool)
//   - TransferRequest (bool)
func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.outgoing = s.Read8()
	c.count = s.Read8()
	c.InternalClock = s.ReadBool()
	c.TransferRequest = s.ReadBool()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - data (uint8)
//   - outgoing (uint8)
//   - count (uint8)
//   - InternalClock (bool)
//   - TransferRequest (bool)
func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.outgoing)
	s.Write8(c.count)
	s.WriteBool(c.InternalClock)
	s.WriteBool(c.TransferRequest)
}
