// Package interrupts names the five interrupt sources of the IE and IF
// registers. Requesting an interrupt sets its flag in IF; the CPU wakes
// from HALT or STOP while a flag is set in both IF and IE.
package interrupts

import (
	"github.com/thelolagemann/gbcore/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0), requested every
	// time the PPU enters VBlank.
	VBlankFlag uint8 = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), requested by the STAT
	// register when its selected conditions are met.
	LCDFlag    uint8 = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2), requested when
	// TIMA overflows.
	TimerFlag  uint8 = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3), requested when a
	// serial transfer completes.
	SerialFlag uint8 = types.Bit3
	// JoypadFlag is the Joypad interrupt flag (bit 4), requested when a
	// selected button line goes low.
	JoypadFlag uint8 = types.Bit4
)

// Requester requests interrupts, setting their flag in IF.
type Requester interface {
	RequestInterrupt(flag uint8)
}

var names = [...]string{"VBlank", "LCD", "Timer", "Serial", "Joypad"}

// Vector returns the address the handler of the highest priority
// interrupt in pending lives at, or 0 if none is pending.
func Vector(pending uint8) uint16 {
	for i := uint8(0); i < 5; i++ {
		if pending&(1<<i) != 0 {
			return 0x0040 + uint16(i)*8
		}
	}
	return 0
}

// Name returns the name of the highest priority interrupt in flags.
func Name(flags uint8) string {
	for i := uint8(0); i < 5; i++ {
		if flags&(1<<i) != 0 {
			return names[i]
		}
	}
	return "none"
}
