package gameboy

import (
	"io"

	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.log = log
	}
}

// WithBootROM maps the boot ROM over the start of the cartridge. The
// CPU then starts at 0x0000 with every register cleared, instead of at
// 0x0100 with the registers the boot ROM would leave behind.
func WithBootROM(rom *boot.ROM) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// WithOpcodeTable decodes instructions from t instead of the embedded
// table.
func WithOpcodeTable(t *opcode.Table) Opt {
	return func(gb *GameBoy) {
		gb.table = t
	}
}

// WithPeripheral attaches a peripheral that is stepped after every
// instruction, in the order the peripherals were attached.
func WithPeripheral(p types.Peripheral) Opt {
	return func(gb *GameBoy) {
		gb.peripherals = append(gb.peripherals, p)
	}
}

// WithIO delegates the I/O registers neither the MMU, the timer nor the
// serial port own to bus.
func WithIO(bus mmu.IOBus) Opt {
	return func(gb *GameBoy) {
		gb.io = bus
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(trace bool) Opt {
	return func(gb *GameBoy) {
		gb.trace = trace
	}
}

// WithSerialDevice plugs d into the link port.
func WithSerialDevice(d serial.Device) Opt {
	return func(gb *GameBoy) {
		gb.serialOpts = append(gb.serialOpts, serial.WithDevice(d))
	}
}

// WithSerialOutput writes every byte the cartridge sends over the link
// port to w.
func WithSerialOutput(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.serialOpts = append(gb.serialOpts, serial.WithOutput(w))
	}
}
