// Package gameboy ties the CPU, the MMU and the scheduler together into
// a machine that executes a cartridge.
package gameboy

import (
	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/internal/scheduler"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/timer"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = 70224 // 4194304 / 59.73
)

// GameBoy represents a Game Boy. It owns every component and is driven
// by a single goroutine; none of its methods are safe for concurrent use.
type GameBoy struct {
	CPU       *cpu.CPU
	MMU       *mmu.MMU
	Scheduler *scheduler.Scheduler
	Timer     *timer.Controller
	Serial    *serial.Controller

	log         log.Logger
	bootROM     *boot.ROM
	table       *opcode.Table
	peripherals []types.Peripheral
	io          mmu.IOBus
	serialOpts  []serial.Opt
	trace       bool

	frames    uint64
	frameDone bool
	runDone   bool
}

// New returns a GameBoy without a cartridge.
func New(opts ...Opt) *GameBoy {
	g := &GameBoy{
		log:       log.NewNullLogger(),
		Scheduler: scheduler.NewScheduler(),
	}
	for _, opt := range opts {
		opt(g)
	}

	regs := types.NewHardwareRegisters()
	mmuOpts := []mmu.Opt{mmu.WithLogger(g.log), mmu.WithIO(&ioBus{regs: regs, next: g.io})}
	if g.bootROM != nil {
		mmuOpts = append(mmuOpts, mmu.WithBootROM(g.bootROM))
	}
	g.MMU = mmu.NewMMU(mmuOpts...)
	g.Timer = timer.NewController(regs, g.MMU)
	g.Serial = serial.NewController(regs, g.Scheduler, g.MMU, g.serialOpts...)

	cpuOpts := []cpu.Opt{cpu.WithLogger(g.log), cpu.WithTrace(g.trace)}
	if g.table != nil {
		cpuOpts = append(cpuOpts, cpu.WithTable(g.table))
	}
	g.CPU = cpu.NewCPU(g.MMU, cpuOpts...)

	g.Scheduler.RegisterEvent(scheduler.FrameEnd, func() {
		g.frames++
		g.frameDone = true
		g.Scheduler.ScheduleEvent(scheduler.FrameEnd, CyclesPerFrame)
	})
	g.Scheduler.RegisterEvent(scheduler.RunEnd, func() {
		g.runDone = true
	})
	g.Scheduler.ScheduleEvent(scheduler.FrameEnd, CyclesPerFrame)

	return g
}

// Load inserts the cartridge in rom and resets the machine.
func (g *GameBoy) Load(rom []byte) error {
	cart, err := cartridge.Load(rom, cartridge.WithLogger(g.log))
	if err != nil {
		return err
	}
	g.MMU.LoadCartridge(cart)
	g.Reset()
	return nil
}

// Cartridge returns the inserted cartridge, or nil.
func (g *GameBoy) Cartridge() *cartridge.Cartridge {
	return g.MMU.Cart
}

// Reset puts every component back in its power on state. The cartridge
// stays inserted.
func (g *GameBoy) Reset() {
	g.MMU.Reset()
	g.CPU.Reset()
	g.Timer.Reset()
	g.Scheduler.Reset()
	g.Serial.Reset()
	g.Scheduler.ScheduleEvent(scheduler.FrameEnd, CyclesPerFrame)
	g.frames = 0
}

// Step executes a single instruction, then advances the timer, every
// attached peripheral and the scheduler by the cycles it took.
func (g *GameBoy) Step() (uint8, error) {
	cycles, err := g.CPU.Step()
	if err != nil {
		return 0, err
	}
	g.Timer.Step(cycles)
	for _, p := range g.peripherals {
		p.Step(cycles)
	}
	g.Scheduler.Tick(uint64(cycles))
	return cycles, nil
}

// RunCycles steps the machine until at least n cycles have elapsed and
// returns the number of cycles that did. Instructions are never split,
// so the count may overshoot n by part of an instruction.
func (g *GameBoy) RunCycles(n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	start := g.Scheduler.Cycle()
	g.runDone = false
	g.Scheduler.ScheduleEvent(scheduler.RunEnd, n)
	for !g.runDone {
		if _, err := g.Step(); err != nil {
			g.Scheduler.DescheduleEvent(scheduler.RunEnd)
			return g.Scheduler.Cycle() - start, err
		}
	}
	return g.Scheduler.Cycle() - start, nil
}

// RunFrame steps the machine up to the next frame boundary.
func (g *GameBoy) RunFrame() error {
	g.frameDone = false
	for !g.frameDone {
		if _, err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Frames returns the number of frame boundaries crossed since the last
// reset.
func (g *GameBoy) Frames() uint64 {
	return g.frames
}

// Cycles returns the number of cycles executed since the last reset.
func (g *GameBoy) Cycles() uint64 {
	return g.Scheduler.Cycle()
}

// loadState restores every component from s, in the order saveState
// wrote them.
func (g *GameBoy) loadState(s *types.State) {
	g.CPU.Load(s)
	g.MMU.Load(s)
	g.Timer.Load(s)
	g.Serial.Load(s)
	g.Scheduler.Load(s)
	g.frames = s.Read64()
}

// saveState writes the CPU, the MMU (including the cartridge), the
// timer, the serial port, the scheduler and the frame count to s.
func (g *GameBoy) saveState(s *types.State) {
	g.CPU.Save(s)
	g.MMU.Save(s)
	g.Timer.Save(s)
	g.Serial.Save(s)
	g.Scheduler.Save(s)
	s.Write64(g.frames)
}

// ioBus serves the timer and serial registers, and passes every other
// I/O register the MMU does not own to the bus attached with WithIO.
type ioBus struct {
	regs *types.HardwareRegisters
	next mmu.IOBus
}

func (b *ioBus) Read(address uint16) uint8 {
	if b.regs[address&0x7F] != nil {
		return b.regs.Read(address)
	}
	if b.next != nil {
		return b.next.Read(address)
	}
	return 0xFF
}

func (b *ioBus) Write(address uint16, value uint8) {
	if b.regs[address&0x7F] != nil {
		b.regs.Write(address, value)
		return
	}
	if b.next != nil {
		b.next.Write(address, value)
	}
}
