// Package mmu provides a memory management unit for the Game Boy. The
// MMU is unaware of the other components, and handles all the memory
// reads and writes through a dispatch table covering every address.
// Registers in the I/O window that the MMU does not own itself are
// delegated to an attached IOBus.
package mmu

import (
	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// IOBus is the interface that the MMU uses to communicate with the other
// components.
type IOBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory.
type MMU struct {
	// 64kB address space
	raw      [65536]*types.Address
	handlers [regionCount]types.Address

	// 0x0000 - 0x00FF/0x0900 - BOOT ROM (256B/2304B)
	bootROM     *boot.ROM
	bootROMDone bool

	// 0x0000 - 0x7FFF - ROM
	// 0xA000 - 0xBFFF - External RAM
	Cart *cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	vRAM       [0x2000]uint8
	vRAMAccess func() bool

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *WRAM

	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	oam       [0xA0]uint8
	oamAccess func() bool

	// 0xFF00 - 0xFF7F - I/O Registers
	registers *types.HardwareRegisters
	io        IOBus
	iF        uint8

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	zRAM [0x7F]uint8

	// 0xFFFF - interrupt enable register
	ie uint8

	HDMA *HDMA

	log   log.Logger
	isGBC bool
}

// Opt configures an MMU.
type Opt func(*MMU)

// WithLogger sets the logger of the MMU.
func WithLogger(l log.Logger) Opt {
	return func(m *MMU) {
		m.log = l
	}
}

// WithBootROM maps b over the start of the address space until the
// program writes to types.BDIS.
func WithBootROM(b *boot.ROM) Opt {
	return func(m *MMU) {
		m.SetBootROM(b)
	}
}

// WithIO attaches the bus that serves the I/O registers the MMU does not
// own.
func WithIO(bus IOBus) Opt {
	return func(m *MMU) {
		m.io = bus
	}
}

// NewMMU returns a new MMU with no cartridge inserted.
func NewMMU(opts ...Opt) *MMU {
	m := &MMU{
		wRAM:      NewWRAM(),
		registers: types.NewHardwareRegisters(),
		log:       log.NewNullLogger(),
	}
	m.HDMA = newHDMA(m.Read, m.writeVRAMDirect)
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *MMU) init() {
	// setup registers
	m.registers.RegisterHardware(
		types.IF,
		func(v uint8) {
			m.iF = v & types.InterruptMask
		}, func() uint8 {
			return m.iF | 0xE0 // upper bits are always set
		})
	m.registers.RegisterHardware(
		types.BDIS,
		func(v uint8) {
			if v != 0 && !m.bootROMDone {
				m.bootROMDone = true
				m.log.Debugf("mmu: boot ROM unmapped")
			}
		}, types.NoRead)
	m.registers.RegisterHardware(DMA, m.oamDMA, types.NoRead)

	// setup raw memory
	m.handlers = [regionCount]types.Address{
		RegionROM0:     {Read: m.readROM0, Write: m.writeCart},
		RegionROMN:     {Read: m.readCart, Write: m.writeCart},
		RegionVRAM:     {Read: m.readVRAM, Write: m.writeVRAM},
		RegionExtRAM:   {Read: m.readCart, Write: m.writeCart},
		RegionWRAM0:    {Read: m.wRAM.Read, Write: m.wRAM.Write},
		RegionWRAMN:    {Read: m.wRAM.Read, Write: m.wRAM.Write},
		RegionEcho:     {Read: m.wRAM.Read, Write: m.wRAM.Write},
		RegionOAM:      {Read: m.readOAM, Write: m.writeOAM},
		RegionUnusable: {Read: func(uint16) uint8 { return 0xFF }, Write: func(uint16, uint8) {}},
		RegionIO:       {Read: m.readIO, Write: m.writeIO},
		RegionHRAM:     {Read: m.readZRAM, Write: m.writeZRAM},
		RegionIE:       {Read: func(uint16) uint8 { return m.ie }, Write: func(_ uint16, v uint8) { m.ie = v }},
	}
	for _, span := range memoryMap {
		for addr := int(span.Start); addr <= int(span.End); addr++ {
			m.raw[addr] = &m.handlers[span.Region]
		}
	}
}

// LoadCartridge inserts a cartridge. A CGB cartridge also enables the
// CGB work RAM banking and VRAM DMA registers.
func (m *MMU) LoadCartridge(cart *cartridge.Cartridge) {
	m.Cart = cart
	if cart != nil && cart.GameboyColor() {
		m.enableCGB()
	}
}

// HasCartridge reports whether a cartridge is inserted.
func (m *MMU) HasCartridge() bool {
	return m.Cart != nil
}

// SetBootROM maps a boot ROM. A CGB boot ROM enables the CGB registers.
func (m *MMU) SetBootROM(b *boot.ROM) {
	m.bootROM = b
	m.bootROMDone = false
	if b != nil {
		m.log.Infof("mmu: boot ROM %s (%s)", b.Model(), b.Checksum())
		if b.CGB() {
			m.enableCGB()
		}
	}
}

// BootROMMapped reports whether the boot ROM still hides the cartridge.
func (m *MMU) BootROMMapped() bool {
	return m.bootROM != nil && !m.bootROMDone
}

func (m *MMU) enableCGB() {
	if m.isGBC {
		return
	}
	m.isGBC = true
	m.wRAM.registerBanking(m.registers)
	m.HDMA.register(m.registers)
}

func (m *MMU) IsGBC() bool {
	return m.isGBC
}

// AttachIO attaches the bus that serves the I/O registers the MMU does
// not own.
func (m *MMU) AttachIO(bus IOBus) {
	m.io = bus
}

// SetVRAMAccess installs a hook deciding whether the CPU may access VRAM.
// Blocked reads return 0xFF and blocked writes are dropped.
func (m *MMU) SetVRAMAccess(allowed func() bool) {
	m.vRAMAccess = allowed
}

// SetOAMAccess installs a hook deciding whether the CPU may access OAM.
func (m *MMU) SetOAMAccess(allowed func() bool) {
	m.oamAccess = allowed
}

// RequestInterrupt sets the given interrupts.VBlankFlag style flags in
// the IF register.
func (m *MMU) RequestInterrupt(flag uint8) {
	m.iF = (m.iF | flag) & types.InterruptMask
}

// PendingInterrupts returns the interrupts both requested and enabled.
func (m *MMU) PendingInterrupts() uint8 {
	return m.ie & m.iF & types.InterruptMask
}

// Region returns the region of the memory map addr belongs to.
func (m *MMU) Region(addr uint16) Region {
	return RegionOf(addr)
}

// Read returns the value at the given address. It handles all the memory
// banks, mirroring, I/O, etc.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address].Read(address)
}

func (m *MMU) Write(address uint16, value uint8) {
	m.raw[address].Write(address, value)
}

// Read16 reads a little-endian word.
func (m *MMU) Read16(address uint16) uint16 {
	return uint16(m.Read(address)) | uint16(m.Read(address+1))<<8
}

// Write16 writes a little-endian word.
func (m *MMU) Write16(address uint16, value uint16) {
	m.Write(address, uint8(value))
	m.Write(address+1, uint8(value>>8))
}

func (m *MMU) readROM0(address uint16) uint8 {
	// handle the boot ROM (if enabled)
	if m.BootROMMapped() && m.bootROM.Mapped(address) {
		return m.bootROM.Read(address)
	}
	return m.readCart(address)
}

func (m *MMU) readCart(address uint16) uint8 {
	if m.Cart == nil {
		return 0xFF
	}
	return m.Cart.Read(address)
}

// writeCart forwards writes to the cartridge, where they select banks
// (0x0000-0x7FFF) or store to cartridge RAM (0xA000-0xBFFF).
func (m *MMU) writeCart(address uint16, value uint8) {
	if m.Cart != nil {
		m.Cart.Write(address, value)
	}
}

func (m *MMU) readVRAM(address uint16) uint8 {
	if m.vRAMAccess != nil && !m.vRAMAccess() {
		return 0xFF
	}
	return m.vRAM[address&0x1FFF]
}

func (m *MMU) writeVRAM(address uint16, value uint8) {
	if m.vRAMAccess != nil && !m.vRAMAccess() {
		return
	}
	m.vRAM[address&0x1FFF] = value
}

func (m *MMU) writeVRAMDirect(offset uint16, value uint8) {
	m.vRAM[offset&0x1FFF] = value
}

func (m *MMU) readOAM(address uint16) uint8 {
	if m.oamAccess != nil && !m.oamAccess() {
		return 0xFF
	}
	return m.oam[address-types.OAMStart]
}

func (m *MMU) writeOAM(address uint16, value uint8) {
	if m.oamAccess != nil && !m.oamAccess() {
		return
	}
	m.oam[address-types.OAMStart] = value
}

// oamDMA copies 160 bytes from (v << 8) into OAM.
func (m *MMU) oamDMA(v uint8) {
	src := uint16(v) << 8
	for i := uint16(0); i < uint16(len(m.oam)); i++ {
		m.oam[i] = m.Read(src + i)
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	if reg := m.registers[address&0x7F]; reg != nil {
		return reg.Read()
	}
	if m.io != nil {
		return m.io.Read(address)
	}
	return 0xFF
}

func (m *MMU) writeIO(address uint16, value uint8) {
	if reg := m.registers[address&0x7F]; reg != nil {
		reg.Write(value)
		return
	}
	if m.io != nil {
		m.io.Write(address, value)
	}
}

func (m *MMU) readZRAM(address uint16) uint8 {
	return m.zRAM[address-types.HRAMStart]
}

func (m *MMU) writeZRAM(address uint16, value uint8) {
	m.zRAM[address-types.HRAMStart] = value
}

// Reset clears all memory owned by the MMU, stops any VRAM DMA and maps
// the boot ROM again. The cartridge stays inserted with its bank
// controller back in its power on state.
func (m *MMU) Reset() {
	m.vRAM = [0x2000]uint8{}
	m.oam = [0xA0]uint8{}
	m.zRAM = [0x7F]uint8{}
	m.wRAM.Reset()
	m.HDMA.Reset()
	m.ie, m.iF = 0, 0
	m.bootROMDone = false
	if m.Cart != nil {
		m.Cart.Reset()
	}
}

func (m *MMU) Load(s *types.State) {
	s.ReadData(m.vRAM[:])
	m.wRAM.Load(s)
	s.ReadData(m.oam[:])
	s.ReadData(m.zRAM[:])
	m.ie = s.Read8()
	m.iF = s.Read8() & types.InterruptMask
	m.bootROMDone = s.ReadBool()
	m.HDMA.Load(s)
	if m.Cart != nil {
		m.Cart.Load(s)
	}
}

func (m *MMU) Save(s *types.State) {
	s.WriteData(m.vRAM[:])
	m.wRAM.Save(s)
	s.WriteData(m.oam[:])
	s.WriteData(m.zRAM[:])
	s.Write8(m.ie)
	s.Write8(m.iF)
	s.WriteBool(m.bootROMDone)
	m.HDMA.Save(s)
	if m.Cart != nil {
		m.Cart.Save(s)
	}
}

var _ types.Stater = (*MMU)(nil)
