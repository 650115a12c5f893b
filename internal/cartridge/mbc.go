package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// controller is the memory bank controller of a cartridge. Every
// variant decodes the same two windows, 0x0000-0x7FFF and
// 0xA000-0xBFFF, and never panics on any address.
type controller interface {
	read(address uint16) uint8
	write(address uint16, value uint8)

	// romBank returns the bank mapped at 0x4000-0x7FFF.
	romBank() int
	ramBank() int
	ramEnabled() bool
	// reset puts the bank registers in their power on state. RAM is
	// battery backed and keeps its contents.
	reset()

	types.Stater
}

// memoryBankedCartridge holds the storage shared by every controller
// and the arithmetic for addressing it by bank.
type memoryBankedCartridge struct {
	rom   []byte
	ram   []byte
	banks int // number of 16 KiB ROM banks bank numbers wrap at

	ramOn bool
}

func newMemoryBankedCartridge(rom []byte, banks int, ramSize int) memoryBankedCartridge {
	if banks <= 0 {
		// unknown size code, fall back to the size of the image
		banks = (len(rom) + romBankSize - 1) / romBankSize
		if banks < 2 {
			banks = 2
		}
	}
	return memoryBankedCartridge{
		rom:   rom,
		ram:   make([]byte, ramSize),
		banks: banks,
	}
}

// wrapROM wraps a bank number to the banks the cartridge declares.
func (m *memoryBankedCartridge) wrapROM(bank int) int {
	return bank % m.banks
}

// readROM reads offset (0x0000-0x3FFF) of the given bank. Banks beyond
// the end of a short image read as open bus.
func (m *memoryBankedCartridge) readROM(bank int, offset uint16) uint8 {
	i := m.wrapROM(bank)*romBankSize + int(offset&0x3FFF)
	if i >= len(m.rom) {
		return 0xFF
	}
	return m.rom[i]
}

// ramIndex returns the index into ram for offset (0x0000-0x1FFF) of the
// given bank, mirroring RAM smaller than the addressed window.
func (m *memoryBankedCartridge) ramIndex(bank int, offset uint16) int {
	return (bank*ramBankSize + int(offset&0x1FFF)) % len(m.ram)
}

func (m *memoryBankedCartridge) readRAM(bank int, offset uint16) uint8 {
	if !m.ramOn || len(m.ram) == 0 {
		return 0xFF
	}
	return m.ram[m.ramIndex(bank, offset)]
}

func (m *memoryBankedCartridge) writeRAM(bank int, offset uint16, value uint8) {
	if !m.ramOn || len(m.ram) == 0 {
		return
	}
	m.ram[m.ramIndex(bank, offset)] = value
}

func (m *memoryBankedCartridge) ramEnabled() bool {
	return m.ramOn
}

func (m *memoryBankedCartridge) reset() {
	m.ramOn = false
}

func (m *memoryBankedCartridge) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramOn = s.ReadBool()
}

func (m *memoryBankedCartridge) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramOn)
}

// ramEnableValue reports whether a write to the RAM enable register
// enables RAM.
func ramEnableValue(value uint8) bool {
	return value&0x0F == 0x0A
}
