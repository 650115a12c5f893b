package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// memoryBankedCartridge5 represents an MBC5 cartridge. Its ROM bank
// register is 9 bits wide and, unlike earlier controllers, may select
// bank 0 for the switchable window.
type memoryBankedCartridge5 struct {
	memoryBankedCartridge

	romb   uint16
	ramb   uint8
	rumble bool
}

func newMemoryBankedCartridge5(rom []byte, banks int, ramSize int, rumble bool) *memoryBankedCartridge5 {
	return &memoryBankedCartridge5{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, banks, ramSize),
		romb:                  1,
		rumble:                rumble,
	}
}

func (m *memoryBankedCartridge5) read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(m.romBank(), address)
	case address >= 0xA000 && address < 0xC000:
		return m.readRAM(int(m.ramb), address)
	}
	return 0xFF
}

func (m *memoryBankedCartridge5) write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramOn = ramEnableValue(value)
	case address < 0x3000:
		// ROM bank number (lower 8 bits)
		m.romb = m.romb&0x100 | uint16(value)
	case address < 0x4000:
		// ROM bank number (upper 1 bit)
		m.romb = m.romb&0x00FF | uint16(value&0x01)<<8
	case address < 0x6000:
		// on rumble cartridges bit 3 drives the motor
		if m.rumble {
			value &= 0x07
		}
		m.ramb = value & 0x0F
	case address >= 0xA000 && address < 0xC000:
		m.writeRAM(int(m.ramb), address, value)
	}
}

func (m *memoryBankedCartridge5) reset() {
	m.memoryBankedCartridge.reset()
	m.romb = 1
	m.ramb = 0
}

func (m *memoryBankedCartridge5) romBank() int {
	return m.wrapROM(int(m.romb))
}

func (m *memoryBankedCartridge5) ramBank() int {
	return int(m.ramb)
}

func (m *memoryBankedCartridge5) Load(s *types.State) {
	m.memoryBankedCartridge.Load(s)
	m.romb = s.Read16()
	m.ramb = s.Read8()
}

func (m *memoryBankedCartridge5) Save(s *types.State) {
	m.memoryBankedCartridge.Save(s)
	s.Write16(m.romb)
	s.Write8(m.ramb)
}
