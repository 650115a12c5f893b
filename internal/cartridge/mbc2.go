package cartridge

import (
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

// mbc2RAMSize is the size of the built-in RAM of an MBC2, 512 half-bytes.
const mbc2RAMSize = 512

// memoryBankedCartridge2 represents an MBC2 cartridge. Bit 8 of the
// address written to in 0x0000-0x3FFF selects between the RAM enable
// and the 4-bit ROM bank register. Its RAM is built into the controller
// and only stores the lower nibble of each byte.
type memoryBankedCartridge2 struct {
	memoryBankedCartridge

	romb uint8
}

func newMemoryBankedCartridge2(rom []byte, banks int) *memoryBankedCartridge2 {
	return &memoryBankedCartridge2{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, banks, mbc2RAMSize),
		romb:                  0x01,
	}
}

func (m *memoryBankedCartridge2) read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(m.romBank(), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramOn {
			return 0xFF
		}
		// the upper nibble is open bus; the 512 bytes mirror through the window
		return m.ram[address&0x01FF] | 0xF0
	}
	return 0xFF
}

func (m *memoryBankedCartridge2) write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x100 == 0x100 {
			m.romb = utils.ZeroAdjust8(value & 0x0F)
		} else {
			m.ramOn = ramEnableValue(value)
		}
	case address >= 0xA000 && address < 0xC000:
		if m.ramOn {
			m.ram[address&0x01FF] = value & 0x0F
		}
	}
}

func (m *memoryBankedCartridge2) reset() {
	m.memoryBankedCartridge.reset()
	m.romb = 0x01
}

func (m *memoryBankedCartridge2) romBank() int {
	return m.wrapROM(int(m.romb))
}

func (m *memoryBankedCartridge2) ramBank() int { return 0 }

func (m *memoryBankedCartridge2) Load(s *types.State) {
	m.memoryBankedCartridge.Load(s)
	m.romb = s.Read8()
}

func (m *memoryBankedCartridge2) Save(s *types.State) {
	m.memoryBankedCartridge.Save(s)
	s.Write8(m.romb)
}
