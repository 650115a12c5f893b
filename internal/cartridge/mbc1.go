package cartridge

import (
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

// memoryBankedCartridge1 represents an MBC1 cartridge. It addresses up to
// 2 MiB of ROM through a 5-bit bank register and a 2-bit secondary
// register, which selects either the upper ROM bank bits or one of four
// RAM banks depending on the banking mode.
type memoryBankedCartridge1 struct {
	memoryBankedCartridge

	bank1 uint8 // 5 bits, 0 is remapped to 1
	bank2 uint8 // 2 bits
	mode  bool  // false: simple banking, true: advanced banking
}

func newMemoryBankedCartridge1(rom []byte, banks int, ramSize int) *memoryBankedCartridge1 {
	return &memoryBankedCartridge1{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, banks, ramSize),
		bank1:                 1,
	}
}

func (m *memoryBankedCartridge1) read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		// in advanced mode the secondary register also applies to the
		// first bank
		bank := 0
		if m.mode {
			bank = int(m.bank2) << 5
		}
		return m.readROM(bank, address)
	case address < 0x8000:
		return m.readROM(m.romBank(), address)
	case address >= 0xA000 && address < 0xC000:
		return m.readRAM(m.ramBank(), address)
	}
	return 0xFF
}

func (m *memoryBankedCartridge1) write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramOn = ramEnableValue(value)
	case address < 0x4000:
		m.bank1 = utils.ZeroAdjust8(value & 0x1F)
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&0x01 == 0x01
	case address >= 0xA000 && address < 0xC000:
		m.writeRAM(m.ramBank(), address, value)
	}
}

func (m *memoryBankedCartridge1) reset() {
	m.memoryBankedCartridge.reset()
	m.bank1 = 1
	m.bank2 = 0
	m.mode = false
}

func (m *memoryBankedCartridge1) romBank() int {
	return m.wrapROM(int(m.bank2)<<5 | int(m.bank1))
}

func (m *memoryBankedCartridge1) ramBank() int {
	if m.mode {
		return int(m.bank2)
	}
	return 0
}

func (m *memoryBankedCartridge1) Load(s *types.State) {
	m.memoryBankedCartridge.Load(s)
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.mode = s.ReadBool()
}

func (m *memoryBankedCartridge1) Save(s *types.State) {
	m.memoryBankedCartridge.Save(s)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.mode)
}
