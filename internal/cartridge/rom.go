package cartridge

import "github.com/thelolagemann/gbcore/internal/types"

// romCartridge represents a ROM cartridge. This cartridge type is the
// simplest cartridge type and has no MBC; types 0x08 and 0x09 add up to
// 8 KiB of RAM that is always accessible.
type romCartridge struct {
	memoryBankedCartridge
}

func newROMCartridge(rom []byte, ramSize int) *romCartridge {
	r := &romCartridge{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, 2, ramSize),
	}
	r.ramOn = true
	return r
}

func (r *romCartridge) read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return r.readROM(0, address)
	case address < 0x8000:
		return r.readROM(1, address)
	case address >= 0xA000 && address < 0xC000:
		return r.readRAM(0, address)
	}
	return 0xFF
}

func (r *romCartridge) write(address uint16, value uint8) {
	if address >= 0xA000 && address < 0xC000 {
		r.writeRAM(0, address, value)
	}
}

// reset leaves RAM accessible, there is no enable register.
func (r *romCartridge) reset() {}

func (r *romCartridge) romBank() int { return 1 }
func (r *romCartridge) ramBank() int { return 0 }

var _ types.Stater = (*romCartridge)(nil)
