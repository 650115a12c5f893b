package mmu

import "github.com/thelolagemann/gbcore/internal/types"

// SVBK selects the work RAM bank mapped at 0xD000-0xDFFF on the CGB.
const SVBK types.HardwareAddress = 0xFF70

// WRAM is the work RAM, and the echo of it at 0xE000-0xFDFF. The DMG
// has a fixed bank 0 and bank 1; the CGB can map any of banks 1-7 at
// 0xD000 through the SVBK register.
type WRAM struct {
	bank uint8
	raw  [8][0x1000]uint8
}

// NewWRAM returns work RAM with bank 1 mapped at 0xD000.
func NewWRAM() *WRAM {
	return &WRAM{
		bank: 1, // bank 1 is the default as the first bank is fixed
	}
}

// registerBanking maps the SVBK register in h.
func (w *WRAM) registerBanking(h *types.HardwareRegisters) {
	h.RegisterHardware(
		SVBK,
		func(v uint8) {
			v &= 0x07 // only 3 bits are used
			if v == 0 {
				v = 1
			}
			w.bank = v
		}, func() uint8 {
			return w.bank | 0xF8
		},
	)
}

// Bank returns the bank mapped at 0xD000-0xDFFF.
func (w *WRAM) Bank() uint8 {
	return w.bank
}

// Read reads addr in 0xC000-0xFDFF. Echo addresses below 0xF000 mirror
// bank 0, the rest mirror the switchable bank.
func (w *WRAM) Read(addr uint16) uint8 {
	return w.raw[w.bankOf(addr)][addr&0xFFF]
}

func (w *WRAM) Write(addr uint16, v uint8) {
	w.raw[w.bankOf(addr)][addr&0xFFF] = v
}

func (w *WRAM) bankOf(addr uint16) uint8 {
	// 0xC000 and 0xE000 start a fixed bank, 0xD000 and 0xF000 a switchable one
	if addr&0x1000 == 0 {
		return 0
	}
	return w.bank
}

func (w *WRAM) Reset() {
	w.bank = 1
	w.raw = [8][0x1000]uint8{}
}

func (w *WRAM) Load(s *types.State) {
	w.bank = s.Read8()
	for i := range w.raw {
		s.ReadData(w.raw[i][:])
	}
	if w.bank == 0 || w.bank > 7 {
		w.bank = 1
	}
}

func (w *WRAM) Save(s *types.State) {
	s.Write8(w.bank)
	for i := range w.raw {
		s.WriteData(w.raw[i][:])
	}
}
