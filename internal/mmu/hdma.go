package mmu

import (
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/bits"
)

// DMA registers.
const (
	// DMA starts a copy of 160 bytes from (value << 8) into OAM.
	DMA types.HardwareAddress = 0xFF46
	// HDMA1-HDMA5 control the CGB VRAM DMA. HDMA1/2 hold the source,
	// HDMA3/4 the destination within VRAM, and writing HDMA5 starts a
	// transfer of ((value & 0x7F) + 1) 16-byte blocks.
	HDMA1 types.HardwareAddress = 0xFF51
	HDMA2 types.HardwareAddress = 0xFF52
	HDMA3 types.HardwareAddress = 0xFF53
	HDMA4 types.HardwareAddress = 0xFF54
	HDMA5 types.HardwareAddress = 0xFF55
)

type Mode = uint8

const (
	GDMAMode Mode = iota
	HDMAMode
)

// HDMA is the CGB VRAM DMA controller. A general purpose transfer
// (GDMA) copies every block as soon as HDMA5 is written; an H-Blank
// transfer copies one block each time HBlank is called.
type HDMA struct {
	mode Mode

	transferring bool

	blocks      uint8
	source      uint16
	destination uint16

	read      func(uint16) uint8
	writeVRAM func(uint16, uint8)
}

func newHDMA(read func(uint16) uint8, writeVRAM func(uint16, uint8)) *HDMA {
	return &HDMA{
		mode:      GDMAMode,
		blocks:    0x80,
		read:      read,
		writeVRAM: writeVRAM,
	}
}

func (h *HDMA) register(r *types.HardwareRegisters) {
	r.RegisterHardware(HDMA1, func(v uint8) {
		h.source = (h.source & 0x00FF) | (uint16(v) << 8)
	}, types.NoRead)
	r.RegisterHardware(HDMA2, func(v uint8) {
		h.source = (h.source & 0xFF00) | uint16(v&0xF0)
	}, types.NoRead)
	r.RegisterHardware(HDMA3, func(v uint8) {
		h.destination = (h.destination & 0x00FF) | (uint16(v&0x1F) << 8)
	}, types.NoRead)
	r.RegisterHardware(HDMA4, func(v uint8) {
		h.destination = (h.destination & 0xFF00) | uint16(v&0xF0)
	}, types.NoRead)
	r.RegisterHardware(HDMA5, h.start, h.status)
}

func (h *HDMA) start(v uint8) {
	mode := Mode(bits.Val(v, 7))
	if h.mode == HDMAMode && h.transferring && mode == GDMAMode {
		// writing with bit 7 clear cancels an H-Blank transfer
		h.transferring = false
		h.blocks = (v & 0x7F) + 1
		return
	}

	h.mode = mode
	h.blocks = (v & 0x7F) + 1
	h.transferring = true

	if h.mode == GDMAMode {
		for h.transferring {
			h.copyBlock()
		}
	}
}

func (h *HDMA) status() uint8 {
	if h.transferring {
		return h.blocks - 1
	}
	return types.Bit7 | (h.blocks - 1)
}

// copyBlock copies the next 16 bytes into VRAM.
func (h *HDMA) copyBlock() {
	for i := 0; i < 0x10; i++ {
		h.writeVRAM(h.destination&0x1FFF, h.read(h.source))
		h.destination++
		h.source++
	}
	h.blocks--
	if h.blocks == 0 {
		h.transferring = false
		h.blocks = 0x80
	}
}

// HBlank advances an H-Blank transfer by one block.
func (h *HDMA) HBlank() {
	if h.mode == HDMAMode && h.transferring {
		h.copyBlock()
	}
}

// Reset cancels any transfer and clears the source and destination.
func (h *HDMA) Reset() {
	h.mode = GDMAMode
	h.transferring = false
	h.blocks = 0x80
	h.source = 0
	h.destination = 0
}

// Transferring reports whether a transfer is in progress.
func (h *HDMA) Transferring() bool {
	return h.transferring
}

func (h *HDMA) Load(s *types.State) {
	h.mode = s.Read8()
	h.transferring = s.ReadBool()
	h.blocks = s.Read8()
	h.source = s.Read16()
	h.destination = s.Read16()
}

func (h *HDMA) Save(s *types.State) {
	s.Write8(h.mode)
	s.WriteBool(h.transferring)
	s.Write8(h.blocks)
	s.Write16(h.source)
	s.Write16(h.destination)
}
