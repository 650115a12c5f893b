package mmu

import "github.com/thelolagemann/gbcore/internal/types"

// Region names one row of the memory map.
type Region uint8

const (
	RegionROM0 Region = iota
	RegionROMN
	RegionVRAM
	RegionExtRAM
	RegionWRAM0
	RegionWRAMN
	RegionEcho
	RegionOAM
	RegionUnusable
	RegionIO
	RegionHRAM
	RegionIE

	regionCount
)

var regionNames = [regionCount]string{
	RegionROM0:     "ROM bank 0",
	RegionROMN:     "ROM bank N",
	RegionVRAM:     "VRAM",
	RegionExtRAM:   "external RAM",
	RegionWRAM0:    "WRAM bank 0",
	RegionWRAMN:    "WRAM bank N",
	RegionEcho:     "echo RAM",
	RegionOAM:      "OAM",
	RegionUnusable: "unusable",
	RegionIO:       "I/O",
	RegionHRAM:     "HRAM",
	RegionIE:       "IE",
}

func (r Region) String() string {
	if r < regionCount {
		return regionNames[r]
	}
	return "unknown"
}

// Span is the inclusive address range a Region covers.
type Span struct {
	Region     Region
	Start, End uint16
}

// Contains reports whether addr lies within the span.
func (s Span) Contains(addr uint16) bool {
	return addr >= s.Start && addr <= s.End
}

// memoryMap is ordered by address; the spans neither overlap nor leave
// gaps, so every address belongs to exactly one region.
var memoryMap = [regionCount]Span{
	{RegionROM0, types.ROMBank0Start, types.ROMBank0End},
	{RegionROMN, types.ROMBankNStart, types.ROMBankNEnd},
	{RegionVRAM, types.VRAMStart, types.VRAMEnd},
	{RegionExtRAM, types.ExtRAMStart, types.ExtRAMEnd},
	{RegionWRAM0, types.WRAM0Start, types.WRAM0End},
	{RegionWRAMN, types.WRAMNStart, types.WRAMNEnd},
	{RegionEcho, types.EchoStart, types.EchoEnd},
	{RegionOAM, types.OAMStart, types.OAMEnd},
	{RegionUnusable, types.UnusableStart, types.UnusableEnd},
	{RegionIO, types.IOStart, types.IOEnd},
	{RegionHRAM, types.HRAMStart, types.HRAMEnd},
	{RegionIE, types.IE, types.IE},
}

// Regions returns the memory map in address order.
func Regions() []Span {
	spans := make([]Span, len(memoryMap))
	copy(spans, memoryMap[:])
	return spans
}

// RegionOf returns the region addr belongs to.
func RegionOf(addr uint16) Region {
	for _, s := range memoryMap {
		if s.Contains(addr) {
			return s.Region
		}
	}
	// unreachable, the map covers the whole address space
	return RegionIE
}
