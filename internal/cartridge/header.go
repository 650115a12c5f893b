package cartridge

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/thelolagemann/gbcore/pkg/bits"
)

var (
	// ErrUnknownROMSize is returned by ROMSizeKB for ROM size codes
	// outside the documented set.
	ErrUnknownROMSize = errors.New("cartridge: unknown ROM size code")
	// ErrUnknownRAMSize is returned by RAMSizeKB for RAM size codes
	// outside the documented set.
	ErrUnknownRAMSize = errors.New("cartridge: unknown RAM size code")
	// ErrUnknownDestination is returned by DestinationName for
	// destination codes other than Japan (0) and overseas (1).
	ErrUnknownDestination = errors.New("cartridge: unknown destination code")
)

// Flag describes the colour support a cartridge declares at 0x0143.
type Flag uint8

const (
	FlagOnlyDMG Flag = iota
	FlagSupportsCGB
	FlagOnlyCGB
)

// Type is the cartridge type byte at 0x0147, naming the memory bank
// controller and any extra hardware on the cartridge.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBATT      Type = 0x0D
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	POCKETCAMERA      Type = 0x1F
	BANDAITAMA5       Type = 0xFD
	HUDSONHUC3        Type = 0xFE
	HUDSONHUC1        Type = 0xFF
)

var typeNames = map[Type]string{
	ROM:               "ROM",
	MBC1:              "MBC1",
	MBC1RAM:           "MBC1+RAM",
	MBC1RAMBATT:       "MBC1+RAM+BATTERY",
	MBC2:              "MBC2",
	MBC2BATT:          "MBC2+BATTERY",
	ROMRAM:            "ROM+RAM",
	ROMRAMBATT:        "ROM+RAM+BATTERY",
	MMM01:             "MMM01",
	MMM01RAM:          "MMM01+RAM",
	MMM01RAMBATT:      "MMM01+RAM+BATTERY",
	MBC3TIMERBATT:     "MBC3+TIMER+BATTERY",
	MBC3TIMERRAMBATT:  "MBC3+TIMER+RAM+BATTERY",
	MBC3:              "MBC3",
	MBC3RAM:           "MBC3+RAM",
	MBC3RAMBATT:       "MBC3+RAM+BATTERY",
	MBC5:              "MBC5",
	MBC5RAM:           "MBC5+RAM",
	MBC5RAMBATT:       "MBC5+RAM+BATTERY",
	MBC5RUMBLE:        "MBC5+RUMBLE",
	MBC5RUMBLERAM:     "MBC5+RUMBLE+RAM",
	MBC5RUMBLERAMBATT: "MBC5+RUMBLE+RAM+BATTERY",
	POCKETCAMERA:      "POCKET CAMERA",
	BANDAITAMA5:       "BANDAI TAMA5",
	HUDSONHUC3:        "HuC3",
	HUDSONHUC1:        "HuC1+RAM+BATTERY",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
}

var ramSizes = map[uint8]uint{
	0x00: 0,
	0x01: 2,
	0x02: 8,
	0x03: 32,
	0x04: 128,
	0x05: 64,
}

var destinations = map[uint8]string{
	0x00: "Japan",
	0x01: "Overseas",
}

// nintendoLogo is the bitmap every licensed cartridge carries at
// 0x0104-0x0133. The boot ROM refuses to start without it.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
//
// A Header is a read-only view over the ROM image; every accessor decodes
// its field on demand.
type Header struct {
	raw []byte // rom[0x0100:0x0150]
}

// 0x0100-0x0103 - EntryPoint, usually a NOP followed by a jump to 0x0150.
func (h Header) EntryPoint() [4]byte {
	var e [4]byte
	copy(e[:], h.raw[0x00:0x04])
	return e
}

// 0x0104-0x0133 - Logo bitmap.
func (h Header) Logo() [48]byte {
	var l [48]byte
	copy(l[:], h.raw[0x04:0x34])
	return l
}

// Title returns the game title at 0x0134-0x0142, up to the first NUL.
func (h Header) Title() string {
	title := h.raw[0x34:0x43]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	return string(title)
}

// 0x013F-0x0142 - ManufacturerCode, overlapping the end of the title
// on newer cartridges.
func (h Header) ManufacturerCode() string {
	return string(h.raw[0x3F:0x43])
}

// CGBFlag returns the raw colour support byte at 0x0143. In older
// cartridges this byte was part of the title.
func (h Header) CGBFlag() uint8 {
	return h.raw[0x43]
}

// Mode interprets CGBFlag.
func (h Header) Mode() Flag {
	switch h.CGBFlag() {
	case 0x80:
		return FlagSupportsCGB
	case 0xC0:
		return FlagOnlyCGB
	default:
		return FlagOnlyDMG
	}
}

// 0x0144-0x0145 - NewLicenseeCode, two ASCII characters.
func (h Header) NewLicenseeCode() string {
	return string(h.raw[0x44:0x46])
}

// SGBFlag reports whether the cartridge supports Super Game Boy
// functions (0x0146 == 0x03).
func (h Header) SGBFlag() bool {
	return h.raw[0x46] == 0x03
}

func (h Header) CartridgeType() Type {
	return Type(h.raw[0x47])
}

func (h Header) ROMSizeCode() uint8 {
	return h.raw[0x48]
}

func (h Header) RAMSizeCode() uint8 {
	return h.raw[0x49]
}

func (h Header) Destination() uint8 {
	return h.raw[0x4A]
}

func (h Header) OldLicenseeCode() uint8 {
	return h.raw[0x4B]
}

func (h Header) MaskROMVersion() uint8 {
	return h.raw[0x4C]
}

func (h Header) HeaderChecksum() uint8 {
	return h.raw[0x4D]
}

// GlobalChecksum is stored big-endian at 0x014E-0x014F.
func (h Header) GlobalChecksum() uint16 {
	return uint16(h.raw[0x4E])<<8 | uint16(h.raw[0x4F])
}

// ROMBanks returns the number of 16 KiB banks the ROM size code
// declares (2 << code), or 0 when the code is unknown.
func (h Header) ROMBanks() int {
	code := h.ROMSizeCode()
	switch {
	case code <= 0x08:
		return 2 << code
	case code == 0x52:
		return 72
	case code == 0x53:
		return 80
	case code == 0x54:
		return 96
	}
	return 0
}

// ROMSizeKB returns the declared ROM size (32 KiB << code).
func (h Header) ROMSizeKB() (uint, error) {
	banks := h.ROMBanks()
	if banks == 0 {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownROMSize, h.ROMSizeCode())
	}
	return uint(banks) * 16, nil
}

// RAMSizeKB returns the declared size of the cartridge RAM.
func (h Header) RAMSizeKB() (uint, error) {
	size, ok := ramSizes[h.RAMSizeCode()]
	if !ok {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownRAMSize, h.RAMSizeCode())
	}
	return size, nil
}

func (h Header) DestinationName() (string, error) {
	name, ok := destinations[h.Destination()]
	if !ok {
		return "", fmt.Errorf("%w: 0x%02X", ErrUnknownDestination, h.Destination())
	}
	return name, nil
}

// Hardware returns the model the cartridge targets, "DMG" or "CGB".
func (h Header) Hardware() string {
	if bits.Test(h.CGBFlag(), 7) {
		return "CGB"
	}
	return "DMG"
}

func (h Header) GameboyColor() bool {
	return h.Mode() != FlagOnlyDMG
}

func (h Header) String() string {
	rom, ram := "unknown", "unknown"
	if size, err := h.ROMSizeKB(); err == nil {
		rom = fmt.Sprintf("%dkB", size)
	}
	if size, err := h.RAMSizeKB(); err == nil {
		ram = fmt.Sprintf("%dkB", size)
	}
	return fmt.Sprintf("%s Mode: %s | Type: %s | ROM Size: %s | RAM Size: %s", h.Title(), h.Hardware(), h.CartridgeType(), rom, ram)
}
