// Package cartridge provides the cartridge for the DMG and CGB.
// The cartridge holds the game ROM, any external RAM and the memory
// bank controller that maps them into the address space.
package cartridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/log"
)

// ErrTruncatedImage is returned by Load when the image is too short to
// hold a cartridge header.
var ErrTruncatedImage = errors.New("cartridge: image too short for header")

// headerEnd is the first address past the cartridge header.
const headerEnd = 0x0150

// Cartridge is a loaded game cartridge. The ROM image is copied on load
// and never modified; all mutable state lives in the bank controller.
type Cartridge struct {
	Header

	rom         []byte
	controller  controller
	fingerprint uint64

	log   log.Logger
	clock func() time.Time
}

// Option configures a Cartridge.
type Option func(*Cartridge)

// WithLogger sets the logger used to report the loaded header and any
// unsupported cartridge type.
func WithLogger(l log.Logger) Option {
	return func(c *Cartridge) {
		c.log = l
	}
}

// WithClock sets the clock the real time clock of MBC3 cartridges counts
// from. It defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cartridge) {
		c.clock = now
	}
}

// Load creates a cartridge from a ROM image. Only the length of the
// image is checked; see ValidateLogo, ValidateHeaderChecksum and
// ValidateGlobalChecksum for the checks the hardware performs.
func Load(rom []byte, opts ...Option) (*Cartridge, error) {
	if len(rom) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedImage, len(rom))
	}

	c := &Cartridge{
		rom:   append([]byte(nil), rom...),
		log:   log.NewNullLogger(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Header = Header{raw: c.rom[0x0100:headerEnd]}
	c.fingerprint = xxhash.Sum64(c.rom)
	c.controller = c.newController()

	c.log.Infof("cartridge: %s", c.Header.String())
	return c, nil
}

func (c *Cartridge) newController() controller {
	banks := c.ROMBanks()
	ramKB, err := c.RAMSizeKB()
	if err != nil {
		c.log.Warnf("cartridge: %v, assuming no RAM", err)
	}
	ramSize := int(ramKB) * 1024

	switch t := c.CartridgeType(); t {
	case ROM, ROMRAM, ROMRAMBATT:
		if ramSize > ramBankSize {
			ramSize = ramBankSize
		}
		return newROMCartridge(c.rom, ramSize)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return newMemoryBankedCartridge1(c.rom, banks, ramSize)
	case MBC2, MBC2BATT:
		return newMemoryBankedCartridge2(c.rom, banks)
	case MBC3TIMERBATT, MBC3TIMERRAMBATT:
		return newMemoryBankedCartridge3(c.rom, banks, ramSize, newRTC(c.clock))
	case MBC3, MBC3RAM, MBC3RAMBATT:
		return newMemoryBankedCartridge3(c.rom, banks, ramSize, nil)
	case MBC5, MBC5RAM, MBC5RAMBATT:
		return newMemoryBankedCartridge5(c.rom, banks, ramSize, false)
	case MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return newMemoryBankedCartridge5(c.rom, banks, ramSize, true)
	default:
		c.log.Warnf("cartridge: unsupported cartridge type %s, mapping as ROM only", t)
		return newROMCartridge(c.rom, 0)
	}
}

// Read returns the byte at address from ROM (0x0000-0x7FFF) or cartridge
// RAM (0xA000-0xBFFF). Disabled or absent RAM and any other address
// read as 0xFF.
func (c *Cartridge) Read(address uint16) uint8 {
	return c.controller.read(address)
}

// Write updates the bank controller (0x0000-0x7FFF) or writes cartridge
// RAM (0xA000-0xBFFF). The ROM itself is never modified.
func (c *Cartridge) Write(address uint16, value uint8) {
	c.controller.write(address, value)
}

// ROMBank returns the bank currently mapped at 0x4000-0x7FFF.
func (c *Cartridge) ROMBank() int {
	return c.controller.romBank()
}

// RAMBank returns the selected RAM bank (or RTC register on MBC3).
func (c *Cartridge) RAMBank() int {
	return c.controller.ramBank()
}

// Reset puts the bank controller in its power on state: ROM bank 1,
// RAM disabled and every secondary register cleared. RAM contents and
// the real time clock are kept.
func (c *Cartridge) Reset() {
	c.controller.reset()
}

func (c *Cartridge) RAMEnabled() bool {
	return c.controller.ramEnabled()
}

// Fingerprint returns a hash identifying the ROM image.
func (c *Cartridge) Fingerprint() uint64 {
	return c.fingerprint
}

// Len returns the size of the ROM image in bytes.
func (c *Cartridge) Len() int {
	return len(c.rom)
}

// ValidateLogo reports whether the header carries the logo bitmap the
// boot ROM checks for.
func (c *Cartridge) ValidateLogo() bool {
	return c.Logo() == nintendoLogo
}

// ValidateHeaderChecksum reports whether the checksum over
// 0x0134-0x014C matches the byte at 0x014D.
func (c *Cartridge) ValidateHeaderChecksum() bool {
	var x uint8
	for _, b := range c.rom[0x0134:0x014D] {
		x = x - b - 1
	}
	return x == c.HeaderChecksum()
}

// ValidateGlobalChecksum reports whether the sum of every byte of the
// image, except the checksum itself, matches 0x014E-0x014F.
func (c *Cartridge) ValidateGlobalChecksum() bool {
	var sum uint16
	for i, b := range c.rom {
		if i == 0x014E || i == 0x014F {
			continue
		}
		sum += uint16(b)
	}
	return sum == c.GlobalChecksum()
}

// Load restores the bank controller state, including RAM contents.
func (c *Cartridge) Load(s *types.State) {
	c.controller.Load(s)
}

// Save stores the bank controller state, including RAM contents.
func (c *Cartridge) Save(s *types.State) {
	c.controller.Save(s)
}

var _ types.Stater = (*Cartridge)(nil)
