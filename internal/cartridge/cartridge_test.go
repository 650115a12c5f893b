package cartridge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/gbcore/internal/types"
)

// buildROM returns an image of the given number of 16 KiB banks, where
// the first byte of every bank after the header area holds the bank
// number, and a valid header for the given type and size codes.
func buildROM(banks int, cartType Type, romCode, ramCode uint8) []byte {
	rom := make([]byte, banks*romBankSize)
	for b := 0; b < banks; b++ {
		rom[b*romBankSize+0x0200] = uint8(b)
		rom[b*romBankSize+0x3FFF] = uint8(b)
	}
	copy(rom[0x0104:], nintendoLogo[:])
	copy(rom[0x0134:], "GBCORE TEST")
	rom[0x0147] = uint8(cartType)
	rom[0x0148] = romCode
	rom[0x0149] = ramCode
	rom[0x014A] = 0x01

	var x uint8
	for _, b := range rom[0x0134:0x014D] {
		x = x - b - 1
	}
	rom[0x014D] = x

	var sum uint16
	for i, b := range rom {
		if i != 0x014E && i != 0x014F {
			sum += uint16(b)
		}
	}
	rom[0x014E] = uint8(sum >> 8)
	rom[0x014F] = uint8(sum)
	return rom
}

func mustLoad(t *testing.T, rom []byte, opts ...Option) *Cartridge {
	t.Helper()
	c, err := Load(rom, opts...)
	require.NoError(t, err)
	return c
}

func TestLoad_Truncated(t *testing.T) {
	for _, size := range []int{0, 0x100, 0x14F} {
		_, err := Load(make([]byte, size))
		if !errors.Is(err, ErrTruncatedImage) {
			t.Errorf("expected ErrTruncatedImage for %d bytes, got %v", size, err)
		}
	}

	// the header alone is enough
	c, err := Load(make([]byte, 0x150))
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), c.Read(0x4000))
}

func TestLoad_CopiesImage(t *testing.T) {
	rom := buildROM(2, ROM, 0, 0)
	c := mustLoad(t, rom)
	rom[0x0200] = 0x42
	assert.Equal(t, uint8(0x00), c.Read(0x0200))
}

func TestHeader(t *testing.T) {
	c := mustLoad(t, buildROM(8, MBC1RAM, 2, 3))

	assert.Equal(t, "GBCORE TEST", c.Title())
	assert.Equal(t, MBC1RAM, c.CartridgeType())
	romKB, err := c.ROMSizeKB()
	require.NoError(t, err)
	assert.Equal(t, uint(128), romKB)
	assert.Equal(t, 8, c.ROMBanks())
	size, err := c.RAMSizeKB()
	require.NoError(t, err)
	assert.Equal(t, uint(32), size)
	name, err := c.DestinationName()
	require.NoError(t, err)
	assert.Equal(t, "Overseas", name)
	assert.Equal(t, "DMG", c.Hardware())
	assert.False(t, c.SGBFlag())
	assert.True(t, c.ValidateLogo())
	assert.True(t, c.ValidateHeaderChecksum())
	assert.True(t, c.ValidateGlobalChecksum())
	assert.Contains(t, c.String(), "MBC1+RAM")
}

func TestHeader_Codes(t *testing.T) {
	rom := buildROM(2, ROM, 0, 6)
	rom[0x014A] = 0x07
	rom[0x0143] = 0xC0
	rom[0x014E], rom[0x014F] = 0x12, 0x34
	c := mustLoad(t, rom)

	_, err := c.RAMSizeKB()
	if !errors.Is(err, ErrUnknownRAMSize) {
		t.Errorf("expected ErrUnknownRAMSize, got %v", err)
	}
	_, err = c.DestinationName()
	if !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}
	assert.Equal(t, uint16(0x1234), c.GlobalChecksum())
	assert.Equal(t, "CGB", c.Hardware())
	assert.Equal(t, FlagOnlyCGB, c.Mode())
	assert.False(t, c.ValidateGlobalChecksum())
	assert.Contains(t, c.String(), "RAM Size: unknown")
}

func TestHeader_ROMSizeCodes(t *testing.T) {
	rom := buildROM(2, ROM, 0, 0)
	for code := uint8(0); code <= 8; code++ {
		rom[0x0148] = code
		c := mustLoad(t, rom)
		size, err := c.ROMSizeKB()
		require.NoError(t, err)
		assert.Equal(t, uint(32)<<code, size)
		assert.Equal(t, 2<<code, c.ROMBanks())
	}
	for code, banks := range map[uint8]int{0x52: 72, 0x53: 80, 0x54: 96} {
		rom[0x0148] = code
		size, err := mustLoad(t, rom).ROMSizeKB()
		require.NoError(t, err)
		assert.Equal(t, uint(banks)*16, size)
	}

	for _, code := range []uint8{0x09, 0x20, 0x51, 0x55, 0xFF} {
		rom[0x0148] = code
		c := mustLoad(t, rom)
		assert.Equal(t, 0, c.ROMBanks())
		if _, err := c.ROMSizeKB(); !errors.Is(err, ErrUnknownROMSize) {
			t.Errorf("code 0x%02X: expected ErrUnknownROMSize, got %v", code, err)
		}
		assert.Contains(t, c.String(), "ROM Size: unknown")
	}
}

func TestTitle_StopsAtNUL(t *testing.T) {
	rom := buildROM(2, ROM, 0, 0)
	copy(rom[0x0134:], "ABC\x00DEF")
	assert.Equal(t, "ABC", mustLoad(t, rom).Title())
}

func TestROMOnly(t *testing.T) {
	c := mustLoad(t, buildROM(2, ROM, 0, 0))
	assert.Equal(t, uint8(1), c.Read(0x4200))

	// writes to ROM are ignored
	c.Write(0x0200, 0x55)
	c.Write(0x2000, 0x05)
	assert.Equal(t, uint8(0), c.Read(0x0200))
	assert.Equal(t, 1, c.ROMBank())

	// no RAM
	c.Write(0xA000, 0x12)
	assert.Equal(t, uint8(0xFF), c.Read(0xA000))
	assert.Equal(t, uint8(0xFF), c.Read(0x9000))
}

func TestROMRAM(t *testing.T) {
	c := mustLoad(t, buildROM(2, ROMRAM, 0, 2))
	c.Write(0xA123, 0x99)
	assert.Equal(t, uint8(0x99), c.Read(0xA123))
}

func TestUnknownType_FallsBackToROMOnly(t *testing.T) {
	c := mustLoad(t, buildROM(4, HUDSONHUC3, 1, 0))
	assert.Equal(t, uint8(1), c.Read(0x4200))
	c.Write(0x2000, 3)
	assert.Equal(t, uint8(1), c.Read(0x4200))
}

// For every controller and every value written to its bank register,
// the mapped bank is the written bank wrapped to the declared count.
func TestBankSwitch_Wraps(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		code  uint8
		reg   uint16
		mask  int
		zeroR bool // bank 0 remaps to 1
	}{
		{"MBC1", MBC1, 2, 0x2000, 0x1F, true},
		{"MBC2", MBC2, 2, 0x2100, 0x0F, true},
		{"MBC3", MBC3, 2, 0x2000, 0x7F, true},
		{"MBC5", MBC5, 2, 0x2000, 0xFF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustLoad(t, buildROM(8, tt.typ, tt.code, 0))
			banks := c.ROMBanks()
			for v := 0; v < 256; v++ {
				c.Write(tt.reg, uint8(v))
				want := v & tt.mask
				if want == 0 && tt.zeroR {
					want = 1
				}
				want %= banks
				if got := c.ROMBank(); got != want {
					t.Fatalf("wrote 0x%02X: expected bank %d, got %d", v, want, got)
				}
				if got := c.Read(0x4200); got != uint8(want) {
					t.Fatalf("wrote 0x%02X: expected to read bank %d, got %d", v, want, got)
				}
				if got := c.Read(0x7FFF); got != uint8(want) {
					t.Fatalf("wrote 0x%02X: expected bank %d at 0x7FFF, got %d", v, want, got)
				}
			}
		})
	}
}

func TestBankSwitch_ShortImage(t *testing.T) {
	// declares 8 banks, ships 4
	rom := buildROM(4, MBC1, 2, 0)
	c := mustLoad(t, rom)
	c.Write(0x2000, 6)
	assert.Equal(t, 6, c.ROMBank())
	assert.Equal(t, uint8(0xFF), c.Read(0x4200))
	c.Write(0x2000, 3)
	assert.Equal(t, uint8(3), c.Read(0x4200))
}

func TestMBC1_RAM(t *testing.T) {
	c := mustLoad(t, buildROM(4, MBC1RAMBATT, 1, 3))

	// disabled RAM reads open bus and ignores writes
	c.Write(0xA000, 0x11)
	assert.Equal(t, uint8(0xFF), c.Read(0xA000))
	assert.False(t, c.RAMEnabled())

	c.Write(0x0000, 0x0A)
	assert.True(t, c.RAMEnabled())
	c.Write(0xA000, 0x11)
	assert.Equal(t, uint8(0x11), c.Read(0xA000))

	// advanced banking mode selects RAM bank 2
	c.Write(0x6000, 0x01)
	c.Write(0x4000, 0x02)
	assert.Equal(t, 2, c.RAMBank())
	assert.Equal(t, uint8(0x00), c.Read(0xA000))
	c.Write(0xA000, 0x22)

	c.Write(0x4000, 0x00)
	assert.Equal(t, uint8(0x11), c.Read(0xA000))
	c.Write(0x4000, 0x02)
	assert.Equal(t, uint8(0x22), c.Read(0xA000))

	c.Write(0x0000, 0x00)
	assert.Equal(t, uint8(0xFF), c.Read(0xA000))
}

func TestMBC1_UpperBankBits(t *testing.T) {
	c := mustLoad(t, buildROM(64, MBC1, 5, 0))
	c.Write(0x2000, 0x00)
	c.Write(0x4000, 0x01)
	assert.Equal(t, 0x21, c.ROMBank())
	assert.Equal(t, uint8(0x21), c.Read(0x4200))

	// bank 0 window follows the upper bits in advanced mode only
	assert.Equal(t, uint8(0x00), c.Read(0x0200))
	c.Write(0x6000, 0x01)
	assert.Equal(t, uint8(0x20), c.Read(0x0200))
}

func TestMBC2_RAM(t *testing.T) {
	c := mustLoad(t, buildROM(4, MBC2BATT, 1, 0))
	c.Write(0x0000, 0x0A)
	c.Write(0xA005, 0xAB)
	assert.Equal(t, uint8(0xFB), c.Read(0xA005))
	// 512 bytes mirror across the window
	assert.Equal(t, uint8(0xFB), c.Read(0xA205))
	assert.Equal(t, uint8(0xFB), c.Read(0xBE05))
}

func TestMBC3_RTC(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := mustLoad(t, buildROM(4, MBC3TIMERRAMBATT, 1, 3), WithClock(func() time.Time { return now }))

	c.Write(0x0000, 0x0A)
	c.Write(0x4000, 0x08) // seconds
	c.Write(0xA000, 30)

	now = now.Add(2*time.Hour + 45*time.Second)
	c.Write(0x6000, 0x00)
	c.Write(0x6000, 0x01)

	assert.Equal(t, uint8(15), c.Read(0xA000))
	c.Write(0x4000, 0x09)
	assert.Equal(t, uint8(1), c.Read(0xA000))
	c.Write(0x4000, 0x0A)
	assert.Equal(t, uint8(2), c.Read(0xA000))

	// latched values hold until the next latch
	now = now.Add(time.Hour)
	assert.Equal(t, uint8(2), c.Read(0xA000))

	// RAM banks are still reachable
	c.Write(0x4000, 0x01)
	c.Write(0xA000, 0x77)
	assert.Equal(t, uint8(0x77), c.Read(0xA000))
	assert.Equal(t, 1, c.RAMBank())
}

func TestMBC3_RTC_DayOverflow(t *testing.T) {
	now := time.Unix(0, 0)
	r := newRTC(func() time.Time { return now })
	now = now.Add(600 * 24 * time.Hour)
	r.Latch()
	days := int(r.DaysLower) | int(r.DaysHigherAndControl&0x01)<<8
	assert.Equal(t, 600-512, days)
	assert.Equal(t, uint8(0x80), r.DaysHigherAndControl&0x80)

	// halted clocks do not count
	r.write(0x0C, 0x40)
	now = now.Add(time.Hour)
	r.Update()
	assert.Equal(t, uint8(0), r.Hours)
}

func TestMBC5_BankZeroAndHighBit(t *testing.T) {
	c := mustLoad(t, buildROM(512, MBC5, 8, 0))
	c.Write(0x2000, 0x00)
	assert.Equal(t, 0, c.ROMBank())
	c.Write(0x2000, 0x05)
	c.Write(0x3000, 0x01)
	assert.Equal(t, 0x105, c.ROMBank())
	assert.Equal(t, uint8(0x05), c.Read(0x4200))
}

func TestMBC5_Rumble(t *testing.T) {
	c := mustLoad(t, buildROM(4, MBC5RUMBLERAM, 1, 3))
	c.Write(0x4000, 0x0A)
	assert.Equal(t, 2, c.RAMBank())
}

func TestReset(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		ramCode  uint8
		romReg   uint16
		ramReg   uint16
		stored   uint8 // what the 0x05 written to RAM reads back as
		setup    func(c *Cartridge)
		assertOn func(t *testing.T, c *Cartridge)
	}{
		{name: "MBC1", typ: MBC1RAMBATT, ramCode: 3, romReg: 0x2000, ramReg: 0x4000, stored: 0x05,
			setup: func(c *Cartridge) { c.Write(0x6000, 0x01) },
			assertOn: func(t *testing.T, c *Cartridge) {
				m := c.controller.(*memoryBankedCartridge1)
				assert.False(t, m.mode, "banking mode")
				assert.Equal(t, uint8(0), m.bank2)
				assert.Equal(t, uint8(0x00), c.Read(0x0200))
			}},
		{name: "MBC2", typ: MBC2BATT, romReg: 0x2100, stored: 0xF5},
		{name: "MBC3", typ: MBC3TIMERRAMBATT, ramCode: 3, romReg: 0x2000, ramReg: 0x4000, stored: 0x05,
			setup: func(c *Cartridge) { c.Write(0x6000, 0x00) },
			assertOn: func(t *testing.T, c *Cartridge) {
				assert.Equal(t, uint8(0xFF), c.controller.(*memoryBankedCartridge3).latch)
			}},
		{name: "MBC5", typ: MBC5RAM, ramCode: 3, romReg: 0x2000, ramReg: 0x4000, stored: 0x05,
			setup: func(c *Cartridge) { c.Write(0x3000, 0x01) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustLoad(t, buildROM(8, tt.typ, 2, tt.ramCode))
			c.Write(0x0000, 0x0A)
			c.Write(0xA000, 0x05)
			c.Write(tt.romReg, 0x05)
			if tt.ramReg != 0 {
				c.Write(tt.ramReg, 0x02)
			}
			if tt.setup != nil {
				tt.setup(c)
			}

			c.Reset()
			assert.Equal(t, 1, c.ROMBank())
			assert.Equal(t, uint8(1), c.Read(0x4200))
			assert.Equal(t, 0, c.RAMBank())
			assert.False(t, c.RAMEnabled())
			assert.Equal(t, uint8(0xFF), c.Read(0xA000))
			if tt.assertOn != nil {
				tt.assertOn(t, c)
			}

			// RAM is battery backed and keeps its contents
			c.Write(0x0000, 0x0A)
			assert.Equal(t, tt.stored, c.Read(0xA000))
		})
	}

	// RAM without a controller stays accessible
	c := mustLoad(t, buildROM(2, ROMRAM, 0, 2))
	c.Write(0xA000, 0x42)
	c.Reset()
	assert.True(t, c.RAMEnabled())
	assert.Equal(t, uint8(0x42), c.Read(0xA000))
}

func TestState_RoundTrip(t *testing.T) {
	rom := buildROM(8, MBC1RAMBATT, 2, 2)
	c := mustLoad(t, rom)
	c.Write(0x0000, 0x0A)
	c.Write(0x2000, 0x05)
	c.Write(0xA010, 0x5A)

	s := types.NewState()
	c.Save(s)

	d := mustLoad(t, rom)
	d.Load(types.StateFromBytes(s.Bytes()))
	assert.Equal(t, 5, d.ROMBank())
	assert.True(t, d.RAMEnabled())
	assert.Equal(t, uint8(0x5A), d.Read(0xA010))
	assert.Equal(t, c.Fingerprint(), d.Fingerprint())
}

func TestFingerprint(t *testing.T) {
	a := mustLoad(t, buildROM(2, ROM, 0, 0))
	rom := buildROM(2, ROM, 0, 0)
	rom[0x7000] = 1
	b := mustLoad(t, rom)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
