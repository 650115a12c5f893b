package cartridge

import (
	"time"

	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/bits"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

// RTC is the real time clock of an MBC3 cartridge. It counts in whole
// seconds from a host clock, and exposes latched copies of its counters
// to the CPU.
type RTC struct {
	Seconds              uint8
	Minutes              uint8
	Hours                uint8
	DaysLower            uint8
	DaysHigherAndControl uint8 // bit 0: day bit 8, bit 6: halt, bit 7: day carry

	latched [5]uint8

	lastUpdate time.Time
	now        func() time.Time
}

func newRTC(now func() time.Time) *RTC {
	return &RTC{now: now, lastUpdate: now()}
}

func (r *RTC) halted() bool {
	return bits.Test(r.DaysHigherAndControl, 6)
}

// Update folds the whole seconds elapsed since the last update into the
// counters.
func (r *RTC) Update() {
	now := r.now()
	if r.halted() {
		r.lastUpdate = now
		return
	}
	delta := int64(now.Sub(r.lastUpdate) / time.Second)
	if delta <= 0 {
		return
	}
	r.lastUpdate = r.lastUpdate.Add(time.Duration(delta) * time.Second)

	total := int64(r.Seconds) + delta
	r.Seconds = uint8(total % 60)
	total = int64(r.Minutes) + total/60
	r.Minutes = uint8(total % 60)
	total = int64(r.Hours) + total/60
	r.Hours = uint8(total % 24)

	days := int64(r.DaysLower) | int64(bits.Val(r.DaysHigherAndControl, 0))<<8
	days += total / 24
	if days >= 512 {
		days %= 512
		r.DaysHigherAndControl = bits.Set(r.DaysHigherAndControl, 7)
	}
	r.DaysLower = uint8(days)
	r.DaysHigherAndControl = bits.Assign(r.DaysHigherAndControl, 0, days >= 256)
}

// Latch copies the current counters to the registers the CPU reads.
func (r *RTC) Latch() {
	r.Update()
	r.latched = [5]uint8{r.Seconds, r.Minutes, r.Hours, r.DaysLower, r.DaysHigherAndControl}
}

func (r *RTC) read(register uint8) uint8 {
	if register < 0x08 || register > 0x0C {
		return 0xFF
	}
	return r.latched[register-0x08]
}

func (r *RTC) write(register uint8, value uint8) {
	r.Update()
	switch register {
	case 0x08:
		r.Seconds = value & 0x3F
		// writing the seconds resets the sub-second counter
		r.lastUpdate = r.now()
	case 0x09:
		r.Minutes = value & 0x3F
	case 0x0A:
		r.Hours = value & 0x1F
	case 0x0B:
		r.DaysLower = value
	case 0x0C:
		r.DaysHigherAndControl = value & 0xC1
	}
}

func (r *RTC) Load(s *types.State) {
	r.Seconds = s.Read8()
	r.Minutes = s.Read8()
	r.Hours = s.Read8()
	r.DaysLower = s.Read8()
	r.DaysHigherAndControl = s.Read8()
	s.ReadData(r.latched[:])
	r.lastUpdate = time.Unix(int64(s.Read64()), 0)
}

func (r *RTC) Save(s *types.State) {
	s.Write8(r.Seconds)
	s.Write8(r.Minutes)
	s.Write8(r.Hours)
	s.Write8(r.DaysLower)
	s.Write8(r.DaysHigherAndControl)
	s.WriteData(r.latched[:])
	s.Write64(uint64(r.lastUpdate.Unix()))
}

// memoryBankedCartridge3 represents an MBC3 cartridge. It switches
// between 128 ROM banks and 4 RAM banks, and types 0x0F and 0x10 carry
// a real time clock whose registers are mapped in place of a RAM bank.
type memoryBankedCartridge3 struct {
	memoryBankedCartridge

	romb  uint8
	ramb  uint8 // 0x00-0x03 selects RAM, 0x08-0x0C an RTC register
	rtc   *RTC
	latch uint8
}

func newMemoryBankedCartridge3(rom []byte, banks int, ramSize int, rtc *RTC) *memoryBankedCartridge3 {
	return &memoryBankedCartridge3{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, banks, ramSize),
		romb:                  1,
		rtc:                   rtc,
		latch:                 0xFF,
	}
}

func (m *memoryBankedCartridge3) rtcSelected() bool {
	return m.rtc != nil && m.ramb >= 0x08 && m.ramb <= 0x0C
}

func (m *memoryBankedCartridge3) read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(m.romBank(), address)
	case address >= 0xA000 && address < 0xC000:
		if m.rtcSelected() {
			if !m.ramOn {
				return 0xFF
			}
			return m.rtc.read(m.ramb)
		}
		if m.ramb > 0x03 {
			return 0xFF
		}
		return m.readRAM(int(m.ramb), address)
	}
	return 0xFF
}

func (m *memoryBankedCartridge3) write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramOn = ramEnableValue(value)
	case address < 0x4000:
		m.romb = utils.ZeroAdjust8(value & 0x7F)
	case address < 0x6000:
		m.ramb = value & 0x0F
	case address < 0x8000:
		// writing 0x00 then 0x01 latches the clock
		if m.rtc != nil && m.latch == 0x00 && value == 0x01 {
			m.rtc.Latch()
		}
		m.latch = value
	case address >= 0xA000 && address < 0xC000:
		if m.rtcSelected() {
			if m.ramOn {
				m.rtc.write(m.ramb, value)
			}
			return
		}
		if m.ramb <= 0x03 {
			m.writeRAM(int(m.ramb), address, value)
		}
	}
}

func (m *memoryBankedCartridge3) reset() {
	m.memoryBankedCartridge.reset()
	m.romb = 1
	m.ramb = 0
	m.latch = 0xFF
}

func (m *memoryBankedCartridge3) romBank() int {
	return m.wrapROM(int(m.romb))
}

func (m *memoryBankedCartridge3) ramBank() int {
	return int(m.ramb)
}

func (m *memoryBankedCartridge3) Load(s *types.State) {
	m.memoryBankedCartridge.Load(s)
	m.romb = s.Read8()
	m.ramb = s.Read8()
	m.latch = s.Read8()
	if m.rtc != nil {
		m.rtc.Load(s)
	}
}

func (m *memoryBankedCartridge3) Save(s *types.State) {
	m.memoryBankedCartridge.Save(s)
	s.Write8(m.romb)
	s.Write8(m.ramb)
	s.Write8(m.latch)
	if m.rtc != nil {
		m.rtc.Save(s)
	}
}
