package types

// Address represents a memory address in the Game Boy's memory,
// which can be read from or written to. It is used to abstract
// away the actual memory addresses, and instead use a more
// readable and understandable interface.
type Address struct {
	// Read is a function that is called when the CPU reads from
	// the address.
	Read func(address uint16) uint8
	// Write is a function that is called when the CPU writes to
	// the address.
	Write func(address uint16, value uint8)
}

// Boundaries of the regions of the 16-bit address space. Every
// region is inclusive of both its start and end address.
const (
	ROMBank0Start uint16 = 0x0000
	ROMBank0End   uint16 = 0x3FFF
	ROMBankNStart uint16 = 0x4000
	ROMBankNEnd   uint16 = 0x7FFF
	VRAMStart     uint16 = 0x8000
	VRAMEnd       uint16 = 0x9FFF
	ExtRAMStart   uint16 = 0xA000
	ExtRAMEnd     uint16 = 0xBFFF
	WRAM0Start    uint16 = 0xC000
	WRAM0End      uint16 = 0xCFFF
	WRAMNStart    uint16 = 0xD000
	WRAMNEnd      uint16 = 0xDFFF
	EchoStart     uint16 = 0xE000
	EchoEnd       uint16 = 0xFDFF
	OAMStart      uint16 = 0xFE00
	OAMEnd        uint16 = 0xFE9F
	UnusableStart uint16 = 0xFEA0
	UnusableEnd   uint16 = 0xFEFF
	IOStart       uint16 = 0xFF00
	IOEnd         uint16 = 0xFF7F
	HRAMStart     uint16 = 0xFF80
	HRAMEnd       uint16 = 0xFFFE
)

// HardwareAddress represents the address of a hardware
// register of the Game Boy. The hardware IO are mapped
// to memory addresses 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// SB is the address of the serial transfer data register. Before a
	// transfer it holds the byte to send, afterwards the byte received.
	SB HardwareAddress = 0xFF01
	// SC is the address of the serial transfer control register.
	//
	//  Bit 7 - Transfer Start Flag (0=No Transfer, 1=Start)
	//  Bit 0 - Shift Clock (0=External Clock, 1=Internal Clock)
	SC HardwareAddress = 0xFF02
	// DIV is the address of the divider register, the upper byte of the
	// 16-bit system counter. Writing any value resets the counter.
	DIV HardwareAddress = 0xFF04
	// TIMA is the address of the timer counter. It increments at the
	// frequency selected by TAC, and is reloaded from TMA on overflow.
	TIMA HardwareAddress = 0xFF05
	// TMA is the address of the timer modulo register.
	TMA HardwareAddress = 0xFF06
	// TAC is the address of the timer control register.
	//
	//  Bit  2   - Timer Enable
	//  Bits 1-0 - Input Clock Select
	//             00: CPU Clock / 1024
	//             01: CPU Clock / 16
	//             10: CPU Clock / 64
	//             11: CPU Clock / 256
	TAC HardwareAddress = 0xFF07
	// IF is the address of the IF hardware register. The IF
	// hardware register is used to request interrupts. Writing a 1
	// to a bit in IF requests an interrupt, and writing a 0 clears
	// the request.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// BDIS is the address of the BDIS hardware register. The BDIS
	// hardware register is used to unmap the boot ROM.
	//
	// The register is set as follows:
	//  Bit 0   - Disable boot ROM (0=Enable, 1=Disable)
	BDIS HardwareAddress = 0xFF50
	// IE is the address of the IE hardware register. The IE
	// hardware register is used to Enable interrupts. Writing a 1
	// to a bit in IE Enables the corresponding interrupt, and writing
	// a 0 disables the interrupt.
	IE HardwareAddress = 0xFFFF
)

// InterruptMask covers the five interrupt sources present in IE and IF.
const InterruptMask uint8 = 0x1F
