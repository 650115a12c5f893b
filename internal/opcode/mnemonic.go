package opcode

import "strings"

// Mnemonic identifies the operation an opcode performs. The set is
// closed: the description an opcode table is loaded from may only use
// the names listed here.
type Mnemonic uint8

const (
	ADC Mnemonic = iota
	ADD
	AND
	CALL
	CCF
	CP
	CPL
	DAA
	DEC
	DI
	EI
	HALT
	// ILLEGAL tags the eleven unassigned codes of the unprefixed space
	// (D3, DB, DD, E3, E4, EB, EC, ED, F4, FC, FD). Executing one locks
	// up the CPU.
	ILLEGAL
	INC
	JP
	JR
	LD
	LDH
	NOP
	OR
	POP
	PREFIX
	PUSH
	RET
	RETI
	RLA
	RLCA
	RRA
	RRCA
	RST
	SBC
	SCF
	STOP
	SUB
	XOR

	// CB-prefixed
	BIT
	RES
	RL
	RLC
	RR
	RRC
	SET
	SLA
	SRA
	SRL
	SWAP

	mnemonicCount
)

var mnemonicNames = [mnemonicCount]string{
	ADC: "ADC", ADD: "ADD", AND: "AND", CALL: "CALL", CCF: "CCF", CP: "CP",
	CPL: "CPL", DAA: "DAA", DEC: "DEC", DI: "DI", EI: "EI", HALT: "HALT",
	ILLEGAL: "ILLEGAL", INC: "INC", JP: "JP", JR: "JR", LD: "LD", LDH: "LDH",
	NOP: "NOP", OR: "OR", POP: "POP", PREFIX: "PREFIX", PUSH: "PUSH", RET: "RET",
	RETI: "RETI", RLA: "RLA", RLCA: "RLCA", RRA: "RRA", RRCA: "RRCA", RST: "RST",
	SBC: "SBC", SCF: "SCF", STOP: "STOP", SUB: "SUB", XOR: "XOR",
	BIT: "BIT", RES: "RES", RL: "RL", RLC: "RLC", RR: "RR", RRC: "RRC",
	SET: "SET", SLA: "SLA", SRA: "SRA", SRL: "SRL", SWAP: "SWAP",
}

var mnemonicLookup = func() map[string]Mnemonic {
	m := make(map[string]Mnemonic, mnemonicCount)
	for i, name := range mnemonicNames {
		m[name] = Mnemonic(i)
	}
	return m
}()

func (m Mnemonic) String() string {
	if m < mnemonicCount {
		return mnemonicNames[m]
	}
	return "UNKNOWN"
}

// ParseMnemonic returns the Mnemonic for the given name. Names are
// matched case-insensitively, and any "ILLEGAL_xx" name resolves to
// ILLEGAL.
func ParseMnemonic(name string) (Mnemonic, bool) {
	name = strings.ToUpper(name)
	if strings.HasPrefix(name, "ILLEGAL_") {
		return ILLEGAL, true
	}
	m, ok := mnemonicLookup[name]
	return m, ok
}
