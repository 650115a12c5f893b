// Package opcode describes the SM83 instruction set as data. A Table
// holds one immutable Opcode descriptor for every byte of the
// unprefixed and CB-prefixed instruction spaces; the CPU decodes and
// executes instructions from those descriptors.
package opcode

import (
	"fmt"
	"strings"
)

// Effect describes what an instruction does to a single flag.
type Effect uint8

const (
	Unaffected Effect = iota // "-"
	Reset                    // "0"
	Set                      // "1"
	Computed                 // the flag's own letter
)

func (e Effect) String() string {
	switch e {
	case Reset:
		return "0"
	case Set:
		return "1"
	case Computed:
		return "*"
	default:
		return "-"
	}
}

// FlagEffects holds the effect an instruction has on each flag.
type FlagEffects struct {
	Z, N, H, C Effect
}

func (f FlagEffects) String() string {
	return f.Z.String() + f.N.String() + f.H.String() + f.C.String()
}

// Operand describes one operand of an instruction.
//
// Name is a register ("A", "HL"), an immediate placeholder ("n8", "n16",
// "e8", "a8", "a16"), a condition ("NZ", "Z", "NC", "C"), an RST vector
// ("$38") or a bit index ("0" - "7"). Immediate is false when the operand
// is a memory reference through the named value, e.g. (HL) or (a16).
type Operand struct {
	Name      string
	Bytes     uint8
	Increment bool
	Decrement bool
	Immediate bool
}

func (o Operand) String() string {
	name := o.Name
	switch {
	case o.Increment:
		name += "+"
	case o.Decrement:
		name += "-"
	}
	if !o.Immediate {
		return "(" + name + ")"
	}
	return name
}

// Opcode is the immutable descriptor of a single instruction.
type Opcode struct {
	Code     uint8
	Prefixed bool
	Mnemonic Mnemonic
	// Bytes is the total length of the instruction, including the
	// opcode byte (and the 0xCB prefix for prefixed instructions).
	Bytes uint8
	// Cycles holds the base cost, followed by the cost when the
	// condition of a conditional instruction holds.
	Cycles    []uint8
	Operands  []Operand
	Immediate bool
	Flags     FlagEffects
}

// BaseCycles returns the cost of the instruction when no branch is taken.
func (o *Opcode) BaseCycles() uint8 {
	return o.Cycles[0]
}

// TakenCycles returns the cost of the instruction when its condition
// holds. For unconditional instructions this is the base cost.
func (o *Opcode) TakenCycles() uint8 {
	if len(o.Cycles) > 1 {
		return o.Cycles[1]
	}
	return o.Cycles[0]
}

// Conditional reports whether the cost depends on a branch condition.
func (o *Opcode) Conditional() bool {
	return len(o.Cycles) > 1
}

// String returns the assembly form of the instruction, e.g. "LD A,(HL+)".
func (o *Opcode) String() string {
	switch o.Mnemonic {
	case ILLEGAL:
		return fmt.Sprintf("ILLEGAL_%02X", o.Code)
	case PREFIX:
		return "PREFIX CB"
	}
	if len(o.Operands) == 0 {
		return o.Mnemonic.String()
	}
	ops := make([]string, len(o.Operands))
	for i, op := range o.Operands {
		ops[i] = op.String()
	}
	return o.Mnemonic.String() + " " + strings.Join(ops, ",")
}
