package cpu

import (
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/pkg/bits"
)

// execute runs a decoded instruction, with PC already pointing at the
// next one, and reports whether a conditional instruction's condition
// held.
func (c *CPU) execute(op *opcode.Opcode) bool {
	var (
		f     flags
		taken bool
	)
	ops := op.Operands

	switch op.Mnemonic {
	case opcode.NOP, opcode.PREFIX:
	case opcode.LD, opcode.LDH:
		f = c.load(ops)
	case opcode.INC:
		f = c.incDec(ops[0], 1)
	case opcode.DEC:
		f = c.incDec(ops[0], -1)
	case opcode.ADD:
		f = c.add(ops)
	case opcode.ADC:
		c.A, f = add8(c.A, c.read8(last(ops)), c.isFlagSet(FlagCarry))
	case opcode.SUB:
		c.A, f = sub8(c.A, c.read8(last(ops)), false)
	case opcode.SBC:
		c.A, f = sub8(c.A, c.read8(last(ops)), c.isFlagSet(FlagCarry))
	case opcode.CP:
		_, f = sub8(c.A, c.read8(last(ops)), false)
	case opcode.AND:
		c.A &= c.read8(last(ops))
		f.z = c.A == 0
	case opcode.OR:
		c.A |= c.read8(last(ops))
		f.z = c.A == 0
	case opcode.XOR:
		c.A ^= c.read8(last(ops))
		f.z = c.A == 0
	case opcode.DAA:
		c.A, f = daa(c.A, c.isFlagSet(FlagSubtract), c.isFlagSet(FlagHalfCarry), c.isFlagSet(FlagCarry))
	case opcode.CPL:
		c.A = ^c.A
	case opcode.SCF:
	case opcode.CCF:
		f.c = !c.isFlagSet(FlagCarry)
	case opcode.RLCA:
		c.A, f = rotateLeft(c.A, false, false)
	case opcode.RLA:
		c.A, f = rotateLeft(c.A, true, c.isFlagSet(FlagCarry))
	case opcode.RRCA:
		c.A, f = rotateRight(c.A, false, false)
	case opcode.RRA:
		c.A, f = rotateRight(c.A, true, c.isFlagSet(FlagCarry))

	case opcode.JP:
		taken = c.jump(op, c.read16(last(ops)))
	case opcode.JR:
		taken = c.jump(op, c.PC+uint16(int8(c.n8())))
	case opcode.CALL:
		if taken = c.conditionHolds(op); taken {
			c.push(c.PC)
			c.PC = c.n16()
		}
	case opcode.RET:
		if taken = c.conditionHolds(op); taken {
			c.PC = c.pop()
		}
	case opcode.RETI:
		c.PC = c.pop()
		c.ime = true
	case opcode.RST:
		c.push(c.PC)
		c.PC = vector(ops[0])
	case opcode.PUSH:
		c.push(c.read16(ops[0]))
	case opcode.POP:
		c.write16(ops[0], c.pop())
		// POP AF loads the flags themselves
		fl := c.F()
		f = flags{z: bits.Test(fl, FlagZero), n: bits.Test(fl, FlagSubtract), h: bits.Test(fl, FlagHalfCarry), c: bits.Test(fl, FlagCarry)}

	case opcode.DI:
		c.ime = false
		c.imePending = false
	case opcode.EI:
		c.imePending = true
	case opcode.HALT:
		c.mode = ModeHalt
	case opcode.STOP:
		c.mode = ModeStop
	case opcode.ILLEGAL:
		c.mode = ModeLocked
		c.log.Errorf("cpu: illegal opcode 0x%02X at 0x%04X, locking up", op.Code, c.PC-uint16(op.Bytes))

	case opcode.RLC:
		f = c.modify(last(ops), func(v uint8) (uint8, flags) { return rotateLeft(v, false, false) })
	case opcode.RL:
		carry := c.isFlagSet(FlagCarry)
		f = c.modify(last(ops), func(v uint8) (uint8, flags) { return rotateLeft(v, true, carry) })
	case opcode.RRC:
		f = c.modify(last(ops), func(v uint8) (uint8, flags) { return rotateRight(v, false, false) })
	case opcode.RR:
		carry := c.isFlagSet(FlagCarry)
		f = c.modify(last(ops), func(v uint8) (uint8, flags) { return rotateRight(v, true, carry) })
	case opcode.SLA:
		f = c.modify(last(ops), shiftLeftArithmetic)
	case opcode.SRA:
		f = c.modify(last(ops), shiftRightArithmetic)
	case opcode.SRL:
		f = c.modify(last(ops), shiftRightLogical)
	case opcode.SWAP:
		f = c.modify(last(ops), swap)
	case opcode.BIT:
		f.z = !bits.Test(c.read8(ops[1]), bitIndex(ops[0]))
	case opcode.RES:
		b := bitIndex(ops[0])
		c.write8(ops[1], bits.Reset(c.read8(ops[1]), b))
	case opcode.SET:
		b := bitIndex(ops[0])
		c.write8(ops[1], bits.Set(c.read8(ops[1]), b))
	}

	for _, o := range ops {
		c.postIncrement(o)
	}
	c.applyFlags(op.Flags, f)
	return taken
}

func last(ops []opcode.Operand) opcode.Operand {
	if len(ops) == 0 {
		return opcode.Operand{Name: "A", Immediate: true}
	}
	return ops[len(ops)-1]
}

// modify applies fn to the byte op refers to.
func (c *CPU) modify(op opcode.Operand, fn func(uint8) (uint8, flags)) flags {
	result, f := fn(c.read8(op))
	c.write8(op, result)
	return f
}
