package cpu

import "github.com/thelolagemann/gbcore/internal/opcode"

// incDec implements INC and DEC. Word registers change without
// touching the flags.
func (c *CPU) incDec(op opcode.Operand, delta int) flags {
	if is16(op) {
		c.write16(op, c.read16(op)+uint16(delta))
		return flags{}
	}
	v := c.read8(op)
	var (
		result uint8
		f      flags
	)
	if delta > 0 {
		result, f = add8(v, 1, false)
	} else {
		result, f = sub8(v, 1, false)
	}
	c.write8(op, result)
	return f
}

// add implements ADD A,r, ADD HL,rr and ADD SP,e8.
func (c *CPU) add(ops []opcode.Operand) flags {
	var f flags
	switch dst := ops[0]; {
	case dst.Name == "SP":
		c.SP, f = addSigned(c.SP, c.n8())
	case is16(dst):
		var result uint16
		result, f = add16(c.read16(dst), c.read16(ops[1]))
		c.write16(dst, result)
	default:
		c.A, f = add8(c.A, c.read8(last(ops)), false)
	}
	return f
}
