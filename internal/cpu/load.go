package cpu

import "github.com/thelolagemann/gbcore/internal/opcode"

// load implements LD and LDH.
func (c *CPU) load(ops []opcode.Operand) flags {
	if len(ops) == 3 {
		// LD HL,SP+e8
		result, f := addSigned(c.read16(ops[1]), c.n8())
		c.write16(ops[0], result)
		return f
	}
	if len(ops) != 2 {
		return flags{}
	}
	dst, src := ops[0], ops[1]
	if is16(dst) || is16(src) {
		c.write16(dst, c.read16(src))
	} else {
		c.write8(dst, c.read8(src))
	}
	return flags{}
}
