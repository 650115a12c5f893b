package cpu

import "github.com/thelolagemann/gbcore/internal/opcode"

// conditionHolds evaluates the condition of a conditional instruction,
// which is always its first operand. Unconditional instructions always
// hold.
func (c *CPU) conditionHolds(op *opcode.Opcode) bool {
	if !op.Conditional() || len(op.Operands) == 0 {
		return true
	}
	return c.condition(op.Operands[0])
}

func (c *CPU) jump(op *opcode.Opcode, target uint16) bool {
	if !c.conditionHolds(op) {
		return false
	}
	c.PC = target
	return true
}

func (c *CPU) push(v uint16) {
	c.SP -= 2
	c.mmu.Write16(c.SP, v)
}

func (c *CPU) pop() uint16 {
	v := c.mmu.Read16(c.SP)
	c.SP += 2
	return v
}
