package cpu

import (
	"github.com/thelolagemann/gbcore/internal/opcode"
	"github.com/thelolagemann/gbcore/pkg/bits"
)

type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// flags holds the flag values an instruction computed. Only the flags
// the instruction's descriptor marks as computed are taken from it.
type flags struct {
	z, n, h, c bool
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return bits.Test(c.F(), flag)
}

func (c *CPU) setFlag(flag Flag, v bool) {
	c.SetF(bits.Assign(c.F(), flag, v))
}

// applyFlags updates F from the descriptor of an instruction: set and
// reset are unconditional, computed flags come from f and unaffected
// flags are left alone.
func (c *CPU) applyFlags(effects opcode.FlagEffects, f flags) {
	c.applyFlag(FlagZero, effects.Z, f.z)
	c.applyFlag(FlagSubtract, effects.N, f.n)
	c.applyFlag(FlagHalfCarry, effects.H, f.h)
	c.applyFlag(FlagCarry, effects.C, f.c)
}

func (c *CPU) applyFlag(flag Flag, effect opcode.Effect, computed bool) {
	switch effect {
	case opcode.Reset:
		c.setFlag(flag, false)
	case opcode.Set:
		c.setFlag(flag, true)
	case opcode.Computed:
		c.setFlag(flag, computed)
	}
}
