package opcode

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformedTable is returned when an opcode description does not
// describe exactly 256 valid entries for both instruction spaces.
var ErrMalformedTable = errors.New("opcode: malformed table")

// PrefixCB is the opcode that selects the CB-prefixed instruction space.
const PrefixCB uint8 = 0xCB

// Table holds the descriptors of both instruction spaces. A Table is
// never modified once it has been parsed, so it may be shared freely.
type Table struct {
	unprefixed [256]*Opcode
	cbprefixed [256]*Opcode
}

// Lookup returns the descriptor for the given opcode byte, from the
// CB-prefixed space if prefixed is set.
func (t *Table) Lookup(code uint8, prefixed bool) *Opcode {
	if prefixed {
		return t.cbprefixed[code]
	}
	return t.unprefixed[code]
}

//go:embed opcodes.json
var defaultJSON []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded description.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultJSON)
		if err != nil {
			panic(fmt.Sprintf("opcode: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

type rawTables struct {
	Unprefixed map[string]rawOpcode `json:"unprefixed"`
	CBPrefixed map[string]rawOpcode `json:"cbprefixed"`
}

type rawOpcode struct {
	Mnemonic  string       `json:"mnemonic"`
	Bytes     uint8        `json:"bytes"`
	Cycles    []int        `json:"cycles"`
	Operands  []rawOperand `json:"operands"`
	Immediate bool         `json:"immediate"`
	Flags     struct {
		Z string `json:"Z"`
		N string `json:"N"`
		H string `json:"H"`
		C string `json:"C"`
	} `json:"flags"`
}

type rawOperand struct {
	Name      string `json:"name"`
	Bytes     uint8  `json:"bytes"`
	Increment bool   `json:"increment"`
	Decrement bool   `json:"decrement"`
	Immediate bool   `json:"immediate"`
}

// Load reads an opcode description from r. See Parse.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a Table from a JSON opcode description of the form
//
//	{"unprefixed": {"0x00": {...}, ...}, "cbprefixed": {...}}
//
// Every failure wraps ErrMalformedTable.
func Parse(data []byte) (*Table, error) {
	var raw rawTables
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}

	t := &Table{}
	if err := fill(&t.unprefixed, raw.Unprefixed, false); err != nil {
		return nil, err
	}
	if err := fill(&t.cbprefixed, raw.CBPrefixed, true); err != nil {
		return nil, err
	}
	return t, nil
}

func fill(dst *[256]*Opcode, src map[string]rawOpcode, prefixed bool) error {
	space := "unprefixed"
	if prefixed {
		space = "cbprefixed"
	}
	if len(src) != 256 {
		return fmt.Errorf("%w: %s table has %d entries, expected 256", ErrMalformedTable, space, len(src))
	}

	for key, r := range src {
		code, err := parseKey(key)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedTable, space, err)
		}
		if dst[code] != nil {
			return fmt.Errorf("%w: %s: duplicate entry for 0x%02X", ErrMalformedTable, space, code)
		}
		op, err := r.opcode(code, prefixed)
		if err != nil {
			return fmt.Errorf("%w: %s 0x%02X: %v", ErrMalformedTable, space, code, err)
		}
		dst[code] = op
	}
	return nil
}

// parseKey parses a "0x"-prefixed hexadecimal key in the range 0-255.
func parseKey(key string) (uint8, error) {
	if len(key) < 3 || !strings.EqualFold(key[:2], "0x") {
		return 0, fmt.Errorf("invalid key %q", key)
	}
	v, err := strconv.ParseUint(key[2:], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q", key)
	}
	return uint8(v), nil
}

func (r rawOpcode) opcode(code uint8, prefixed bool) (*Opcode, error) {
	m, ok := ParseMnemonic(r.Mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown mnemonic %q", r.Mnemonic)
	}
	if r.Bytes == 0 {
		return nil, errors.New("instruction length is 0")
	}
	if len(r.Cycles) == 0 || len(r.Cycles) > 2 {
		return nil, fmt.Errorf("expected 1 or 2 cycle counts, got %d", len(r.Cycles))
	}

	cycles := make([]uint8, len(r.Cycles))
	for i, c := range r.Cycles {
		if c <= 0 || c > 0xFF {
			return nil, fmt.Errorf("invalid cycle count %d", c)
		}
		cycles[i] = uint8(c)
	}

	op := &Opcode{
		Code:      code,
		Prefixed:  prefixed,
		Mnemonic:  m,
		Bytes:     r.Bytes,
		Cycles:    cycles,
		Operands:  make([]Operand, len(r.Operands)),
		Immediate: r.Immediate,
	}
	for i, o := range r.Operands {
		if o.Name == "" {
			return nil, fmt.Errorf("operand %d has no name", i)
		}
		op.Operands[i] = Operand(o)
	}

	var err error
	if op.Flags.Z, err = parseEffect(r.Flags.Z, "Z"); err != nil {
		return nil, err
	}
	if op.Flags.N, err = parseEffect(r.Flags.N, "N"); err != nil {
		return nil, err
	}
	if op.Flags.H, err = parseEffect(r.Flags.H, "H"); err != nil {
		return nil, err
	}
	if op.Flags.C, err = parseEffect(r.Flags.C, "C"); err != nil {
		return nil, err
	}
	return op, nil
}

func parseEffect(symbol, flag string) (Effect, error) {
	switch symbol {
	case "-":
		return Unaffected, nil
	case "0":
		return Reset, nil
	case "1":
		return Set, nil
	case flag:
		return Computed, nil
	}
	return 0, fmt.Errorf("invalid effect %q for flag %s", symbol, flag)
}
