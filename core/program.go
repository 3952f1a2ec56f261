package core

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxLiteral is the largest constant an A-instruction can hold.
const MaxLiteral = 1<<15 - 1

// firstVariable is the address given to the first undeclared symbol.
const firstVariable = 16

// ErrSyntax is returned for any line the assembler cannot encode.
var ErrSyntax = errors.New("hack syntax error")

// Program is an assembled Hack program.
type Program struct {
	Words []uint16

	// Source maps every word to its 1-based line in the assembly text.
	Source []int

	// Symbols holds predefined symbols, labels and allocated variables.
	Symbols map[string]uint16
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Words)
}

func predefinedSymbols() map[string]uint16 {
	syms := map[string]uint16{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": 16384,
		"KBD":    24576,
	}
	for i := 0; i < 16; i++ {
		syms["R"+strconv.Itoa(i)] = uint16(i)
	}
	return syms
}

// comp maps a computation mnemonic to its a-bit and six control bits.
var comp = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,

	// Commutative spellings.
	"A+D": 0b0000010,
	"A&D": 0b0000000,
	"A|D": 0b0010101,
	"M+D": 0b1000010,
	"M&D": 0b1000000,
	"M|D": 0b1010101,
	"1+D": 0b0011111,
	"1+A": 0b0110111,
	"1+M": 0b1110111,
}

var jump = map[string]uint16{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

const (
	destA = 0b100
	destD = 0b010
	destM = 0b001
)

type sourceLine struct {
	no   int
	text string
}

// Assemble translates Hack assembly text into machine words. Labels may be
// used before they are declared; any other unknown symbol becomes a
// variable allocated from address 16 upwards.
func Assemble(src string) (*Program, error) {
	p := &Program{Symbols: predefinedSymbols()}

	lines, err := p.collectLabels(src)
	if err != nil {
		return nil, err
	}

	next := uint16(firstVariable)
	for _, l := range lines {
		var word uint16

		if strings.HasPrefix(l.text, "@") {
			word, err = p.encodeA(l.text[1:], &next)
		} else {
			word, err = encodeC(l.text)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "line %d", l.no)
		}

		p.Words = append(p.Words, word)
		p.Source = append(p.Source, l.no)
	}

	return p, nil
}

// collectLabels is the first pass. It binds labels to instruction addresses
// and returns the instruction lines without comments and whitespace.
func (p *Program) collectLabels(src string) ([]sourceLine, error) {
	var lines []sourceLine

	for i, raw := range strings.Split(src, "\n") {
		text := stripSpace(stripComment(raw))
		if text == "" {
			continue
		}

		if !strings.HasPrefix(text, "(") {
			lines = append(lines, sourceLine{no: i + 1, text: text})
			continue
		}

		if !strings.HasSuffix(text, ")") {
			return nil, errors.Wrapf(ErrSyntax, "line %d: unterminated label %q", i+1, text)
		}

		name := text[1 : len(text)-1]
		if !IsSymbol(name) {
			return nil, errors.Wrapf(ErrSyntax, "line %d: invalid label %q", i+1, name)
		}
		if _, ok := p.Symbols[name]; ok {
			return nil, errors.Wrapf(ErrSyntax, "line %d: duplicate label %q", i+1, name)
		}
		if len(lines) > MaxLiteral {
			return nil, errors.Wrapf(ErrSyntax, "line %d: label %q beyond ROM", i+1, name)
		}

		p.Symbols[name] = uint16(len(lines))
	}

	return lines, nil
}

func (p *Program) encodeA(operand string, next *uint16) (uint16, error) {
	if operand != "" && operand[0] >= '0' && operand[0] <= '9' {
		v, err := strconv.ParseUint(operand, 10, 16)
		if err != nil || v > MaxLiteral {
			return 0, errors.Wrapf(ErrSyntax, "invalid constant %q", operand)
		}
		return uint16(v), nil
	}

	if !IsSymbol(operand) {
		return 0, errors.Wrapf(ErrSyntax, "invalid symbol %q", operand)
	}

	if addr, ok := p.Symbols[operand]; ok {
		return addr, nil
	}

	addr := *next
	p.Symbols[operand] = addr
	*next++

	return addr, nil
}

func encodeC(text string) (uint16, error) {
	var dest, jmp uint16

	rest := text
	if i := strings.Index(rest, "="); i >= 0 {
		d, err := encodeDest(rest[:i])
		if err != nil {
			return 0, err
		}
		dest = d
		rest = rest[i+1:]
	}

	if i := strings.Index(rest, ";"); i >= 0 {
		j, ok := jump[rest[i+1:]]
		if !ok || rest[i+1:] == "" {
			return 0, errors.Wrapf(ErrSyntax, "invalid jump in %q", text)
		}
		jmp = j
		rest = rest[:i]
	}

	c, ok := comp[rest]
	if !ok {
		return 0, errors.Wrapf(ErrSyntax, "invalid computation in %q", text)
	}

	return 0b111<<13 | c<<6 | dest<<3 | jmp, nil
}

func encodeDest(s string) (uint16, error) {
	if s == "" {
		return 0, errors.Wrap(ErrSyntax, "empty destination")
	}

	var d uint16
	for _, r := range s {
		var bit uint16
		switch r {
		case 'A':
			bit = destA
		case 'D':
			bit = destD
		case 'M':
			bit = destM
		default:
			return 0, errors.Wrapf(ErrSyntax, "invalid destination %q", s)
		}
		if d&bit != 0 {
			return 0, errors.Wrapf(ErrSyntax, "repeated destination %q", s)
		}
		d |= bit
	}

	return d, nil
}

// IsSymbol reports whether s is a legal Hack symbol.
func IsSymbol(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '.', r == '$', r == ':':
		default:
			return false
		}
	}
	return true
}

func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		return s[:i]
	}
	return s
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
