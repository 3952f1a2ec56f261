package core

import (
	"github.com/pkg/errors"
)

// DefaultRAMSize covers the data memory, the screen map and the keyboard.
const DefaultRAMSize = 24577

var (
	// ErrBadAddress is returned when an instruction touches memory outside
	// the RAM.
	ErrBadAddress = errors.New("memory access out of range")

	// ErrStepLimit is returned when a program does not halt within its step
	// budget.
	ErrStepLimit = errors.New("step limit reached")
)

// CPU is the architectural state of a Hack computer. A program halts when
// the program counter runs past its last instruction.
type CPU struct {
	A, D, PC uint16
	RAM      []uint16
	ROM      []uint16

	// source holds the assembly line of every ROM word.
	source []int

	// Steps counts executed instructions.
	Steps int

	emu instEmulator
}

// NewCPU creates a CPU with ramSize words of zeroed data memory.
func NewCPU(ramSize int) *CPU {
	if ramSize <= 0 {
		ramSize = DefaultRAMSize
	}
	return &CPU{RAM: make([]uint16, ramSize)}
}

// Load places a program in ROM and resets the registers. RAM is kept so that
// callers can prepare it before or after loading.
func (c *CPU) Load(p *Program) {
	c.ROM = append(c.ROM[:0], p.Words...)
	c.source = append(c.source[:0], p.Source...)
	c.A, c.D, c.PC = 0, 0, 0
	c.Steps = 0
}

// Halted reports whether the program counter has left the program.
func (c *CPU) Halted() bool {
	return int(c.PC) >= len(c.ROM)
}

// Step executes a single instruction.
func (c *CPU) Step() error {
	if c.Halted() {
		return nil
	}

	pc := c.PC
	if err := c.emu.RunInst(c.ROM[pc], c); err != nil {
		if line := c.SourceLine(pc); line > 0 {
			return errors.Wrapf(err, "pc %d, asm line %d", pc, line)
		}
		return errors.Wrapf(err, "pc %d", pc)
	}
	c.Steps++

	return nil
}

// Run executes until the program halts. A positive maxSteps bounds the
// number of executed instructions.
func (c *CPU) Run(maxSteps int) error {
	for !c.Halted() {
		if maxSteps > 0 && c.Steps >= maxSteps {
			return errors.Wrapf(ErrStepLimit, "after %d steps at pc %d", c.Steps, c.PC)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// SourceLine returns the assembly line the word at pc came from, or 0 when
// it is unknown.
func (c *CPU) SourceLine(pc uint16) int {
	if int(pc) >= len(c.source) {
		return 0
	}
	return c.source[pc]
}

// Peek returns the value stored at addr as a signed word.
func (c *CPU) Peek(addr int) int16 {
	return int16(c.RAM[addr])
}

// Poke stores v at addr.
func (c *CPU) Poke(addr int, v int16) {
	c.RAM[addr] = uint16(v)
}

// Stack returns the values between base and the stack pointer, bottom first.
func (c *CPU) Stack(base int) []int16 {
	sp := int(c.RAM[0])
	if sp <= base || sp > len(c.RAM) {
		return nil
	}

	stack := make([]int16, 0, sp-base)
	for addr := base; addr < sp; addr++ {
		stack = append(stack, int16(c.RAM[addr]))
	}
	return stack
}

type instEmulator struct {
}

// RunInst executes one machine word against the CPU state.
func (i instEmulator) RunInst(word uint16, c *CPU) error {
	if word&0x8000 == 0 {
		c.A = word
		c.PC++
		return nil
	}

	y := c.A
	if word&0x1000 != 0 {
		v, err := i.readM(c)
		if err != nil {
			return err
		}
		y = v
	}

	out := i.alu(c.D, y, word>>6&0x3f)
	addr := c.A

	if word&(destM<<3) != 0 {
		if int(addr) >= len(c.RAM) {
			return errors.Wrapf(ErrBadAddress, "write M[%d]", addr)
		}
		c.RAM[addr] = out
	}
	if word&(destA<<3) != 0 {
		c.A = out
	}
	if word&(destD<<3) != 0 {
		c.D = out
	}

	if i.jumps(out, word&0x7) {
		c.PC = addr
	} else {
		c.PC++
	}

	return nil
}

func (i instEmulator) readM(c *CPU) (uint16, error) {
	if int(c.A) >= len(c.RAM) {
		return 0, errors.Wrapf(ErrBadAddress, "read M[%d]", c.A)
	}
	return c.RAM[c.A], nil
}

// alu computes the Hack ALU function selected by the control bits
// zx nx zy ny f no, most significant first.
func (i instEmulator) alu(x, y, ctrl uint16) uint16 {
	if ctrl&0b100000 != 0 {
		x = 0
	}
	if ctrl&0b010000 != 0 {
		x = ^x
	}
	if ctrl&0b001000 != 0 {
		y = 0
	}
	if ctrl&0b000100 != 0 {
		y = ^y
	}

	var out uint16
	if ctrl&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}

	if ctrl&0b000001 != 0 {
		out = ^out
	}

	return out
}

func (i instEmulator) jumps(out, bits uint16) bool {
	v := int16(out)
	switch {
	case v < 0:
		return bits&0b100 != 0
	case v == 0:
		return bits&0b010 != 0
	default:
		return bits&0b001 != 0
	}
}
