package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	ramSize  int
	maxSteps int
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithRAMSize sets the number of data memory words.
func (b Builder) WithRAMSize(ramSize int) Builder {
	if ramSize <= 4 {
		panic("RAM must hold at least the SP, LCL, ARG, THIS and THAT registers")
	}
	b.ramSize = ramSize
	return b
}

// WithMaxSteps bounds the number of instructions a program may execute.
// Zero means unbounded.
func (b Builder) WithMaxSteps(maxSteps int) Builder {
	b.maxSteps = maxSteps
	return b
}

func NewBuilder() Builder {
	return Builder{
		freq:    1 * sim.GHz,
		ramSize: DefaultRAMSize,
	}
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{
		cpu:      NewCPU(b.ramSize),
		maxSteps: b.maxSteps,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
