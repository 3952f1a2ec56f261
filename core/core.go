// Package core simulates the Hack computer that translated programs run on.
package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/config"
)

// Core runs a Hack CPU under an akita engine, one instruction per cycle.
type Core struct {
	*sim.TickingComponent

	cpu      *CPU
	maxSteps int
	err      error
}

// CPU returns the architectural state driven by the core.
func (c *Core) CPU() *CPU {
	return c.cpu
}

// Err returns the error that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// MapProgram loads the program and schedules the first cycle. RAM contents
// set before the call are kept.
func (c *Core) MapProgram(p *Program) {
	c.cpu.Load(p)
	c.err = nil

	config.Trace("Core",
		"Behavior", "MapProgram",
		"Name", c.Name(),
		"Words", p.Len(),
	)

	if !c.cpu.Halted() {
		c.TickNow()
	}
}

// Tick executes one instruction.
func (c *Core) Tick() (madeProgress bool) {
	if c.err != nil || c.cpu.Halted() {
		return false
	}

	if c.maxSteps > 0 && c.cpu.Steps >= c.maxSteps {
		c.err = ErrStepLimit
		slog.Warn("core stopped", "Name", c.Name(), "Steps", c.cpu.Steps, "PC", c.cpu.PC)
		return false
	}

	if err := c.cpu.Step(); err != nil {
		c.err = err
		slog.Error("core fault", "Name", c.Name(), "Error", err)
		return false
	}

	if c.cpu.Halted() {
		config.Trace("Core",
			"Behavior", "Halt",
			"Name", c.Name(),
			"Time", float64(c.Engine.CurrentTime()*1e9),
			"Steps", c.cpu.Steps,
		)
		LogState(c.cpu)
	}

	return true
}
