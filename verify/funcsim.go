package verify

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/api"
	"github.com/sarchlab/hackvm/core"
)

const (
	defaultStackBase = 256
	defaultMaxSteps  = 100000
	defaultFileName  = "Main.vm"
)

// Setup describes the machine a program starts on.
type Setup struct {
	// FileName scopes static symbols. Defaults to Main.vm.
	FileName string

	// StackBase is the initial stack pointer. Defaults to 256.
	StackBase int

	// RAM holds initial memory contents, applied after the stack pointer so
	// that an entry for address 0 overrides it.
	RAM map[int]int16

	// MaxSteps bounds execution. Defaults to 100000.
	MaxSteps int

	// RAMSize is the number of data words. Defaults to core.DefaultRAMSize.
	RAMSize int

	StaticSymbols bool
	Annotate      bool
}

func (s Setup) withDefaults() Setup {
	if s.FileName == "" {
		s.FileName = defaultFileName
	}
	if s.StackBase == 0 {
		s.StackBase = defaultStackBase
	}
	if s.MaxSteps == 0 {
		s.MaxSteps = defaultMaxSteps
	}
	if s.RAMSize == 0 {
		s.RAMSize = core.DefaultRAMSize
	}
	return s
}

// Result is the machine state after a simulated run.
type Result struct {
	Asm     string
	Program *core.Program
	CPU     *core.CPU

	// Stack holds the values between the stack base and the final stack
	// pointer, bottom first.
	Stack []int16

	// JumpCount is the number of comparisons translated.
	JumpCount int

	// Commands is the number of VM commands translated.
	Commands int
}

// Peek returns the final value at addr.
func (r *Result) Peek(addr int) int16 {
	return r.CPU.Peek(addr)
}

// SP returns the final stack pointer.
func (r *Result) SP() int {
	return int(r.CPU.RAM[0])
}

// Simulate translates src with a fresh generator, assembles it and runs it
// to completion. Translation and assembly errors return a nil Result; a
// run-time error returns the partial Result together with the error.
func Simulate(src string, setup Setup) (*Result, error) {
	setup = setup.withDefaults()

	var asm strings.Builder
	driver := api.DriverBuilder{}.
		WithAnnotations(setup.Annotate).
		WithStaticSymbols(setup.StaticSymbols).
		Build(&asm)

	if err := driver.TranslateFile(setup.FileName, strings.NewReader(src)); err != nil {
		return nil, err
	}

	prog, err := core.Assemble(asm.String())
	if err != nil {
		return nil, errors.Wrap(err, "assemble translated program")
	}

	cpu := core.NewCPU(setup.RAMSize)
	if err := preload(cpu, setup); err != nil {
		return nil, err
	}
	cpu.Load(prog)

	res := &Result{
		Asm:       asm.String(),
		Program:   prog,
		CPU:       cpu,
		JumpCount: driver.JumpCount(),
		Commands:  driver.Commands(),
	}

	runErr := cpu.Run(setup.MaxSteps)
	res.Stack = cpu.Stack(setup.StackBase)

	return res, runErr
}

func preload(cpu *core.CPU, setup Setup) error {
	if setup.StackBase >= len(cpu.RAM) {
		return errors.Wrapf(core.ErrBadAddress, "stack base %d", setup.StackBase)
	}
	cpu.Poke(0, int16(setup.StackBase))

	for _, addr := range sortedAddrs(setup.RAM) {
		if addr < 0 || addr >= len(cpu.RAM) {
			return errors.Wrapf(core.ErrBadAddress, "initial RAM[%d]", addr)
		}
		cpu.Poke(addr, setup.RAM[addr])
	}

	return nil
}
