package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/api"
	"github.com/sarchlab/hackvm/core"
	"github.com/spf13/cobra"
)

var (
	maxSteps  int
	stackBase int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run file.vm|dir",
	Short: "Translate, assemble and execute on a simulated Hack computer",
	Long: `Run translates the input, assembles the result and executes it one
instruction per cycle until the program counter leaves the program. The
registers, the temp block and the stack are printed afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("steps") {
			cfg.Simulator.MaxSteps = maxSteps
		}
		if cmd.Flags().Changed("stack-base") {
			cfg.Simulator.StackBase = stackBase
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		return run(args[0])
	},
}

func init() {
	runCmd.Flags().IntVar(&maxSteps, "steps", 0,
		"stop after this many instructions, 0 for no limit (default from config)")
	runCmd.Flags().IntVar(&stackBase, "stack-base", 0,
		"initial stack pointer (default from config)")

	rootCmd.AddCommand(runCmd)
}

func run(input string) error {
	var asm strings.Builder

	driver := api.DriverBuilder{}.
		WithStaticSymbols(cfg.StaticSymbols).
		Build(&asm)
	if err := driver.TranslatePath(input); err != nil {
		return err
	}

	prog, err := core.Assemble(asm.String())
	if err != nil {
		return errors.Wrap(err, "assemble translated program")
	}

	engine := sim.NewSerialEngine()
	hack := core.NewBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(cfg.Simulator.FreqMHz) * sim.MHz).
		WithRAMSize(cfg.Simulator.RAMSize).
		WithMaxSteps(cfg.Simulator.MaxSteps).
		Build("Hack")

	hack.CPU().Poke(0, int16(cfg.Simulator.StackBase))
	hack.MapProgram(prog)

	if err := engine.Run(); err != nil {
		return errors.Wrap(err, "run engine")
	}

	core.PrintState(os.Stdout, hack.CPU(), cfg.Simulator.StackBase)

	return hack.Err()
}
