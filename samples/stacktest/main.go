package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/api"
	"github.com/sarchlab/hackvm/core"
	"github.com/sarchlab/hackvm/verify"
	"github.com/tebeka/atexit"
)

//go:embed StackTest.vm
var program string

var expected = []int16{-1, 0, 0, 0, -1, 0, -1, 0, 0, -91}

func stackTest() bool {
	var asm strings.Builder
	driver := api.DriverBuilder{}.
		WithAnnotations(true).
		Build(&asm)
	if err := driver.TranslateFile("StackTest.vm", strings.NewReader(program)); err != nil {
		panic(err)
	}

	if issues := verify.RunLint(asm.String()); len(issues) > 0 {
		fmt.Println(verify.FormatIssues(issues))
		return false
	}

	prog, err := core.Assemble(asm.String())
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()
	hack := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMaxSteps(10000).
		Build("Hack")

	hack.CPU().Poke(0, 256)
	hack.MapProgram(prog)
	if err := engine.Run(); err != nil {
		panic(err)
	}
	if hack.Err() != nil {
		fmt.Println(hack.Err())
		return false
	}

	core.PrintState(os.Stdout, hack.CPU(), 256)
	fmt.Printf("%d comparisons translated\n", driver.JumpCount())

	stack := hack.CPU().Stack(256)
	if len(stack) != len(expected) {
		return false
	}
	for i := range expected {
		if stack[i] != expected[i] {
			fmt.Printf("RAM[%d] = %d, want %d\n", 256+i, stack[i], expected[i])
			return false
		}
	}

	return true
}

func main() {
	if !stackTest() {
		fmt.Println("FAIL")
		atexit.Exit(1)
	}
	fmt.Println("PASS")
	atexit.Exit(0)
}
