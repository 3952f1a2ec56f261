package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hackvm/api"
	"github.com/sarchlab/hackvm/core"
	"github.com/tebeka/atexit"
)

//go:embed SimpleAdd.vm
var program string

func simpleAdd() bool {
	var asm strings.Builder
	driver := api.DriverBuilder{}.Build(&asm)
	if err := driver.TranslateFile("SimpleAdd.vm", strings.NewReader(program)); err != nil {
		panic(err)
	}

	prog, err := core.Assemble(asm.String())
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()
	hack := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Hack")

	hack.CPU().Poke(0, 256)
	hack.MapProgram(prog)
	if err := engine.Run(); err != nil {
		panic(err)
	}

	core.PrintState(os.Stdout, hack.CPU(), 256)

	fmt.Printf("%d instructions, %d cycles, %.0f ns\n",
		prog.Len(), hack.CPU().Steps, float64(engine.CurrentTime()*1e9))

	return hack.CPU().Peek(0) == 257 && hack.CPU().Peek(256) == 15
}

func main() {
	if !simpleAdd() {
		fmt.Println("FAIL: expected RAM[0]=257 and RAM[256]=15")
		atexit.Exit(1)
	}
	fmt.Println("PASS")
	atexit.Exit(0)
}
