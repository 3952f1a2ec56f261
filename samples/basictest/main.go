package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/hackvm/core"
	"github.com/sarchlab/hackvm/verify"
	"github.com/tebeka/atexit"
)

//go:embed BasicTest.vm
var program string

func basicTest() bool {
	res, err := verify.Simulate(program, verify.Setup{
		FileName: "BasicTest.vm",
		RAM: map[int]int16{
			1: 300,
			2: 400,
			3: 3000,
			4: 3010,
		},
	})
	if err != nil {
		fmt.Println(err)
		return false
	}

	core.PrintState(os.Stdout, res.CPU, 256)

	expected := map[int]int16{
		256:  472,
		300:  10,
		401:  21,
		402:  22,
		3006: 36,
		3012: 42,
		3015: 45,
		11:   510,
	}

	ok := true
	for addr, want := range expected {
		if got := res.Peek(addr); got != want {
			fmt.Printf("RAM[%d] = %d, want %d\n", addr, got, want)
			ok = false
		}
	}

	return ok
}

func main() {
	if !basicTest() {
		fmt.Println("FAIL")
		atexit.Exit(1)
	}
	fmt.Println("PASS")
	atexit.Exit(0)
}
