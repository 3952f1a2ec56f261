// Command vmtranslate translates stack VM programs into Hack assembly, runs
// them on a simulated Hack computer and checks them against conformance
// suites.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
