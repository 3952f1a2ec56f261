package verify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/codegen"
	"github.com/sarchlab/hackvm/core"
	"github.com/sarchlab/hackvm/vm"
)

// ErrorKinds maps the error names usable in suites to the errors they match.
var ErrorKinds = map[string]error{
	"malformed":   vm.ErrMalformedCommand,
	"unknown":     vm.ErrUnknownCommand,
	"segment":     codegen.ErrNotPushPop,
	"bad_address": core.ErrBadAddress,
	"step_limit":  core.ErrStepLimit,
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	Suite   string
	Case    string
	Passed  bool
	Skipped bool
	Reason  string
	Issues  []Issue
	Steps   int
}

// RunSuite runs every case of the suite.
func RunSuite(s *Suite) []CaseResult {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		r := RunCase(c)
		r.Suite = s.Name
		results = append(results, r)
	}
	return results
}

// RunCase simulates a case and checks its expectation.
func RunCase(c Case) CaseResult {
	r := CaseResult{Case: c.Name}

	if c.Skip != "" {
		r.Skipped = true
		r.Reason = c.Skip
		return r
	}

	res, err := Simulate(c.Source, c.Setup())
	if res != nil {
		r.Steps = res.CPU.Steps
		r.Issues = RunLint(res.Asm)
	}

	if reason := checkExpectation(c.Expect, res, err); reason != "" {
		r.Reason = reason
	} else if len(r.Issues) > 0 {
		r.Reason = fmt.Sprintf("%d lint issues: %s", len(r.Issues), r.Issues[0])
	} else {
		r.Passed = true
	}

	slog.Debug("case finished",
		"Case", c.Name,
		"Passed", r.Passed,
		"Reason", r.Reason,
	)

	return r
}

func checkExpectation(want Expectation, res *Result, err error) string {
	if want.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected %s error, got none", want.Error)
		}
		if !errors.Is(err, ErrorKinds[want.Error]) {
			return fmt.Sprintf("expected %s error, got %v", want.Error, err)
		}
		return ""
	}

	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}

	var mismatches []string

	if want.Stack != nil && !equalStacks(want.Stack, res.Stack) {
		mismatches = append(mismatches,
			fmt.Sprintf("stack %v, want %v", res.Stack, want.Stack))
	}

	for _, addr := range sortedAddrs(want.RAM) {
		if got := res.Peek(addr); got != want.RAM[addr] {
			mismatches = append(mismatches,
				fmt.Sprintf("RAM[%d] = %d, want %d", addr, got, want.RAM[addr]))
		}
	}

	if want.JumpCount != nil && res.JumpCount != *want.JumpCount {
		mismatches = append(mismatches,
			fmt.Sprintf("jump count %d, want %d", res.JumpCount, *want.JumpCount))
	}

	return strings.Join(mismatches, "; ")
}

func equalStacks(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedAddrs(m map[int]int16) []int {
	addrs := make([]int, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)
	return addrs
}
