// Package verify checks translated programs before and after they run.
//
// It offers three complementary stages:
//
// 1. Static lint (lint.go): structural checks on the generated assembly
//   - LABEL checks: every generated label is declared exactly once
//   - REFERENCE checks: every jump target the translator emits is declared
//   - LITERAL checks: A-instruction constants fit in 15 bits
//   - SYNTAX checks: every line is accepted by the Hack assembler
//
// 2. Functional simulation (funcsim.go): translate, assemble and execute a
// VM program on the Hack CPU and expose the final memory and stack.
//
// 3. Conformance suites (suite.go, runner.go, report.go): YAML files of
// cases pairing VM source with expected stacks, memory or errors.
//
// # Usage Example
//
//	res, err := verify.Simulate("push constant 7\npush constant 8\nadd\n",
//		verify.Setup{})
//	if err != nil {
//		panic(err)
//	}
//	fmt.Println(res.Stack) // [15]
//
//	suite, _ := verify.LoadSuite("testdata/arithmetic.yaml")
//	report := verify.GenerateReport([]*verify.Suite{suite})
//	report.WriteReport(os.Stdout)
//
// # Memory Model
//
// The stack starts at Setup.StackBase (256 by default) and grows upward;
// RAM[0] holds the address of the next free slot. RAM[1..4] hold the bases
// of local, argument, this and that. The temp block is RAM[5..12], R13 to
// R15 are scratch, and static slots start at RAM[16].
package verify

import (
	"fmt"
	"strings"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueLabel     IssueType = "LABEL"     // Label declared more than once
	IssueReference IssueType = "REFERENCE" // Generated label used but never declared
	IssueLiteral   IssueType = "LITERAL"   // Constant does not fit an A-instruction
	IssueSyntax    IssueType = "SYNTAX"    // Line rejected by the assembler
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // LABEL, REFERENCE, LITERAL or SYNTAX
	Line    int                    // 1-based line in the assembly text, -1 if not applicable
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	if i.Line < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}
	return fmt.Sprintf("[%s] line %d: %s", i.Type, i.Line, i.Message)
}

// FormatIssues joins issues one per line.
func FormatIssues(issues []Issue) string {
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}
