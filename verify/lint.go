package verify

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sarchlab/hackvm/core"
	"github.com/sarchlab/hackvm/vm"
)

// generatedLabel matches the jump targets emitted for comparisons.
var generatedLabel = regexp.MustCompile(`^(FALSE|CONTINUE)\d+$`)

// RunLint performs static checks on generated assembly text.
// Returns a list of issues found, or empty list if no issues.
func RunLint(asm string) []Issue {
	var issues []Issue

	declared := make(map[string]int)   // label -> first declaring line
	referenced := make(map[string]int) // generated label -> first use

	for i, raw := range strings.Split(asm, "\n") {
		lineNo := i + 1
		text := strings.TrimSpace(vm.StripComment(raw))
		if text == "" {
			continue
		}

		switch {
		case strings.HasPrefix(text, "("):
			issues = append(issues, lintLabel(text, lineNo, declared)...)
		case strings.HasPrefix(text, "@"):
			issues = append(issues, lintAddress(text, lineNo, referenced)...)
		default:
			if _, err := core.Assemble(text); err != nil {
				issues = append(issues, Issue{
					Type:    IssueSyntax,
					Line:    lineNo,
					Message: fmt.Sprintf("Assembler rejects %q: %v", text, err),
					Details: map[string]interface{}{"text": text},
				})
			}
		}
	}

	issues = append(issues, checkReferences(declared, referenced)...)

	return issues
}

func lintLabel(text string, lineNo int, declared map[string]int) []Issue {
	name := strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
	if !strings.HasSuffix(text, ")") || !core.IsSymbol(name) {
		return []Issue{{
			Type:    IssueSyntax,
			Line:    lineNo,
			Message: fmt.Sprintf("Malformed label declaration %q", text),
			Details: map[string]interface{}{"text": text},
		}}
	}

	if first, exists := declared[name]; exists {
		return []Issue{{
			Type:    IssueLabel,
			Line:    lineNo,
			Message: fmt.Sprintf("Label %s already declared at line %d", name, first),
			Details: map[string]interface{}{
				"label": name,
				"first": first,
			},
		}}
	}
	declared[name] = lineNo

	return nil
}

func lintAddress(text string, lineNo int, referenced map[string]int) []Issue {
	operand := strings.TrimPrefix(text, "@")

	if operand != "" && operand[0] >= '0' && operand[0] <= '9' {
		v, err := strconv.Atoi(operand)
		if err != nil || v > core.MaxLiteral {
			return []Issue{{
				Type:    IssueLiteral,
				Line:    lineNo,
				Message: fmt.Sprintf("Constant %s does not fit in 15 bits", operand),
				Details: map[string]interface{}{"operand": operand},
			}}
		}
		return nil
	}

	if !core.IsSymbol(operand) {
		return []Issue{{
			Type:    IssueSyntax,
			Line:    lineNo,
			Message: fmt.Sprintf("Invalid address operand %q", operand),
			Details: map[string]interface{}{"operand": operand},
		}}
	}

	if generatedLabel.MatchString(operand) {
		if _, seen := referenced[operand]; !seen {
			referenced[operand] = lineNo
		}
	}

	return nil
}

func checkReferences(declared, referenced map[string]int) []Issue {
	var missing []string
	for name := range referenced {
		if _, ok := declared[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	issues := make([]Issue, 0, len(missing))
	for _, name := range missing {
		issues = append(issues, Issue{
			Type:    IssueReference,
			Line:    referenced[name],
			Message: fmt.Sprintf("Jump target %s is never declared", name),
			Details: map[string]interface{}{"label": name},
		})
	}

	return issues
}
