// Package vm reads stack-machine VM programs and decodes them into commands.
package vm

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the category of a VM command.
type Kind int

// The closed set of command kinds.
const (
	Arithmetic Kind = iota
	Push
	Pop
	Label
	Goto
	If
	Function
	Return
	Call
)

var kindNames = [...]string{
	Arithmetic: "arithmetic",
	Push:       "push",
	Pop:        "pop",
	Label:      "label",
	Goto:       "goto",
	If:         "if",
	Function:   "function",
	Return:     "return",
	Call:       "call",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// HasIndex reports whether commands of this kind carry a numeric argument.
func (k Kind) HasIndex() bool {
	switch k {
	case Push, Pop, Function, Call:
		return true
	default:
		return false
	}
}

// keywords maps the leading token of a non-arithmetic command to its kind.
var keywords = map[string]Kind{
	"push":     Push,
	"pop":      Pop,
	"label":    Label,
	"goto":     Goto,
	"if":       If,
	"function": Function,
	"call":     Call,
}

// Operators lists the arithmetic and logical operator names.
var Operators = []string{"add", "sub", "neg", "eq", "gt", "lt", "and", "or", "not"}

var operatorSet = func() map[string]bool {
	m := make(map[string]bool, len(Operators))
	for _, op := range Operators {
		m[op] = true
	}
	return m
}()

// IsOperator reports whether name is one of the arithmetic operators.
func IsOperator(name string) bool {
	return operatorSet[name]
}

// Command is a single decoded VM instruction.
type Command struct {
	kind  Kind
	arg1  string
	index int
}

// NewArithmetic creates an arithmetic command for the operator op.
func NewArithmetic(op string) Command {
	return Command{kind: Arithmetic, arg1: op}
}

// NewMemoryAccess creates a push or pop command.
func NewMemoryAccess(kind Kind, segment string, index int) Command {
	return Command{kind: kind, arg1: segment, index: index}
}

// Kind returns the category of the command.
func (c Command) Kind() Kind {
	return c.kind
}

// Arg1 returns the operator name of an arithmetic command, or the segment,
// label or function name of the other commands. Return commands carry no
// primary argument.
func (c Command) Arg1() (string, error) {
	if c.kind == Return {
		return "", errors.Wrap(ErrInvalidAccess, "return has no primary argument")
	}
	return c.arg1, nil
}

// Arg2 returns the numeric argument of push, pop, function and call commands.
func (c Command) Arg2() (int, error) {
	if !c.kind.HasIndex() {
		return 0, errors.Wrapf(ErrInvalidAccess, "%s has no numeric argument", c.kind)
	}
	return c.index, nil
}

// String renders the command back in VM source form.
func (c Command) String() string {
	switch {
	case c.kind == Arithmetic:
		return c.arg1
	case c.kind == Return:
		return "return"
	case c.kind.HasIndex():
		return c.kind.String() + " " + c.arg1 + " " + strconv.Itoa(c.index)
	default:
		return c.kind.String() + " " + c.arg1
	}
}
