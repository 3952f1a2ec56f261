package codegen

import (
	"strconv"

	"github.com/pkg/errors"
)

// MaxLiteral is the largest value a Hack A-instruction can load.
const MaxLiteral = 1<<15 - 1

const (
	tempBase   = 5
	staticBase = 16
	staticSize = 256 - staticBase
)

// addressing is the strategy used to find the memory cell of a segment
// entry.
type addressing int

const (
	// directLiteral loads the index itself as the value.
	directLiteral addressing = iota
	// baseIndirect reads a base pointer register and adds the index.
	baseIndirect
	// fixedBlock adds the index to the address of a fixed register block.
	fixedBlock
	// registerSelect picks one register by index and addresses it directly.
	registerSelect
	// fileSlot addresses a static slot owned by the current source file.
	fileSlot
)

type segment struct {
	mode      addressing
	symbol    string
	registers []string
	size      int
	pushOnly  bool
}

var segments = map[string]segment{
	"constant": {mode: directLiteral, size: MaxLiteral + 1, pushOnly: true},
	"local":    {mode: baseIndirect, symbol: "LCL", size: MaxLiteral + 1},
	"argument": {mode: baseIndirect, symbol: "ARG", size: MaxLiteral + 1},
	"this":     {mode: baseIndirect, symbol: "THIS", size: MaxLiteral + 1},
	"that":     {mode: baseIndirect, symbol: "THAT", size: MaxLiteral + 1},
	"temp":     {mode: fixedBlock, symbol: "R5", size: 8},
	"pointer":  {mode: registerSelect, registers: []string{"THIS", "THAT"}, size: 2},
	"static":   {mode: fileSlot, size: staticSize},
}

// lookupSegment validates a push/pop target and returns its table entry.
func lookupSegment(pop bool, name string, index int) (segment, error) {
	seg, ok := segments[name]
	if !ok {
		return segment{}, errors.Wrapf(ErrNotPushPop, "unknown segment %q", name)
	}

	if pop && seg.pushOnly {
		return segment{}, errors.Wrapf(ErrNotPushPop, "cannot pop into %s", name)
	}

	if index < 0 || index >= seg.size {
		return segment{}, errors.Wrapf(ErrNotPushPop,
			"%s index %d out of range [0, %d)", name, index, seg.size)
	}

	return seg, nil
}

func (w *CodeWriter) useSymbols() bool {
	return w.staticSymbols && w.fileName != ""
}

// claimStatic reserves slot index of the current file's static range.
func (w *CodeWriter) claimStatic(index int) error {
	if w.useSymbols() {
		return nil
	}

	if w.staticFirst+index >= staticSize {
		return errors.Wrapf(ErrNotPushPop,
			"static %d of %s needs slot %d, only %d slots exist",
			index, w.fileName, w.staticFirst+index, staticSize)
	}

	if index >= w.staticUsed {
		w.staticUsed = index + 1
	}

	return nil
}

// staticSymbol names the memory cell of static entry index.
func (w *CodeWriter) staticSymbol(index int) string {
	if w.useSymbols() {
		return w.fileName + "." + strconv.Itoa(index)
	}
	return strconv.Itoa(staticBase + w.staticFirst + index)
}
