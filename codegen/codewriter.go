// Package codegen lowers decoded VM commands into Hack assembly text.
package codegen

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/vm"
)

var (
	// ErrNotArithmetic is returned when WriteArithmetic receives a name that
	// is not one of the nine operators.
	ErrNotArithmetic = errors.New("not an arithmetic command")

	// ErrNotPushPop is returned when WritePushPop receives a kind other than
	// push or pop, or a segment and index it cannot address.
	ErrNotPushPop = errors.New("not a push/pop command")
)

// binaryOps combine the two topmost stack values in place.
var binaryOps = map[string]string{
	"add": "M=M+D",
	"sub": "M=M-D",
	"and": "M=M&D",
	"or":  "M=M|D",
}

// compareOps map a comparison to the jump taken when it is false.
var compareOps = map[string]string{
	"eq": "JNE",
	"gt": "JLE",
	"lt": "JGE",
}

// unaryOps rewrite the topmost stack value in place.
var unaryOps = map[string][]string{
	"not": {"@SP", "A=M-1", "M=!M"},
	"neg": {"D=0", "@SP", "A=M-1", "M=D-M"},
}

// CodeWriter emits Hack assembly for one command at a time.
type CodeWriter struct {
	out           io.Writer
	annotate      bool
	staticSymbols bool
	fileName      string

	// staticFirst is the first slot of the current file's static range and
	// staticUsed the number of slots it has claimed.
	staticFirst int
	staticUsed  int

	// jumpFlag numbers the FALSE/CONTINUE label pair of the next comparison.
	jumpFlag int
}

// SetFileName tells the writer which source file the following commands
// come from. Only the base name without extension is kept. A new file
// starts its static slots after those claimed by the previous one.
func (w *CodeWriter) SetFileName(name string) {
	base := filepath.Base(name)
	fileName := strings.TrimSuffix(base, filepath.Ext(base))

	if fileName != w.fileName {
		w.staticFirst += w.staticUsed
		w.staticUsed = 0
	}
	w.fileName = fileName
}

// JumpCount returns the number of comparisons emitted so far.
func (w *CodeWriter) JumpCount() int {
	return w.jumpFlag
}

// WriteArithmetic emits the translation of an arithmetic or logical
// operator.
func (w *CodeWriter) WriteArithmetic(op string) error {
	var code asmBuilder

	w.comment(&code, op)

	if inst, ok := binaryOps[op]; ok {
		code.popOperands()
		code.raw(inst)
		return w.flush(&code, op)
	}

	if jump, ok := compareOps[op]; ok {
		k := w.jumpFlag
		code.popOperands()
		code.line("D=M-D")
		code.line("@FALSE%d", k)
		code.line("D;%s", jump)
		code.line("@SP")
		code.line("A=M-1")
		code.line("M=-1")
		code.line("@CONTINUE%d", k)
		code.line("0;JMP")
		code.line("(FALSE%d)", k)
		code.line("@SP")
		code.line("A=M-1")
		code.line("M=0")
		code.line("(CONTINUE%d)", k)

		if err := w.flush(&code, op); err != nil {
			return err
		}
		w.jumpFlag++
		return nil
	}

	if insts, ok := unaryOps[op]; ok {
		for _, inst := range insts {
			code.raw(inst)
		}
		return w.flush(&code, op)
	}

	return errors.Wrapf(ErrNotArithmetic, "%q", op)
}

// WritePushPop emits the translation of a push or pop command.
func (w *CodeWriter) WritePushPop(kind vm.Kind, segmentName string, index int) error {
	if kind != vm.Push && kind != vm.Pop {
		return errors.Wrapf(ErrNotPushPop, "%s", kind)
	}

	seg, err := lookupSegment(kind == vm.Pop, segmentName, index)
	if err != nil {
		return err
	}

	if seg.mode == fileSlot {
		if err := w.claimStatic(index); err != nil {
			return err
		}
	}

	text := vm.NewMemoryAccess(kind, segmentName, index).String()

	var code asmBuilder
	w.comment(&code, text)

	if kind == vm.Push {
		w.loadValue(&code, seg, index)
		code.pushD()
	} else {
		w.loadAddress(&code, seg, index)
		code.popToAddressInD()
	}

	return w.flush(&code, text)
}

// loadValue leaves the value of segment entry index in D.
func (w *CodeWriter) loadValue(code *asmBuilder, seg segment, index int) {
	switch seg.mode {
	case directLiteral:
		code.line("@%d", index)
		code.line("D=A")
	case baseIndirect:
		code.line("@%s", seg.symbol)
		code.line("D=M")
		code.line("@%d", index)
		code.line("A=D+A")
		code.line("D=M")
	case fixedBlock:
		code.line("@%s", seg.symbol)
		code.line("D=A")
		code.line("@%d", index)
		code.line("A=D+A")
		code.line("D=M")
	case registerSelect:
		code.line("@%s", seg.registers[index])
		code.line("D=M")
	case fileSlot:
		code.line("@%s", w.staticSymbol(index))
		code.line("D=M")
	}
}

// loadAddress leaves the address of segment entry index in D.
func (w *CodeWriter) loadAddress(code *asmBuilder, seg segment, index int) {
	switch seg.mode {
	case baseIndirect:
		code.line("@%s", seg.symbol)
		code.line("D=M")
		code.line("@%d", index)
		code.line("D=D+A")
	case fixedBlock:
		code.line("@%s", seg.symbol)
		code.line("D=A")
		code.line("@%d", index)
		code.line("D=D+A")
	case registerSelect:
		code.line("@%s", seg.registers[index])
		code.line("D=A")
	case fileSlot:
		code.line("@%s", w.staticSymbol(index))
		code.line("D=A")
	}
}

func (w *CodeWriter) comment(code *asmBuilder, text string) {
	if w.annotate {
		code.line("// %s", text)
	}
}

func (w *CodeWriter) flush(code *asmBuilder, text string) error {
	if _, err := io.WriteString(w.out, code.String()); err != nil {
		return errors.Wrapf(err, "write %q", text)
	}

	config.Trace("Emit", "Command", text, "File", w.fileName, "JumpFlag", w.jumpFlag)

	return nil
}

// asmBuilder accumulates the lines of one command's translation so that it
// reaches the sink in a single write.
type asmBuilder struct {
	strings.Builder
}

func (b *asmBuilder) line(format string, args ...any) {
	fmt.Fprintf(b, format+"\n", args...)
}

func (b *asmBuilder) raw(inst string) {
	b.WriteString(inst)
	b.WriteByte('\n')
}

// popOperands moves the top of the stack into D and points A at the new top.
func (b *asmBuilder) popOperands() {
	b.line("@SP")
	b.line("AM=M-1")
	b.line("D=M")
	b.line("A=A-1")
}

func (b *asmBuilder) pushD() {
	b.line("@SP")
	b.line("A=M")
	b.line("M=D")
	b.line("@SP")
	b.line("M=M+1")
}

// popToAddressInD parks the destination in R13, pops the stack and stores
// the value there.
func (b *asmBuilder) popToAddressInD() {
	b.line("@R13")
	b.line("M=D")
	b.line("@SP")
	b.line("AM=M-1")
	b.line("D=M")
	b.line("@R13")
	b.line("A=M")
	b.line("M=D")
}
