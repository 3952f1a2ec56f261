package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

var pointerNames = []string{"SP", "LCL", "ARG", "THIS", "THAT"}

// PrintState renders the registers, the segment pointers, the temp block and
// the stack above stackBase.
func PrintState(w io.Writer, cpu *CPU, stackBase int) {
	regTable := table.NewWriter()
	regTable.SetTitle(fmt.Sprintf("CPU after %d steps", cpu.Steps))
	regTable.AppendHeader(table.Row{"A", "D", "PC", "SP", "LCL", "ARG", "THIS", "THAT"})

	row := table.Row{int16(cpu.A), int16(cpu.D), cpu.PC}
	for addr := range pointerNames {
		row = append(row, cpu.Peek(addr))
	}
	regTable.AppendRow(row)

	fmt.Fprintln(w, regTable.Render())

	tempTable := table.NewWriter()
	tempTable.SetTitle("Temp (R5-R12) and scratch (R13-R15)")
	header := table.Row{}
	values := table.Row{}
	for addr := 5; addr <= 15; addr++ {
		header = append(header, fmt.Sprintf("R%d", addr))
		values = append(values, cpu.Peek(addr))
	}
	tempTable.AppendHeader(header)
	tempTable.AppendRow(values)

	fmt.Fprintln(w, tempTable.Render())

	stackTable := table.NewWriter()
	stackTable.SetTitle("Stack")
	stackTable.AppendHeader(table.Row{"Addr", "Value"})
	stack := cpu.Stack(stackBase)
	for i, v := range stack {
		stackTable.AppendRow(table.Row{stackBase + i, v})
	}
	if len(stack) == 0 {
		stackTable.AppendRow(table.Row{"-", "empty"})
	}

	fmt.Fprintln(w, stackTable.Render())
}

func LogState(cpu *CPU) {
	slog.Debug("StateCheckpoint",
		"A", cpu.A,
		"D", cpu.D,
		"PC", cpu.PC,
		"Steps", cpu.Steps,
		"SP", cpu.Peek(0),
		"LCL", cpu.Peek(1),
		"ARG", cpu.Peek(2),
		"THIS", cpu.Peek(3),
		"THAT", cpu.Peek(4),
	)
}
