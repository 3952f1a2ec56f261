// Package api defines the driver that turns VM source files into a single
// Hack assembly listing.
package api

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/codegen"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/vm"
)

// Driver translates VM programs into one assembly output.
type Driver interface {
	// TranslateFile translates the commands read from src. The name selects
	// the file scope for static symbols.
	TranslateFile(name string, src io.Reader) error

	// TranslatePath translates one .vm file or every .vm file of a
	// directory, in name order.
	TranslatePath(path string) error

	// JumpCount returns the number of comparisons translated so far.
	JumpCount() int

	// Commands returns the number of commands translated so far.
	Commands() int
}

type driverImpl struct {
	writer *codegen.CodeWriter

	commands int
	skipped  int
}

func (d *driverImpl) JumpCount() int {
	return d.writer.JumpCount()
}

func (d *driverImpl) Commands() int {
	return d.commands
}

func (d *driverImpl) TranslatePath(path string) error {
	files, err := SourceFiles(path)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := d.translateOne(file); err != nil {
			return err
		}
	}

	return nil
}

func (d *driverImpl) translateOne(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "open vm source")
	}
	defer f.Close()

	return d.TranslateFile(file, f)
}

func (d *driverImpl) TranslateFile(name string, src io.Reader) error {
	reader, err := vm.NewReader(src)
	if err != nil {
		return errors.Wrap(err, name)
	}

	d.writer.SetFileName(name)

	config.Trace("Driver",
		"Behavior", "TranslateFile",
		"File", name,
		"Commands", reader.Len(),
	)

	for reader.HasNext() {
		cmd, err := reader.Next()
		if err != nil {
			return errors.Wrap(err, name)
		}

		if err := d.dispatch(cmd); err != nil {
			return errors.Wrapf(err, "%s: line %d", name, reader.LineNo())
		}
	}

	slog.Debug("translated",
		"File", name,
		"Commands", d.commands,
		"Skipped", d.skipped,
	)

	return nil
}

func (d *driverImpl) dispatch(cmd vm.Command) error {
	switch cmd.Kind() {
	case vm.Arithmetic:
		op, _ := cmd.Arg1()
		if err := d.writer.WriteArithmetic(op); err != nil {
			return err
		}
	case vm.Push, vm.Pop:
		segment, _ := cmd.Arg1()
		index, _ := cmd.Arg2()
		if err := d.writer.WritePushPop(cmd.Kind(), segment, index); err != nil {
			return err
		}
	default:
		d.skipped++
		slog.Warn("command not translated", "Command", cmd.String())
		return nil
	}

	d.commands++

	return nil
}
