package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/api"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	outputPath    string
	annotate      bool
	staticSymbols bool
)

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate file.vm|dir",
	Short: "Translate VM source into Hack assembly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("annotate") {
			cfg = cfg.WithAnnotations(annotate)
		}
		if cmd.Flags().Changed("static-symbols") {
			cfg = cfg.WithStaticSymbols(staticSymbols)
		}

		return translate(args[0], outputPath)
	},
}

func init() {
	translateCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output file, - for stdout (default <input>.asm)")
	translateCmd.Flags().BoolVar(&annotate, "annotate", false,
		"echo each VM command as a comment")
	translateCmd.Flags().BoolVar(&staticSymbols, "static-symbols", false,
		"name static variables File.i instead of fixed slots")

	rootCmd.AddCommand(translateCmd)
}

func translate(input, output string) error {
	if output == "" {
		var err error
		output, err = api.OutputPath(input)
		if err != nil {
			return err
		}
	}

	sink, err := openSink(output)
	if err != nil {
		return err
	}
	atexit.Register(func() { sink.Close() })
	defer sink.Close()

	driver := api.DriverBuilder{}.
		WithAnnotations(cfg.Annotate).
		WithStaticSymbols(cfg.StaticSymbols).
		Build(sink)

	if err := driver.TranslatePath(input); err != nil {
		return err
	}

	if err := sink.Close(); err != nil {
		return err
	}

	slog.Info("translation written",
		"Input", input,
		"Output", output,
		"Commands", driver.Commands(),
	)

	return nil
}

// outputSink buffers the assembly and closes its file exactly once, either
// when the command finishes or when the process exits early.
type outputSink struct {
	*bufio.Writer

	file io.Closer
	once sync.Once
	err  error
}

func openSink(path string) (*outputSink, error) {
	if path == "-" {
		return &outputSink{Writer: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create output")
	}

	return &outputSink{Writer: bufio.NewWriter(f), file: f}, nil
}

func (s *outputSink) Close() error {
	s.once.Do(func() {
		s.err = s.Flush()
		if s.file == nil {
			return
		}
		if err := s.file.Close(); err != nil && s.err == nil {
			s.err = err
		}
	})

	return errors.Wrap(s.err, "close output")
}
