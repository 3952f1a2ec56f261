package main

import (
	"log/slog"
	"os"

	"github.com/sarchlab/hackvm/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "vmtranslate",
	Short: "Stack VM to Hack assembly translator",
	Long: `Vmtranslate turns the arithmetic and memory access commands of the
stack virtual machine into Hack assembly.

A single .vm file translates into a .asm file next to it. A directory
translates into <dir>/<dir>.asm holding the translation of every .vm file
in it, in name order. Program flow and function commands are reported and
skipped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.Level(),
		})
		slog.SetDefault(slog.New(handler))

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"trace, debug, info, warn or error")
}
