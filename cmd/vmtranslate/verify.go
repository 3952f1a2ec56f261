package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/verify"
	"github.com/spf13/cobra"
)

var reportPath string

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify suite.yaml|dir...",
	Short: "Run conformance suites and print a report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		suites, err := loadSuites(args)
		if err != nil {
			return err
		}

		report := verify.GenerateReport(suites)
		report.WriteReport(os.Stdout)

		if reportPath != "" {
			if err := report.SaveReportToFile(reportPath); err != nil {
				return err
			}
		}

		if !report.OK() {
			return errors.Errorf("%d of %d cases failed", report.Failed, len(report.Results))
		}

		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&reportPath, "report", "",
		"also save the report to this file")

	rootCmd.AddCommand(verifyCmd)
}

func loadSuites(paths []string) ([]*verify.Suite, error) {
	var suites []*verify.Suite

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, "stat suite")
		}

		if info.IsDir() {
			dirSuites, err := verify.LoadSuites(path)
			if err != nil {
				return nil, err
			}
			suites = append(suites, dirSuites...)
			continue
		}

		suite, err := verify.LoadSuite(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}

	return suites, nil
}
