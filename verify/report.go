package verify

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
)

// Report collects the results of one or more suites.
type Report struct {
	Results []CaseResult
	Passed  int
	Failed  int
	Skipped int
}

// GenerateReport runs every suite and tallies the results.
func GenerateReport(suites []*Suite) *Report {
	r := &Report{}

	for _, s := range suites {
		for _, res := range RunSuite(s) {
			r.add(res)
		}
	}

	return r
}

func (r *Report) add(res CaseResult) {
	r.Results = append(r.Results, res)

	switch {
	case res.Skipped:
		r.Skipped++
	case res.Passed:
		r.Passed++
	default:
		r.Failed++
	}
}

// OK reports whether no case failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// WriteReport writes a formatted report to a writer
func (r *Report) WriteReport(w io.Writer) {
	t := table.NewWriter()
	t.SetTitle("VM TRANSLATION CONFORMANCE")
	t.AppendHeader(table.Row{"Suite", "Case", "Result", "Steps", "Detail"})

	for _, res := range r.Results {
		status := "PASS"
		switch {
		case res.Skipped:
			status = "SKIP"
		case !res.Passed:
			status = "FAIL"
		}
		t.AppendRow(table.Row{res.Suite, res.Case, status, res.Steps, res.Reason})
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d cases: %d passed, %d failed, %d skipped\n",
		len(r.Results), r.Passed, r.Failed, r.Skipped)

	for _, res := range r.Results {
		if len(res.Issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nLint issues in %s/%s:\n%s\n",
			res.Suite, res.Case, FormatIssues(res.Issues))
	}
}

// SaveReportToFile saves the report to a file
func (r *Report) SaveReportToFile(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create report file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close report file")
		}
	}()

	buf := bufio.NewWriter(file)
	r.WriteReport(buf)
	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, "write report file")
	}

	return nil
}
