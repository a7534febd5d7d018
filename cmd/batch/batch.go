// Package batch implements the batch command, which reports every monthly
// export of a year and prints the cumulative expensable total.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fjacquet/toll-expense/cmd/root"
	"fjacquet/toll-expense/internal/export"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/report"
	"fjacquet/toll-expense/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	year        int
	inputDir    string
	writeExport bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process every monthly export of a year",
	Long: `Batch process every monthly export of a year from an input directory.

The batch command selects the files matching [0-9]*_<year>.csv, prints the
expense report of each one and a cumulative expensable total over the files
that could be processed. A file that fails is reported and skipped. Files are
processed in parallel when --workers is greater than 1.

Example:
  toll-expense batch --year 2025 --dir ./statements --export`,
	RunE: runBatch,
}

func init() {
	Cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year of the monthly exports")
	Cmd.Flags().StringVar(&inputDir, "dir", ".", "Directory containing the monthly exports")
	Cmd.Flags().BoolVar(&writeExport, "export", false, "Write expensable_<name> for every file")
}

var errNotTollExport = errors.New("not a toll export (transaction header not found)")

func runBatch(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if err := validation.IsValidDirectory(inputDir); err != nil {
		return err
	}
	files, err := fileutils.MonthlyFiles(inputDir, year)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(out, "No monthly files found for %d in %s\n", year, inputDir)
		return nil
	}

	var (
		mu      sync.Mutex
		reports = make(map[string][]byte, len(files))
	)
	process := func(_ context.Context, file string) (decimal.Decimal, error) {
		ok, err := c.GetParser().ValidateFormat(file)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			return decimal.Zero, errNotTollExport
		}
		rep, err := c.AnalyzeFile(file)
		if err != nil {
			return decimal.Zero, err
		}
		text, err := c.GetReportGenerator().GenerateReport(rep, report.FormatText)
		if err != nil {
			return decimal.Zero, err
		}
		if writeExport {
			if err := export.WriteExpensableCSV(export.ExpensablePath(file), rep, c.GetConfig().Receipt.TotalLabel); err != nil {
				return decimal.Zero, err
			}
		}
		mu.Lock()
		reports[file] = text
		mu.Unlock()
		return rep.ExpensableTotal, nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := c.GetRunner().Run(ctx, files, process)
	if err != nil {
		return err
	}

	failures := make(map[string]error, len(summary.Failed))
	for _, f := range summary.Failed {
		failures[f.File] = f.Err
	}
	for _, file := range files {
		if err, failed := failures[file]; failed {
			_, _ = fmt.Fprintf(out, "Skipping %s: %v\n", file, err)
			continue
		}
		_, _ = out.Write(reports[file])
	}

	_, _ = fmt.Fprintf(out, "\nCumulative expensable total for %d: %s (%d of %d files)\n",
		year, models.FormatUSD(summary.Total), len(summary.Succeeded), summary.Files())
	return nil
}
