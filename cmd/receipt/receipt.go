// Package receipt implements the receipt command, which writes filtered
// receipt_<name> copies of receipt-style exports.
package receipt

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"fjacquet/toll-expense/cmd/root"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/models"
	"fjacquet/toll-expense/internal/receipt"
	"fjacquet/toll-expense/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	year     int
	inputDir string
)

// Cmd represents the receipt command
var Cmd = &cobra.Command{
	Use:   "receipt [file...]",
	Short: "Write receipts that only keep expensable vehicle activity",
	Long: `Write a receipt_<name> copy of each export that carries an "Account Activity"
and a "Vehicle Activity" section.

The Account Activity block is copied unchanged. Vehicle Activity rows are kept
when the transponder matches --prefix and the charge is expensable under the
same rules as the report. A total row is appended. Files without both sections
are reported and skipped.

Without arguments, every [0-9]*_<year>.csv in --dir is processed.

Example:
  toll-expense receipt 01_2025.csv --prefix 3857335
  toll-expense receipt --year 2025 --dir ./statements`,
	RunE: runReceipt,
}

func init() {
	Cmd.Flags().IntVar(&year, "year", 0, "Process every monthly export of this year when no file is given")
	Cmd.Flags().StringVar(&inputDir, "dir", ".", "Directory searched with --year")
}

func runReceipt(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	files := args
	if len(files) == 0 {
		if year == 0 {
			return fmt.Errorf("no input file: pass files or --year")
		}
		if err := validation.IsValidDirectory(inputDir); err != nil {
			return err
		}
		if files, err = fileutils.MonthlyFiles(inputDir, year); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(out, "No files to process")
		return nil
	}

	rw := c.GetRewriter()
	if rw.Prefix() == "" {
		c.GetLogger().Warn("No transponder prefix configured, rows of every transponder are kept",
			logging.F(logging.FieldOperation, "receipt"))
	}
	var (
		mu      sync.Mutex
		results = make(map[string]*receipt.Result, len(files))
	)
	summary, err := c.GetRunner().Run(contextOf(cmd), files, func(_ context.Context, file string) (decimal.Decimal, error) {
		res, err := rw.FilterFile(file, receipt.ReceiptPath(file))
		if err != nil {
			return decimal.Zero, err
		}
		mu.Lock()
		results[file] = res
		mu.Unlock()
		return res.Total, nil
	})
	if err != nil {
		return err
	}

	for _, o := range summary.Failed {
		_, _ = fmt.Fprintf(out, "Skipping %s: %v\n", o.File, o.Err)
	}
	for _, o := range summary.Succeeded {
		res := results[o.File]
		_, _ = fmt.Fprintf(out, "Wrote %s: %d rows kept, total %s\n",
			filepath.Base(receipt.ReceiptPath(o.File)), res.Kept, models.FormatUSD(res.Total))
	}
	_, _ = fmt.Fprintf(out, "Receipts written: %d of %d, combined total %s\n",
		len(summary.Succeeded), summary.Files(), models.FormatUSD(summary.Total))
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
