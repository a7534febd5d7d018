// Package total implements the total command, which appends a total row to
// receipt_*.csv files in place.
package total

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

var inputDir string

// Cmd represents the total command
var Cmd = &cobra.Command{
	Use:   "total [file...]",
	Short: "Append total rows to receipt files",
	Long: `Append a total row to receipt files in place.

The total sums every Vehicle Activity row whose transponder matches --prefix,
without any working-hours filtering. Files that already contain the total label
are left untouched, so running the command twice is safe.

Without arguments, every receipt_*.csv in --dir is processed.

Example:
  toll-expense total --dir ./statements`,
	RunE: runTotal,
}

func init() {
	Cmd.Flags().StringVar(&inputDir, "dir", ".", "Directory containing receipt_*.csv files")
}

func runTotal(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	files := args
	if len(files) == 0 {
		if err := validation.IsValidDirectory(inputDir); err != nil {
			return err
		}
		if files, err = fileutils.ReceiptFiles(inputDir); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintf(out, "No receipt files found in %s\n", inputDir)
		return nil
	}

	rw := c.GetRewriter()
	if rw.Prefix() == "" {
		c.GetLogger().Warn("No transponder prefix configured, rows of every transponder are kept",
			logging.F(logging.FieldOperation, "total"))
	}
	var (
		mu      sync.Mutex
		results = make(map[string]*receipt.Result, len(files))
	)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := c.GetRunner().Run(ctx, files, func(_ context.Context, file string) (decimal.Decimal, error) {
		res, err := rw.AppendTotalFile(file)
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
		name := filepath.Base(o.File)
		if res.AlreadyTotaled {
			_, _ = fmt.Fprintf(out, "%s: already totaled\n", name)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: appended total %s\n", name, models.FormatUSD(res.Total))
	}
	return nil
}
