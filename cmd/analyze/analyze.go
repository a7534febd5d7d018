// Package analyze implements the analyze command, which prints the monthly
// toll expense report for one or more exports.
package analyze

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/toll-expense/cmd/root"
	"fjacquet/toll-expense/internal/container"
	"fjacquet/toll-expense/internal/export"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/report"
	"fjacquet/toll-expense/internal/selector"
	"fjacquet/toll-expense/internal/validation"

	"github.com/spf13/cobra"
)

var (
	format        string
	xlsxPath      string
	writeExport   bool
	interactive   bool
	previousMonth bool
	dir           string
	showDiag      bool
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Print the toll expense report for monthly exports",
	Long: `Print the toll expense report for one or more monthly toll exports.

Each file is parsed, every charge is classified as expensable or not, and the
report lists expensable charges, a Monday to Friday summary and the
non-expensable charges with their holiday names.

Without arguments, use --interactive to pick a file from --dir or
--previous-month to analyze last month's MM_YYYY.csv.

Example:
  toll-expense analyze 01_2025.csv
  toll-expense analyze --previous-month --export
  toll-expense analyze 01_2025.csv --format json --xlsx january.xlsx`,
	RunE: runAnalyze,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: text, json or yaml (default from config)")
	Cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the report as an Excel workbook to this path")
	Cmd.Flags().BoolVar(&writeExport, "export", false, "Write expensable transactions to expensable_<name>")
	Cmd.Flags().BoolVar(&interactive, "interactive", false, "Choose the file from a menu")
	Cmd.Flags().BoolVar(&previousMonth, "previous-month", false, "Analyze last month's MM_YYYY.csv")
	Cmd.Flags().StringVar(&dir, "dir", ".", "Directory searched by --interactive and --previous-month")
	Cmd.Flags().BoolVar(&showDiag, "diagnostics", false, "Print parser diagnostics after each report")
	Cmd.MarkFlagsMutuallyExclusive("interactive", "previous-month")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	f := format
	if f == "" {
		f = c.GetConfig().Report.Format
	}
	if err := validation.IsValidOutputFormat(f); err != nil {
		return err
	}
	if xlsxPath != "" {
		if err := validation.IsValidWorkbookPath(xlsxPath); err != nil {
			return err
		}
	}

	files, err := selectFiles(cmd, args)
	if errors.Is(err, selector.ErrNoSelection) {
		_, _ = fmt.Fprintln(out, "No file selected. Exiting.")
		return nil
	}
	if err != nil {
		return err
	}

	var failed int
	for _, file := range files {
		if err := analyzeFile(c, out, file, f); err != nil {
			failed++
			c.GetLogger().WithError(err).Error("Error processing file", logging.F(logging.FieldFile, file))
			_, _ = fmt.Fprintf(out, "Skipping %s: %v\n", file, err)
		}
	}
	if failed == len(files) {
		return fmt.Errorf("no file could be analyzed")
	}
	return nil
}

func selectFiles(cmd *cobra.Command, args []string) ([]string, error) {
	var sel selector.Selector
	var candidates []string
	switch {
	case len(args) > 0:
		sel = selector.Static{Paths: args}
	case previousMonth:
		sel = selector.PreviousMonth{Dir: dir}
	case interactive:
		files, err := fileutils.CSVFiles(dir)
		if err != nil {
			return nil, err
		}
		candidates = files
		sel = selector.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	default:
		return nil, fmt.Errorf("no input file: pass a file, --interactive or --previous-month")
	}
	return sel.Select(candidates)
}

func analyzeFile(c *container.Container, out io.Writer, file, f string) error {
	rep, err := c.AnalyzeFile(file)
	if err != nil {
		return err
	}

	gen := c.GetReportGenerator()
	data, err := gen.GenerateReport(rep, f)
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if showDiag {
		for _, d := range rep.Diagnostics {
			_, _ = fmt.Fprintln(out, d.String())
		}
	}

	if xlsxPath != "" {
		book, err := gen.GenerateReport(rep, report.FormatXLSX)
		if err != nil {
			return err
		}
		if err := fileutils.AtomicWriteFile(xlsxPath, book, 0o600); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Workbook written to %s\n", xlsxPath)
	}

	if writeExport {
		path := export.ExpensablePath(file)
		if err := export.WriteExpensableCSV(path, rep, c.GetConfig().Receipt.TotalLabel); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Expensable transactions written to %s\n", path)
	}
	return nil
}
