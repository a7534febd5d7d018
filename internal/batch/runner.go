// Package batch runs a per-file operation over a set of toll files, isolating
// failures so one bad file never stops the rest.
package batch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"fjacquet/toll-expense/internal/logging"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	File  string
	Total decimal.Decimal
	Err   error
}

// Succeeded reports whether the file was processed without error.
func (o FileOutcome) Succeeded() bool {
	return o.Err == nil
}

// Summary collects the outcomes of a run. Total covers successful files only.
type Summary struct {
	Succeeded []FileOutcome
	Failed    []FileOutcome
	Total     decimal.Decimal
}

// Files returns the number of files processed.
func (s *Summary) Files() int {
	return len(s.Succeeded) + len(s.Failed)
}

// ProcessFunc handles one file and returns the amount it contributes to the
// cumulative total.
type ProcessFunc func(ctx context.Context, file string) (decimal.Decimal, error)

// Runner processes files with bounded parallelism.
type Runner struct {
	workers int
	logger  logging.Logger
}

// NewRunner creates a Runner. workers below 1 means sequential processing.
func NewRunner(workers int, logger logging.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{workers: workers, logger: logger}
}

// Workers returns the parallelism limit.
func (r *Runner) Workers() int {
	return r.workers
}

// Run applies fn to every file. Per-file errors are collected in the
// summary; the returned error is only set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, files []string, fn ProcessFunc) (*Summary, error) {
	var (
		mu       sync.Mutex
		outcomes = make([]FileOutcome, 0, len(files))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			total, err := fn(ctx, file)
			outcome := FileOutcome{File: file, Total: total, Err: err}

			log := r.logger.WithField(logging.FieldFile, file)
			if err != nil {
				log.WithError(err).Warn("Skipping file")
			} else {
				log.Debug("Processed file", logging.F(logging.FieldTotal, total.StringFixed(2)))
			}

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
			// individual failures never cancel the group
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return filepath.Base(outcomes[i].File) < filepath.Base(outcomes[j].File)
	})

	summary := &Summary{Total: decimal.Zero}
	for _, o := range outcomes {
		if o.Succeeded() {
			summary.Succeeded = append(summary.Succeeded, o)
			summary.Total = summary.Total.Add(o.Total)
		} else {
			summary.Failed = append(summary.Failed, o)
		}
	}

	r.logger.Info("Batch complete",
		logging.F(logging.FieldCount, summary.Files()),
		logging.F("failed", len(summary.Failed)),
		logging.F(logging.FieldTotal, summary.Total.StringFixed(2)))
	return summary, nil
}
