// Package container provides dependency injection for the toll-expense application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/toll-expense/internal/batch"
	"fjacquet/toll-expense/internal/classifier"
	"fjacquet/toll-expense/internal/config"
	"fjacquet/toll-expense/internal/holiday"
	"fjacquet/toll-expense/internal/logging"
	"fjacquet/toll-expense/internal/receipt"
	"fjacquet/toll-expense/internal/report"
	"fjacquet/toll-expense/internal/tollparser"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods. The holiday set is the only shared
// mutable state and guards itself.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	holidays   *holiday.Set
	classifier *classifier.Classifier
	parser     *tollparser.Parser
	generator  *report.ReportGenerator
	rewriter   *receipt.Rewriter
	runner     *batch.Runner
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger wires dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	window, err := classifier.ParseWorkWindow(cfg.Work.Start, cfg.Work.End)
	if err != nil {
		return nil, fmt.Errorf("invalid work window: %w", err)
	}

	holidays := holiday.NewSet()
	c := classifier.New(holidays, window)

	logger.Debug("Container initialized",
		logging.F(logging.FieldWorkStart, cfg.Work.Start),
		logging.F(logging.FieldWorkEnd, cfg.Work.End),
		logging.F(logging.FieldTransponder, cfg.Receipt.TransponderPrefix),
		logging.F("workers", cfg.Batch.Workers))

	return &Container{
		logger:     logger,
		config:     cfg,
		holidays:   holidays,
		classifier: c,
		parser:     tollparser.NewParser(logger),
		generator:  report.NewReportGenerator(logger),
		rewriter:   receipt.NewRewriter(c, cfg.Receipt.TransponderPrefix, cfg.Receipt.TotalLabel, logger),
		runner:     batch.NewRunner(cfg.Batch.Workers, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetHolidays returns the shared holiday set.
func (c *Container) GetHolidays() *holiday.Set {
	return c.holidays
}

// GetClassifier returns the classifier shared by reporting and receipt filtering.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetParser returns the toll export parser.
func (c *Container) GetParser() *tollparser.Parser {
	return c.parser
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// GetRewriter returns the receipt rewriter.
func (c *Container) GetRewriter() *receipt.Rewriter {
	return c.rewriter
}

// GetRunner returns the batch runner.
func (c *Container) GetRunner() *batch.Runner {
	return c.runner
}

// AnalyzeFile parses, classifies and aggregates one monthly export. Parser
// diagnostics are attached to the report.
func (c *Container) AnalyzeFile(path string) (*report.Report, error) {
	res, err := c.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	rep := report.Aggregate(c.classifier.ClassifyAll(res.Records), report.LabelFromPath(path), c.classifier.Window())
	rep.Diagnostics = res.Diagnostics
	return rep, nil
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
