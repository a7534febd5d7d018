// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/toll-expense/internal/config"
	"fjacquet/toll-expense/internal/container"
	"fjacquet/toll-expense/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	Start      string
	End        string
	Prefix     string
	Workers    int
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for subcommands
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "toll-expense",
		Short: "A CLI tool to split toll transponder charges into expensable and personal trips.",
		Long: `toll-expense reads monthly toll transponder exports (MM_YYYY.csv), classifies
every charge as expensable (workday, inside working hours, not a US federal holiday)
or non-expensable, and prints a monthly expense report. It can also rewrite
receipt exports so they only carry the expensable rows plus a total line.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to toll-expense!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize(cmd)
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}
)

// Init initializes the root command flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.toll-expense, .toll-expense and .)")
	pf.StringVar(&SharedFlags.Start, "start", "", "Start of the working day, HH:MM:SS (default 08:00:00)")
	pf.StringVar(&SharedFlags.End, "end", "", "End of the working day, HH:MM:SS (default 20:00:00)")
	pf.StringVar(&SharedFlags.Prefix, "prefix", "", "Transponder number prefix kept in receipts")
	pf.IntVar(&SharedFlags.Workers, "workers", 0, "Number of files processed in parallel")
	pf.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

// Initialize loads the configuration, applies flag overrides and wires the container.
func Initialize(cmd *cobra.Command) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ApplyFlags(cmd, cfg)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyFlags copies explicitly set persistent flags over cfg.
func ApplyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("start") {
		cfg.Work.Start = SharedFlags.Start
	}
	if changed("end") {
		cfg.Work.End = SharedFlags.End
	}
	if changed("prefix") {
		cfg.Receipt.TransponderPrefix = SharedFlags.Prefix
	}
	if changed("workers") {
		cfg.Batch.Workers = SharedFlags.Workers
	}
	if changed("log-level") {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = SharedFlags.LogFormat
	}
}

// GetContainer returns the application container, or nil before initialization
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before initialization
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the shared logger
func GetLogger() logging.Logger {
	return Log
}

// SetContainer installs c as the application container.
func SetContainer(c *container.Container) {
	AppContainer = c
	if c != nil {
		AppConfig = c.GetConfig()
		Log = c.GetLogger()
	}
}

// RequireContainer returns the container or an error when commands run
// without initialization.
func RequireContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}
