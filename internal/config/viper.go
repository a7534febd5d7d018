// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/toll-expense/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultWorkStart  = "08:00:00"
	DefaultWorkEnd    = "20:00:00"
	DefaultTotalLabel = "TOTAL EXPENSABLE"
	EnvPrefix         = "TOLL"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level" validate:"required"`
		Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	} `mapstructure:"log" yaml:"log"`

	Work struct {
		Start string `mapstructure:"start" yaml:"start" validate:"required"`
		End   string `mapstructure:"end" yaml:"end" validate:"required"`
	} `mapstructure:"work" yaml:"work"`

	Receipt struct {
		TransponderPrefix string `mapstructure:"transponder_prefix" yaml:"transponder_prefix"`
		TotalLabel        string `mapstructure:"total_label" yaml:"total_label" validate:"required"`
	} `mapstructure:"receipt" yaml:"receipt"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers" validate:"min=1,max=64"`
	} `mapstructure:"batch" yaml:"batch"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json yaml"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig loads configuration from defaults, an optional config
// file and TOLL_* environment variables, in increasing precedence. When
// configFile is empty the standard locations are searched and a missing file
// is not an error.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.toll-expense")
		v.AddConfigPath(".toll-expense")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	var c Config
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Work.Start = DefaultWorkStart
	c.Work.End = DefaultWorkEnd
	c.Receipt.TotalLabel = DefaultTotalLabel
	c.Batch.Workers = 1
	c.Report.Format = "text"
	return &c
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("work.start", d.Work.Start)
	v.SetDefault("work.end", d.Work.End)
	v.SetDefault("receipt.transponder_prefix", d.Receipt.TransponderPrefix)
	v.SetDefault("receipt.total_label", d.Receipt.TotalLabel)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("report.format", d.Report.Format)
}

var validate = validator.New()

// Validate checks c, e.g. after command-line overrides were applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if _, _, err := config.WorkHours(); err != nil {
		return err
	}

	return nil
}

// WorkHours parses the configured work window bounds.
func (c *Config) WorkHours() (models.TimeOfDay, models.TimeOfDay, error) {
	start, err := models.ParseTimeOfDay(c.Work.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid work.start: %w", err)
	}
	end, err := models.ParseTimeOfDay(c.Work.End)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid work.end: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("work.end %s is before work.start %s", c.Work.End, c.Work.Start)
	}
	return start, end, nil
}
