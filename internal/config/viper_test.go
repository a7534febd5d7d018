package config

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/toll-expense/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"TOLL_LOG_LEVEL", "TOLL_LOG_FORMAT", "TOLL_WORK_START", "TOLL_WORK_END",
	"TOLL_RECEIPT_TRANSPONDER_PREFIX", "TOLL_RECEIPT_TOTAL_LABEL",
	"TOLL_BATCH_WORKERS", "TOLL_REPORT_FORMAT",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "08:00:00", config.Work.Start)
	assert.Equal(t, "20:00:00", config.Work.End)
	assert.Equal(t, "", config.Receipt.TransponderPrefix)
	assert.Equal(t, "TOTAL EXPENSABLE", config.Receipt.TotalLabel)
	assert.Equal(t, 1, config.Batch.Workers)
	assert.Equal(t, "text", config.Report.Format)
	assert.Equal(t, Default(), config)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("TOLL_LOG_LEVEL", "debug")
	t.Setenv("TOLL_WORK_START", "07:30:00")
	t.Setenv("TOLL_RECEIPT_TRANSPONDER_PREFIX", "3857335")
	t.Setenv("TOLL_BATCH_WORKERS", "4")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "07:30:00", config.Work.Start)
	assert.Equal(t, "3857335", config.Receipt.TransponderPrefix)
	assert.Equal(t, 4, config.Batch.Workers)
}

func TestInitializeConfig_ConfigFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
log:
  level: "warn"
  format: "json"
work:
  start: "07:30:00"
  end: "19:00:00"
receipt:
  transponder_prefix: "3857335"
report:
  format: "yaml"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0o600))
	t.Setenv("TOLL_WORK_END", "20:00:00")

	t.Run("explicit file", func(t *testing.T) {
		config, err := InitializeConfig(configFile)
		require.NoError(t, err)
		assert.Equal(t, "warn", config.Log.Level)
		assert.Equal(t, "json", config.Log.Format)
		assert.Equal(t, "07:30:00", config.Work.Start)
		assert.Equal(t, "20:00:00", config.Work.End) // env var wins
		assert.Equal(t, "3857335", config.Receipt.TransponderPrefix)
		assert.Equal(t, "yaml", config.Report.Format)
	})

	t.Run("discovered in working directory", func(t *testing.T) {
		chdir(t, tempDir)
		config, err := InitializeConfig("")
		require.NoError(t, err)
		assert.Equal(t, "07:30:00", config.Work.Start)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := InitializeConfig(filepath.Join(tempDir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "Format"},
		{"invalid report format", func(c *Config) { c.Report.Format = "pdf" }, "Format"},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }, "Workers"},
		{"empty total label", func(c *Config) { c.Receipt.TotalLabel = "" }, "TotalLabel"},
		{"bad start", func(c *Config) { c.Work.Start = "8am" }, "invalid work.start"},
		{"bad end", func(c *Config) { c.Work.End = "25:00:00" }, "invalid work.end"},
		{"inverted window", func(c *Config) { c.Work.Start = "21:00:00" }, "before work.start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modifyConfig(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestWorkHours(t *testing.T) {
	c := Default()
	c.Work.Start = "07:30:00"
	start, end, err := c.WorkHours()
	require.NoError(t, err)
	assert.Equal(t, models.NewTimeOfDay(7, 30, 0), start)
	assert.Equal(t, models.NewTimeOfDay(20, 0, 0), end)
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(Default()))
}
