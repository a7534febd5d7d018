package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/toll-expense/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads variables from a .env file in the working directory or its
// parent, if one exists. Existing environment variables win.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// NewLogger builds the application logger from the configuration.
func NewLogger(c *Config) logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}
