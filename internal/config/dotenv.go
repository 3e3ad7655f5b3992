package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when MARKET_ENV_FILE is unset.
const DefaultEnvFile = ".env"

// loadDotEnv reads an optional env file. Variables already set in the process win.
func loadDotEnv() error {
	path := os.Getenv("MARKET_ENV_FILE")
	if path == "" {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
