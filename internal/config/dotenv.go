package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

// LoadEnvFile populates the process environment from a dotenv file.
// Variables already present in the environment win over the file.
func LoadEnvFile(filename string) error {
	if err := godotenv.Load(filename); err != nil {
		return fmt.Errorf("loading env file %s: %w", filename, err)
	}
	return nil
}

// ReadEnvFile parses a dotenv file without touching the process environment.
func ReadEnvFile(filename string) (map[string]string, error) {
	values, err := godotenv.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", filename, err)
	}
	return values, nil
}

// WriteEnvFile stores the configuration as a dotenv file readable by LoadEnvFile.
func WriteEnvFile(c DeliveryConfig, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := godotenv.Write(c.Environ(), filename); err != nil {
		return fmt.Errorf("writing env file %s: %w", filename, err)
	}
	// the file carries the SMTP password
	return os.Chmod(filename, 0o600)
}
