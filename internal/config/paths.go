package config

import (
	"os"
	"path/filepath"
)

// TasqPath returns the root directory for tasq data.
// It uses $TASQ_PATH if set, otherwise defaults to ~/.tasq.
func TasqPath() string {
	if v := os.Getenv("TASQ_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tasq")
	}
	return filepath.Join(home, ".tasq")
}

// ConfigPath returns the path to the tasq config file.
func ConfigPath() string {
	return filepath.Join(TasqPath(), "config.jsonc")
}

// DotenvPath returns the path to the tasq .env file.
func DotenvPath() string {
	return filepath.Join(TasqPath(), ".env")
}

// CredentialsPath returns the directory holding the stored session.
func CredentialsPath() string {
	return filepath.Join(TasqPath(), "credentials")
}
