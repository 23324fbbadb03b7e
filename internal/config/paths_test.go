package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTasqPath_Default(t *testing.T) {
	t.Setenv("TASQ_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := TasqPath()
	want := filepath.Join(home, ".tasq")
	if got != want {
		t.Errorf("TasqPath() = %q, want %q", got, want)
	}
}

func TestTasqPath_EnvOverride(t *testing.T) {
	t.Setenv("TASQ_PATH", "/tmp/custom-tasq")

	got := TasqPath()
	want := "/tmp/custom-tasq"
	if got != want {
		t.Errorf("TasqPath() = %q, want %q", got, want)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("TASQ_PATH", "/tmp/test-tasq")

	got := ConfigPath()
	want := "/tmp/test-tasq/config.jsonc"
	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestCredentialsPath(t *testing.T) {
	t.Setenv("TASQ_PATH", "/tmp/test-tasq")

	got := CredentialsPath()
	want := "/tmp/test-tasq/credentials"
	if got != want {
		t.Errorf("CredentialsPath() = %q, want %q", got, want)
	}
}
