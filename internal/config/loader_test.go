package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `{
	// This is a JSONC comment
	"api": {
		"base_url": "https://tasks.example.com/api",
		"timeout": "5s"
	},
	"events": {
		"buffer_size": 128
	}
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.API.BaseURL != "https://tasks.example.com/api" {
		t.Errorf("expected base_url https://tasks.example.com/api, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration() != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", cfg.API.Timeout.Duration())
	}
	if cfg.Events.BufferSize != 128 {
		t.Errorf("expected buffer 128, got %d", cfg.Events.BufferSize)
	}
}

func TestLoadEnvTemplate(t *testing.T) {
	content := `{
	"api": {
		"base_url": "${{ .Env.TASQ_TEST_URL }}"
	}
}`

	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASQ_TEST_URL", "http://127.0.0.1:9000/api")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:9000/api" {
		t.Errorf("expected expanded base_url, got %s", cfg.API.BaseURL)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `{}`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASQ_API_URL", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.API.BaseURL != "http://localhost:3000/api" {
		t.Errorf("expected default base_url, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration() != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %s", cfg.API.Timeout.Duration())
	}
	if cfg.Events.BufferSize != 64 {
		t.Errorf("expected default buffer 64, got %d", cfg.Events.BufferSize)
	}
	if cfg.UI.ToastDuration.Duration() != 3*time.Second {
		t.Errorf("expected default toast duration 3s, got %s", cfg.UI.ToastDuration.Duration())
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("TASQ_API_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.jsonc"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got error: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:3000/api" {
		t.Errorf("expected default base_url, got %s", cfg.API.BaseURL)
	}
}
