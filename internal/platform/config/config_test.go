package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdtrack/internal/platform/config"
)

func TestLoadReadsYAMLFromTheDataDir(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("backend_url: https://api.example.com\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PDTRACK_BACKEND_URL", "")
	t.Setenv("PDTRACK_TIMEOUT", "")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("unexpected backend url %q", cfg.BackendURL)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.DBPath != filepath.Join(dir, "credentials.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
}

func TestEnvironmentOverridesTheFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("backend_url: https://file.example.com\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PDTRACK_BACKEND_URL", "https://env.example.com")
	t.Setenv("PDTRACK_TIMEOUT", "3s")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Fatalf("env must win, got %q", cfg.BackendURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Timeout)
	}
}

func TestLoadFailsWithoutABackendURL(t *testing.T) {
	t.Setenv("PDTRACK_BACKEND_URL", "")
	t.Setenv("PDTRACK_TIMEOUT", "")
	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatalf("expected an error when no backend url is configured")
	}
}
