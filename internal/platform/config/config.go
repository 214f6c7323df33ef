package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
	DataDir    string        `yaml:"-"`
	DBPath     string        `yaml:"-"`
	KeyPath    string        `yaml:"-"`
}

// Load resolves configuration in ascending precedence: config.yaml in the
// data dir, then a .env file in the working directory, then real environment
// variables (PDTRACK_BACKEND_URL, PDTRACK_TIMEOUT).
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".pdtrack")
	}

	cfg := Config{
		Timeout: DefaultTimeout,
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "credentials.db"),
		KeyPath: filepath.Join(dataDir, "credentials.key"),
	}

	if b, err := os.ReadFile(filepath.Join(dataDir, "config.yaml")); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config.yaml: %w", err)
	}

	// Missing .env is fine; it only exists in dev checkouts.
	_ = godotenv.Load()

	if v := os.Getenv("PDTRACK_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("PDTRACK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse PDTRACK_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("backend url is required (config.yaml or PDTRACK_BACKEND_URL)")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}
