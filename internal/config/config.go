// Package config loads client settings from the environment or an optional
// YAML file, and owns the data directory paths.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppName is the application directory name under the XDG data dir.
const AppName = "zentask"

// Config holds runtime settings for the client.
type Config struct {
	// BaseURL is the backend origin all API calls go to.
	BaseURL string `yaml:"base_url" env:"ZENTASK_API" env-default:"http://localhost:8080"`

	// DataDir overrides where the session database lives.
	DataDir string `yaml:"data_dir" env:"ZENTASK_DATA_DIR"`
}

// Load reads configuration from the given YAML file, falling back to the
// environment when the path is empty or the file does not exist.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, err
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, err
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	return cfg, nil
}

// defaultDataDir returns XDG_DATA_HOME/zentask, or ~/.local/share/zentask.
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppName
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName)
}

// DBPath returns the path to the session database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "zentask.db")
}

// EnsureDir creates the data directory if it doesn't exist.
func (c Config) EnsureDir() error {
	return os.MkdirAll(c.DataDir, 0700)
}
