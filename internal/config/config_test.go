package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unsetenv clears a variable for the test while keeping t.Setenv's restore.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "ZENTASK_API")
	unsetenv(t, "ZENTASK_DATA_DIR")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DataDir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ZENTASK_API", "https://tasks.example.com")
	t.Setenv("ZENTASK_DATA_DIR", "/tmp/zt")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://tasks.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DataDir != "/tmp/zt" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DBPath() != filepath.Join("/tmp/zt", "zentask.db") {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}

func TestLoadYAMLFile(t *testing.T) {
	unsetenv(t, "ZENTASK_API")
	unsetenv(t, "ZENTASK_DATA_DIR")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: http://dev.local:9090\ndata_dir: /tmp/zt-yaml\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://dev.local:9090" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.DataDir != "/tmp/zt-yaml" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("ZENTASK_API", "http://env.local:7070")
	t.Setenv("ZENTASK_DATA_DIR", "/tmp/zt-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://env.local:7070" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}
