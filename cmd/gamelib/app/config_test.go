package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/gamelib/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	t.Setenv("GAMELIB_DATA_DIR", "")
	t.Setenv("LOG_FORMAT", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.DataDir == "" {
		t.Error("DataDir not set")
	}
}

// TestConfig_EnvironmentVariables verifies GAMELIB_* variables are read.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("GAMELIB_DATA_DIR", "/tmp/games")
	t.Setenv("GAMELIB_FORMAT", "yaml")
	t.Setenv("GAMELIB_VERBOSE", "true")
	t.Setenv("GAMELIB_CATALOG", "/tmp/catalog.json")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.DataDir != "/tmp/games" {
		t.Errorf("DataDir = %s, want /tmp/games", config.DataDir)
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if !config.Verbose {
		t.Error("GAMELIB_VERBOSE not loaded")
	}
	if config.CatalogPath != "/tmp/catalog.json" {
		t.Errorf("CatalogPath = %s, want /tmp/catalog.json", config.CatalogPath)
	}
}

// TestLoadConfigFile verifies an explicit config file is read.
func TestLoadConfigFile(t *testing.T) {
	t.Setenv("GAMELIB_DATA_DIR", "")
	path := filepath.Join(t.TempDir(), "gamelib.yaml")
	content := "data_dir: /srv/gamelib\nformat: wide\noverrides: /etc/gamelib/rules.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if config.DataDir != "/srv/gamelib" {
		t.Errorf("DataDir = %s, want /srv/gamelib", config.DataDir)
	}
	if config.Format != "wide" {
		t.Errorf("Format = %s, want wide", config.Format)
	}
	if config.OverridesPath != "/etc/gamelib/rules.yaml" {
		t.Errorf("OverridesPath = %s", config.OverridesPath)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfigFile() succeeded for missing file, want error")
	}
}

// TestConfig_UpdateFromFlags verifies flags take precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json", DataDir: constants.DefaultDataDir, LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "", "", "/data")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json (empty flag keeps value)", config.Format)
	}
	if config.DataDir != "/data" {
		t.Errorf("DataDir = %s, want /data", config.DataDir)
	}

	config.UpdateFromFlags(false, false, false, "yaml", "debug", "")
	if config.Format != "yaml" || config.LogLevel != "debug" {
		t.Errorf("Format/LogLevel = %s/%s, want yaml/debug", config.Format, config.LogLevel)
	}
	if !config.Verbose {
		t.Error("Verbose reset by a later call without the flag")
	}
}
