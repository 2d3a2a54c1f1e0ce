package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Extensions) == 0 || cfg.Extensions[0] != ".py" {
		t.Errorf("Default extensions = %v, want [.py]", cfg.Extensions)
	}
	if cfg.Markers.Begin != "<todo>" || cfg.Markers.End != "</todo>" {
		t.Errorf("Default markers = %+v", cfg.Markers)
	}
	if cfg.DefaultPriority != "MEDIUM" {
		t.Errorf("Default priority = %s, want MEDIUM", cfg.DefaultPriority)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Default workers = %d, want > 0", cfg.Workers)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Markers.Begin != "<todo>" {
		t.Errorf("Loaded marker = %s, want <todo> (default)", cfg.Markers.Begin)
	}
}

func TestLoadWithFile(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "todoscan")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `extensions:
  - ".py"
  - ".pyi"
default_priority: "HIGH"
workers: 2
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Extensions) != 2 || cfg.Extensions[1] != ".pyi" {
		t.Errorf("Extensions = %v, want [.py .pyi]", cfg.Extensions)
	}
	if cfg.DefaultPriority != "HIGH" {
		t.Errorf("DefaultPriority = %s, want HIGH", cfg.DefaultPriority)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}

	// Unset fields fall back to defaults
	if cfg.Markers.Begin != "<todo>" {
		t.Errorf("Markers.Begin = %s, want <todo> (default)", cfg.Markers.Begin)
	}
	if len(cfg.IgnoreDirs) == 0 {
		t.Error("IgnoreDirs should fall back to defaults")
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(path, []byte("markers: [not: a: mapping"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() with malformed yaml expected error, got nil")
	}
}

func TestSaveAndReload(t *testing.T) {
	origXDG := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", origXDG)

	tempDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg := Default()
	cfg.DefaultPriority = "LOW"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if reloaded.DefaultPriority != "LOW" {
		t.Errorf("Reloaded priority = %s, want LOW", reloaded.DefaultPriority)
	}
}
