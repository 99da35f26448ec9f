package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Window.Width != want.Window.Width || cfg.Window.Height != want.Window.Height {
		t.Errorf("window = %dx%d, want %dx%d", cfg.Window.Width, cfg.Window.Height, want.Window.Width, want.Window.Height)
	}
	if cfg.Renderer.MaxObjects != want.Renderer.MaxObjects {
		t.Errorf("max_objects = %d, want %d", cfg.Renderer.MaxObjects, want.Renderer.MaxObjects)
	}
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_level = "info"

[window]
title = "test"
width = 800
height = 600

[renderer]
max_objects = 128
wireframe = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Window.Title != "test" {
		t.Errorf("title = %q, want %q", cfg.Window.Title, "test")
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("window = %dx%d, want 800x600", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Renderer.MaxObjects != 128 {
		t.Errorf("max_objects = %d, want 128", cfg.Renderer.MaxObjects)
	}
	if !cfg.Renderer.Wireframe {
		t.Error("wireframe = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log_level = %q, want %q", cfg.LogLevel, "info")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Renderer.ShaderDir != "shaders" {
		t.Errorf("shader_dir = %q, want %q", cfg.Renderer.ShaderDir, "shaders")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[window\nwidth="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed file returned nil error")
	}
}
