package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration, loaded from a TOML file. Missing
// fields keep their defaults; a missing file is not an error.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	LogLevel string         `toml:"log_level"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	X      uint32 `toml:"x"`
	Y      uint32 `toml:"y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type RendererConfig struct {
	// Upper bound on drawables written into the per-slot object buffer.
	MaxObjects uint32 `toml:"max_objects"`
	// Directory holding the compiled SPIR-V shaders.
	ShaderDir string `toml:"shader_dir"`
	// Prefer a mailbox present mode over FIFO when available.
	VSync bool `toml:"vsync"`
	// Build every material pipeline in line-rasterization mode. Debug aid.
	Wireframe bool `toml:"wireframe"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Vulkan Playground",
			X:      100,
			Y:      100,
			Width:  1700,
			Height: 900,
		},
		Renderer: RendererConfig{
			MaxObjects: 10000,
			ShaderDir:  "shaders",
			VSync:      true,
		},
		LogLevel: "debug",
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
