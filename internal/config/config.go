package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	OutputDir string `json:"output_dir"`
	RefDir    string `json:"reference_dir"`
	ListFile  string `json:"list_file"`

	// Render settings
	Workers int     `json:"workers"`
	Fuzz    float64 `json:"fuzz"`
	Stretch float64 `json:"stretch"`
	Zoom    int     `json:"zoom"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.RefDir != "" {
		c.RefDir = flags.RefDir
	}
	if flags.ListFile != "" {
		c.ListFile = flags.ListFile
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Fuzz > 0 {
		c.Fuzz = flags.Fuzz
	}
	if flags.Stretch > 0 {
		c.Stretch = flags.Stretch
	}
	if flags.Zoom > 0 {
		c.Zoom = flags.Zoom
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir
	if c.RefDir == "" {
		c.RefDir = "reference_files"
	}
	if c.ListFile == "" {
		c.ListFile = "implemented.txt"
	}
	c.RefDir = under(c.BaseDir, c.RefDir)
	c.ListFile = under(c.BaseDir, c.ListFile)
	if c.OutputDir != "" {
		c.OutputDir = under(c.BaseDir, c.OutputDir)
	}

	// Defaults for render settings
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Fuzz <= 0 {
		c.Fuzz = 0.01
	}
	if c.Stretch <= 0 {
		c.Stretch = 0.08
	}
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	OutputDir string
	RefDir    string
	ListFile  string
	Workers   int
	Fuzz      float64
	Stretch   float64
	Zoom      int
}

func under(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}
