// Package config loads adapter settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by the Get* accessors when a field is unset.
const (
	DefaultDGGRIDExecutable      = "dggrid"
	DefaultDensification         = 50
	DefaultClipCellDensification = 50
	DefaultH3GlobalMaxLevel      = 3
	DefaultH3Densification       = 50

	// H3's own finest resolution bounds the global enumeration cap.
	maxH3Level = 15
)

// Config holds adapter settings. Every field is optional; omitted fields
// fall back to the defaults above, so partial files are safe.
type Config struct {
	// DGGRID external process
	DGGRIDExecutable            *string `json:"dggrid_executable,omitempty"`
	DGGRIDWorkdir               *string `json:"dggrid_workdir,omitempty"`
	DGGRIDDensification         *int    `json:"dggrid_densification,omitempty"`
	DGGRIDClipCellDensification *int    `json:"dggrid_clip_cell_densification,omitempty"`

	// H3 in-process
	H3GlobalMaxLevel *int `json:"h3_global_max_level,omitempty"`
	H3Densification  *int `json:"h3_densification,omitempty"`

	// DGGAL native library
	DGGALArgs []string `json:"dggal_args,omitempty"`
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		DGGRIDExecutable:            ptrString(DefaultDGGRIDExecutable),
		DGGRIDWorkdir:               ptrString(os.TempDir()),
		DGGRIDDensification:         ptrInt(DefaultDensification),
		DGGRIDClipCellDensification: ptrInt(DefaultClipCellDensification),
		H3GlobalMaxLevel:            ptrInt(DefaultH3GlobalMaxLevel),
		H3Densification:             ptrInt(DefaultH3Densification),
	}
}

// Load reads a Config from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.DGGRIDExecutable != nil && *c.DGGRIDExecutable == "" {
		return fmt.Errorf("dggrid_executable must not be empty")
	}
	if c.DGGRIDWorkdir != nil && *c.DGGRIDWorkdir == "" {
		return fmt.Errorf("dggrid_workdir must not be empty")
	}
	if c.DGGRIDDensification != nil && *c.DGGRIDDensification < 0 {
		return fmt.Errorf("dggrid_densification must be non-negative, got %d", *c.DGGRIDDensification)
	}
	if c.DGGRIDClipCellDensification != nil && *c.DGGRIDClipCellDensification < 0 {
		return fmt.Errorf("dggrid_clip_cell_densification must be non-negative, got %d", *c.DGGRIDClipCellDensification)
	}
	if c.H3GlobalMaxLevel != nil {
		if v := *c.H3GlobalMaxLevel; v < 0 || v > maxH3Level {
			return fmt.Errorf("h3_global_max_level must be between 0 and %d, got %d", maxH3Level, v)
		}
	}
	if c.H3Densification != nil && *c.H3Densification < 0 {
		return fmt.Errorf("h3_densification must be non-negative, got %d", *c.H3Densification)
	}
	return nil
}

// GetDGGRIDExecutable returns the dggrid_executable value or the default.
func (c *Config) GetDGGRIDExecutable() string {
	if c == nil || c.DGGRIDExecutable == nil {
		return DefaultDGGRIDExecutable
	}
	return *c.DGGRIDExecutable
}

// GetDGGRIDWorkdir returns the dggrid_workdir value or the system temp dir.
func (c *Config) GetDGGRIDWorkdir() string {
	if c == nil || c.DGGRIDWorkdir == nil {
		return os.TempDir()
	}
	return *c.DGGRIDWorkdir
}

// GetDGGRIDDensification returns the dggrid_densification value or the default.
func (c *Config) GetDGGRIDDensification() int {
	if c == nil || c.DGGRIDDensification == nil {
		return DefaultDensification
	}
	return *c.DGGRIDDensification
}

// GetDGGRIDClipCellDensification returns the dggrid_clip_cell_densification value or the default.
func (c *Config) GetDGGRIDClipCellDensification() int {
	if c == nil || c.DGGRIDClipCellDensification == nil {
		return DefaultClipCellDensification
	}
	return *c.DGGRIDClipCellDensification
}

// GetH3GlobalMaxLevel returns the h3_global_max_level value or the default.
func (c *Config) GetH3GlobalMaxLevel() int {
	if c == nil || c.H3GlobalMaxLevel == nil {
		return DefaultH3GlobalMaxLevel
	}
	return *c.H3GlobalMaxLevel
}

// GetH3Densification returns the h3_densification value or the default.
func (c *Config) GetH3Densification() int {
	if c == nil || c.H3Densification == nil {
		return DefaultH3Densification
	}
	return *c.H3Densification
}

// GetDGGALArgs returns a copy of dggal_args.
func (c *Config) GetDGGALArgs() []string {
	if c == nil || len(c.DGGALArgs) == 0 {
		return nil
	}
	out := make([]string, len(c.DGGALArgs))
	copy(out, c.DGGALArgs)
	return out
}
