// Package config holds the settings shared by the mesh-slicer commands,
// read from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gmlewis/mesh-slicer/section"
)

// Config holds command and server settings.
type Config struct {
	// Listen is the address of the section server.
	Listen string `yaml:"listen"`
	// Offset moves closure caps along the plane normal.
	Offset float64 `yaml:"offset"`
	// Precision is the section point rounding multiplier.
	Precision float64 `yaml:"precision"`
	// Resolution is the slice voxel size in microns.
	Resolution float32 `yaml:"resolution"`
	// Workers bounds concurrent slice rendering. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// MaxMeshes bounds the meshes accepted by one server request.
	MaxMeshes int `yaml:"max_meshes"`
}

// Default returns the default settings.
func Default() *Config {
	return &Config{
		Listen:     ":8080",
		Offset:     section.DefaultOffset,
		Precision:  section.DefaultPrecision,
		Resolution: 42,
		MaxMeshes:  64,
	}
}

// Load reads filename over the defaults. An empty filename returns the
// defaults.
func Load(filename string) (*Config, error) {
	c := Default()
	if filename == "" {
		return c, nil
	}
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %v", err)
	}
	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%q): %v", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %v", filename, err)
	}
	return c, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch {
	case c.Offset < 0:
		return fmt.Errorf("offset %v must not be negative", c.Offset)
	case c.Precision <= 0:
		return fmt.Errorf("precision %v must be positive", c.Precision)
	case c.Resolution <= 0:
		return fmt.Errorf("resolution %v must be positive", c.Resolution)
	case c.Workers < 0:
		return fmt.Errorf("workers %v must not be negative", c.Workers)
	case c.MaxMeshes <= 0:
		return fmt.Errorf("max_meshes %v must be positive", c.MaxMeshes)
	}
	return nil
}
