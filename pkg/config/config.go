// Package config provides configuration loading and management for mrisim.
// It handles loading configuration from YAML files and provides default values
// reproducing the phantom and acquisition tables of the virtual scanner.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mrisim/internal/models"
	"mrisim/pkg/tissue"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid parameters
	Grid struct {
		// Size is the side N of the square N×N raster
		Size int `yaml:"size"`
	} `yaml:"grid"`

	// Phantoms are the named phantoms of the design study
	Phantoms []models.NamedPhantom `yaml:"phantoms"`

	// Scanner parameters
	Scanner struct {
		// Compartments are the tissue ellipses, indexed from 1 in list order.
		// Intensities are proton densities and must not be negative.
		Compartments []models.Ellipse `yaml:"compartments"`

		// Relaxation assigns T1 and T2 per compartment index
		Relaxation tissue.Schedule `yaml:"relaxation"`

		// TR and TE are paired by position into acquisition settings
		TR []float64 `yaml:"tr"`
		TE []float64 `yaml:"te"`

		// SweepTE is the echo time held fixed for the SI vs TR curves
		SweepTE float64 `yaml:"sweepTE"`

		// TESweep describes the SI vs TE study of a single compartment
		TESweep struct {
			TR          float64   `yaml:"tr"`
			TE          []float64 `yaml:"te"`
			Compartment int       `yaml:"compartment"`
		} `yaml:"teSweep"`
	} `yaml:"scanner"`

	// Output parameters
	Output struct {
		// Dir is the directory figures and results are written to
		Dir string `yaml:"dir"`

		// DPI is the resolution of saved figures
		DPI int `yaml:"dpi"`

		// SaveIntermediaryResults writes every map and image as a raw PNG
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// Brain returns the four compartments of the reference brain phantom.
// skull is the intensity of the second ellipse: +0.85 for proton density
// maps, -0.85 for the subtractive design phantoms.
func Brain(skull float64) []models.Ellipse {
	return []models.Ellipse{
		{X0: 0, Y0: 0, A: 60, B: 90, Angle: 0, Intensity: 1},
		{X0: 0, Y0: 0, A: 50, B: 80, Angle: 0, Intensity: skull},
		{X0: -40, Y0: -30, A: 10, B: 25, Angle: 20, Intensity: 0.4},
		{X0: -10, Y0: 40, A: 15, B: 20, Angle: -30, Intensity: 0.65},
	}
}

// DefaultPhantoms returns the three design study phantoms
func DefaultPhantoms() []models.NamedPhantom {
	noOverlap := Brain(-0.85)

	withCircles := append(Brain(-0.85),
		models.Ellipse{X0: 100, Y0: 80, A: 20, B: 20, Intensity: 0.5},
		models.Ellipse{X0: -100, Y0: 80, A: 20, B: 20, Intensity: 0.5},
	)

	concentric := append(Brain(-0.85)[:2],
		models.Ellipse{A: 35, B: 35, Intensity: 0.1},
		models.Ellipse{A: 25, B: 25, Intensity: 0.3},
		models.Ellipse{A: 10, B: 10, Intensity: 0.6},
	)

	return []models.NamedPhantom{
		{Name: "Phantom with No Overlap", Ellipses: noOverlap},
		{Name: "Phantom with Added Circles", Ellipses: withCircles},
		{Name: "Concentric Circles Phantom", Ellipses: concentric},
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Size = 256

	cfg.Phantoms = DefaultPhantoms()

	// Set default scanner parameters
	cfg.Scanner.Compartments = Brain(0.85)
	cfg.Scanner.Relaxation = tissue.DefaultSchedule()
	cfg.Scanner.TR = []float64{50, 250, 1000, 2500}
	cfg.Scanner.TE = []float64{10, 10, 10, 10}
	cfg.Scanner.SweepTE = 10
	cfg.Scanner.TESweep.TR = 250
	cfg.Scanner.TESweep.TE = []float64{10, 40, 80, 150}
	cfg.Scanner.TESweep.Compartment = 2

	// Set default output parameters
	cfg.Output.Dir = "."
	cfg.Output.DPI = 300
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks the configuration for values outside the numeric domain
func (c *Config) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return &models.DomainError{Op: "config", Msg: fmt.Sprintf(format, args...)}
	}

	if c.Grid.Size < 1 {
		return fail("grid size must be positive, got %d", c.Grid.Size)
	}

	for _, p := range c.Phantoms {
		for i, e := range p.Ellipses {
			if !(e.A > 0) || !(e.B > 0) {
				return fail("phantom %q ellipse %d: semi-axes must be positive", p.Name, i+1)
			}
		}
	}

	for i, e := range c.Scanner.Compartments {
		if !(e.A > 0) || !(e.B > 0) {
			return fail("compartment %d: semi-axes must be positive", i+1)
		}
		if e.Intensity < 0 {
			return fail("compartment %d: proton density must not be negative, got %g", i+1, e.Intensity)
		}
	}

	if len(c.Scanner.TR) != len(c.Scanner.TE) {
		return fail("TR has %d values but TE has %d", len(c.Scanner.TR), len(c.Scanner.TE))
	}

	if n := c.Scanner.TESweep.Compartment; n < 1 || n > len(c.Scanner.Compartments) {
		return fail("TE sweep compartment %d out of range 1..%d", n, len(c.Scanner.Compartments))
	}

	if c.Output.DPI < 1 {
		return fail("dpi must be positive, got %d", c.Output.DPI)
	}

	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
