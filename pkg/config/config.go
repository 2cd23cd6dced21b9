// Package config provides configuration loading and management for the
// laser analyzer. It handles loading configuration from YAML files and
// provides default values matching the rig's reference calibration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/pipedetect"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/triangulation"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Pose is the static camera and laser calibration used for
	// triangulation
	Pose triangulation.PoseConfig `yaml:"pose"`

	// Detection parameters
	Detection struct {
		// ExpectedDiameterMm is the nominal pipe diameter the detector
		// searches for
		ExpectedDiameterMm float64 `yaml:"expectedDiameterMm"`

		// ToleranceMm is the inlier distance band around a hypothesis
		// circle
		ToleranceMm float64 `yaml:"toleranceMm"`

		// Iterations is the sampling budget per detection call
		Iterations int `yaml:"iterations"`
	} `yaml:"detection"`

	// Interpolation parameters
	Interpolation struct {
		// Enabled switches the dense-profile reconstruction on for
		// sparse profiles
		Enabled bool `yaml:"enabled"`

		// TargetResolution is the dense column count to reconstruct
		TargetResolution int `yaml:"targetResolution"`

		// Realistic selects the Gaussian-kernel reconstruction instead
		// of the edge-preserving spline fill
		Realistic bool `yaml:"realistic"`
	} `yaml:"interpolation"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Reference rig calibration: camera at the world origin looking along
	// +Z, laser mounted half a metre above with an untilted fan.
	cfg.Pose = triangulation.PoseConfig{
		Camera:        triangulation.Pose{},
		Laser:         triangulation.Pose{Y: 500},
		FocalLengthMm: 8.0,
		PixelSizeUm:   5.0,
		ImageWidth:    2048,
		ImageHeight:   1088,
	}

	// Set default detection parameters
	cfg.Detection.ExpectedDiameterMm = 300.0
	cfg.Detection.ToleranceMm = pipedetect.DefaultTolerance
	cfg.Detection.Iterations = pipedetect.DefaultIterations

	// Set default interpolation parameters
	cfg.Interpolation.Enabled = false
	cfg.Interpolation.TargetResolution = 2048
	cfg.Interpolation.Realistic = false

	cfg.Output.Verbose = true

	return cfg
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
