package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pose.FocalLengthMm <= 0 {
		t.Error("default focal length must be positive")
	}
	if cfg.Pose.ImageWidth <= 0 || cfg.Pose.ImageHeight <= 0 {
		t.Error("default image dimensions must be positive")
	}
	if cfg.Detection.ExpectedDiameterMm <= 0 {
		t.Error("default expected diameter must be positive")
	}
	if cfg.Detection.ToleranceMm <= 0 {
		t.Error("default tolerance must be positive")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}

	defaults := DefaultConfig()
	if cfg.Detection.ExpectedDiameterMm != defaults.Detection.ExpectedDiameterMm {
		t.Errorf("expected default diameter %v, got %v",
			defaults.Detection.ExpectedDiameterMm, cfg.Detection.ExpectedDiameterMm)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Pose.Camera.Pitch = 12.5
	cfg.Pose.Laser.Y = 432.0
	cfg.Detection.ExpectedDiameterMm = 250
	cfg.Interpolation.Enabled = true
	cfg.Interpolation.TargetResolution = 1024

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Pose.Camera.Pitch != 12.5 {
		t.Errorf("camera pitch did not round-trip: %v", loaded.Pose.Camera.Pitch)
	}
	if loaded.Pose.Laser.Y != 432.0 {
		t.Errorf("laser height did not round-trip: %v", loaded.Pose.Laser.Y)
	}
	if loaded.Detection.ExpectedDiameterMm != 250 {
		t.Errorf("expected diameter did not round-trip: %v", loaded.Detection.ExpectedDiameterMm)
	}
	if !loaded.Interpolation.Enabled || loaded.Interpolation.TargetResolution != 1024 {
		t.Error("interpolation settings did not round-trip")
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	// A partial file overrides only the keys it names; the rest keeps the
	// default values.
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "detection:\n  expectedDiameterMm: 150\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write partial config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Detection.ExpectedDiameterMm != 150 {
		t.Errorf("expected overridden diameter 150, got %v", cfg.Detection.ExpectedDiameterMm)
	}
	if cfg.Pose.FocalLengthMm != DefaultConfig().Pose.FocalLengthMm {
		t.Error("unrelated keys should keep their defaults")
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")

	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
}
