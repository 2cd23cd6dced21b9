package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/config"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/interpolation"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/pipedetect"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/profile"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/triangulation"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "Sensor .bin file to analyze")
	configPath := flag.String("config", "config.yaml", "YAML pose/detection configuration")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	diameter := flag.Float64("diameter", 0, "Expected pipe diameter in mm (overrides config)")
	profileIndex := flag.Int("profile", -1, "Profile index to analyze (default: all profiles)")
	synthetic := flag.Bool("synthetic", false, "Analyze a synthetic pipe-on-seabed cloud instead of a file")
	chartsDir := flag.String("charts", "", "Directory to save per-profile HTML cross-section charts")
	imagesDir := flag.String("images", "", "Directory to save per-profile PNG cross-section images")
	rewritePath := flag.String("rewrite", "", "Re-encode the decoded profiles to this .bin file (drops corrupt tails)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *inputFile == "" && !*synthetic {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	expectedDiameter := cfg.Detection.ExpectedDiameterMm
	if *diameter > 0 {
		expectedDiameter = *diameter
	}

	fmt.Println("================================")
	fmt.Println("LASER PROFILE ANALYZER")
	fmt.Println("Triangulation-laser pipe detection")
	fmt.Println("================================")

	if *synthetic {
		runSynthetic(cfg, expectedDiameter, *chartsDir, *imagesDir)
		return
	}

	startTime := time.Now()

	// Step 1: Decode the sensor file
	fmt.Printf("Step 1: Decoding %s...\n", *inputFile)
	raw, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	data, err := profile.Decode(raw)
	if err != nil {
		log.Fatalf("Failed to decode sensor file: %v", err)
	}

	fmt.Printf("Decoded %d profiles (%d points each, format v%d)\n",
		data.ProfileCount(), data.Header.PointsPerProfile, data.Header.Version)
	for _, warning := range data.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	if data.ProfileCount() == 0 {
		log.Fatal("No profiles decoded; nothing to analyze")
	}

	if *rewritePath != "" {
		// A decoded file contains only the cleanly parsed profiles, so
		// re-encoding salvages a file with a corrupt or truncated tail.
		if err := os.WriteFile(*rewritePath, profile.Encode(data), 0644); err != nil {
			log.Fatalf("Failed to rewrite sensor file: %v", err)
		}
		fmt.Printf("Re-encoded %d profiles to %s\n", data.ProfileCount(), *rewritePath)
	}

	profiles := data.Profiles
	if *profileIndex >= 0 {
		if *profileIndex >= data.ProfileCount() {
			log.Fatalf("Profile index %d out of range (file has %d profiles)", *profileIndex, data.ProfileCount())
		}
		profiles = profiles[*profileIndex : *profileIndex+1]
	}

	// Step 2-4: triangulate and detect per profile, tracking across frames
	fmt.Printf("Step 2: Analyzing %d profiles (expected diameter %.0f mm)...\n",
		len(profiles), expectedDiameter)

	detections := 0
	var previous *pipedetect.PipeDetection
	for _, p := range profiles {
		points := triangulateProfile(p, cfg)
		det := pipedetect.Detect(points, expectedDiameter, &pipedetect.Options{
			Previous:   previous,
			Tolerance:  cfg.Detection.ToleranceMm,
			Iterations: cfg.Detection.Iterations,
		})

		reportProfile(p, points, det, cfg.Output.Verbose)
		saveCharts(p.Index, points, det, *chartsDir, *imagesDir)

		if det != nil {
			detections++
			previous = det
		}
	}

	fmt.Printf("\nAnalysis completed in %.2f seconds\n", time.Since(startTime).Seconds())
	fmt.Printf("Pipe detected in %d of %d profiles\n", detections, len(profiles))
}

// triangulateProfile converts one decoded profile into world points,
// reconstructing a dense profile first when interpolation is enabled and
// the profile is sparse.
func triangulateProfile(p *profile.LaserProfile, cfg *config.Config) []models.Point3D {
	points := p.Points

	if cfg.Interpolation.Enabled && p.ValidCount < cfg.Interpolation.TargetResolution/4 {
		if cfg.Interpolation.Realistic {
			points = interpolation.CreateRealisticProfile(points, cfg.Interpolation.TargetResolution, cfg.Pose.ImageWidth)
		} else {
			points = interpolation.InterpolateProfile(points, cfg.Interpolation.TargetResolution, cfg.Pose.ImageWidth)
		}
	}

	dense := &profile.LaserProfile{Points: points}
	for _, pt := range points {
		if pt.Valid() {
			dense.ValidCount++
		}
	}

	columns, rows := dense.PixelCoords()
	return triangulation.Triangulate(columns, rows, &cfg.Pose)
}

// runSynthetic analyzes a generated pipe-on-seabed cross-section, which
// exercises the full pipeline without a sensor file.
func runSynthetic(cfg *config.Config, expectedDiameter float64, chartsDir, imagesDir string) {
	fmt.Printf("Generating synthetic cross-section (diameter %.0f mm)...\n", expectedDiameter)

	points := triangulation.GenerateSyntheticProfile(&cfg.Pose, expectedDiameter, 0, 400)
	det := pipedetect.Detect(points, expectedDiameter, &pipedetect.Options{
		Tolerance:  cfg.Detection.ToleranceMm,
		Iterations: cfg.Detection.Iterations,
	})

	reportProfile(&profile.LaserProfile{Index: 0}, points, det, true)
	saveCharts(0, points, det, chartsDir, imagesDir)
}

// reportProfile prints the per-profile outcome. Absence of a detection is
// a normal, expected state, not an error.
func reportProfile(p *profile.LaserProfile, points []models.Point3D, det *pipedetect.PipeDetection, verbose bool) {
	if det == nil {
		if verbose {
			fmt.Printf("Profile %4d: %4d points, no pipe detected\n", p.Index, len(points))
		}
		return
	}

	fmt.Printf("Profile %4d: %4d points, pipe at (%.1f, %.1f) mm, diameter %.1f mm, rms %.2f mm, inliers [%d..%d]\n",
		p.Index, len(points), det.CenterX, det.CenterZ, det.Diameter, det.RMS, det.InlierStart, det.InlierEnd)
}

// saveCharts writes the optional HTML and PNG cross-section exports.
func saveCharts(index int, points []models.Point3D, det *pipedetect.PipeDetection, chartsDir, imagesDir string) {
	if len(points) == 0 {
		return
	}
	title := fmt.Sprintf("profile %d", index)

	if chartsDir != "" {
		if err := os.MkdirAll(chartsDir, 0755); err != nil {
			log.Printf("Warning: failed to create charts directory: %v", err)
		} else {
			path := filepath.Join(chartsDir, fmt.Sprintf("profile_%04d.html", index))
			if err := visualization.SaveCrossSectionHTML(path, points, det, title); err != nil {
				log.Printf("Warning: failed to save chart for profile %d: %v", index, err)
			}
		}
	}

	if imagesDir != "" {
		if err := os.MkdirAll(imagesDir, 0755); err != nil {
			log.Printf("Warning: failed to create images directory: %v", err)
		} else {
			path := filepath.Join(imagesDir, fmt.Sprintf("profile_%04d.png", index))
			if err := visualization.SaveCrossSectionPNG(path, points, det, title); err != nil {
				log.Printf("Warning: failed to save image for profile %d: %v", index, err)
			}
		}
	}
}
