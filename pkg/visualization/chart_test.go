package visualization

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/pipedetect"
)

// testCloud builds a small arc-plus-seabed cross-section for rendering.
func testCloud() []models.Point3D {
	points := make([]models.Point3D, 0, 60)
	for i := 0; i < 30; i++ {
		phi := (-60.0 + 120.0*float64(i)/29.0) * math.Pi / 180
		points = append(points, models.Point3D{X: 100 * math.Sin(phi), Z: 500 - 100*math.Cos(phi)})
	}
	for i := 0; i < 30; i++ {
		points = append(points, models.Point3D{X: -300 + 600*float64(i)/29.0, Z: 650})
	}
	return points
}

func testDetection() *pipedetect.PipeDetection {
	return &pipedetect.PipeDetection{
		CircleFit: pipedetect.CircleFit{CenterX: 0, CenterZ: 500, Radius: 100, RMS: 0.4},
		Diameter:  200,
	}
}

func TestRenderCrossSection(t *testing.T) {
	var buf bytes.Buffer

	if err := RenderCrossSection(&buf, testCloud(), testDetection(), "profile 0"); err != nil {
		t.Fatalf("RenderCrossSection failed: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "profile") {
		t.Error("chart should contain the profile series")
	}
	if !strings.Contains(html, "fitted pipe") {
		t.Error("chart should contain the fitted circle overlay")
	}
}

func TestRenderCrossSectionWithoutDetection(t *testing.T) {
	var buf bytes.Buffer

	if err := RenderCrossSection(&buf, testCloud(), nil, "profile 0"); err != nil {
		t.Fatalf("RenderCrossSection without detection failed: %v", err)
	}

	if strings.Contains(buf.String(), "fitted pipe") {
		t.Error("no-detection chart should not draw a circle overlay")
	}
}

func TestRenderCrossSectionEmptyInput(t *testing.T) {
	var buf bytes.Buffer

	if err := RenderCrossSection(&buf, nil, nil, "empty"); err == nil {
		t.Error("expected an error for an empty point cloud")
	}
}

func TestSaveCrossSectionHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "section.html")

	if err := SaveCrossSectionHTML(path, testCloud(), testDetection(), "profile 0"); err != nil {
		t.Fatalf("SaveCrossSectionHTML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected chart file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file should not be empty")
	}
}

func TestSaveCrossSectionPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "section.png")

	if err := SaveCrossSectionPNG(path, testCloud(), testDetection(), "profile 0"); err != nil {
		t.Fatalf("SaveCrossSectionPNG failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected image file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("image file should not be empty")
	}
}
