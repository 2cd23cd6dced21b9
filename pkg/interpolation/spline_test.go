package interpolation

import (
	"math"
	"testing"

	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/profile"
)

// sparseProfile builds a sparse profile with valid points at the given
// columns. yOffsets follow a known linear ramp so interpolation results
// are easy to predict.
func sparseProfile(columns []int, yOffsets []float64) []profile.ProfilePoint {
	points := make([]profile.ProfilePoint, len(columns))
	for i, c := range columns {
		points[i] = profile.ProfilePoint{
			Column:    c,
			YOffset:   yOffsets[i],
			Intensity: 128,
			Width:     4,
		}
	}
	return points
}

func TestInterpolateProfileDimensions(t *testing.T) {
	points := sparseProfile([]int{0, 2, 4, 7}, []float64{10, 12, 14, 17})

	dense := InterpolateProfile(points, 64, 8)

	if len(dense) != 64 {
		t.Fatalf("expected 64 dense columns, got %d", len(dense))
	}

	for c, p := range dense {
		if p.Column != c {
			t.Fatalf("dense column %d carries index %d", c, p.Column)
		}
	}
}

// TestInterpolateProfilePreservesSources verifies that scaled source points
// are placed directly: the maximum observed column must land on the last
// dense column with its original values.
func TestInterpolateProfilePreservesSources(t *testing.T) {
	points := sparseProfile([]int{0, 7}, []float64{10, 20})

	dense := InterpolateProfile(points, 64, 8)

	if dense[0].YOffset != 10 {
		t.Errorf("first source point not preserved: got %v", dense[0].YOffset)
	}
	if dense[63].YOffset != 20 {
		t.Errorf("last source point not mapped to final column: got %v", dense[63].YOffset)
	}
}

// TestInterpolateProfileMonotonicRamp checks that a linear ramp of source
// yOffsets interpolates to values inside the ramp, in increasing order.
// The Hermite fill with central-difference tangents reproduces straight
// lines exactly, so intermediate values must stay between the endpoints.
func TestInterpolateProfileMonotonicRamp(t *testing.T) {
	points := sparseProfile([]int{0, 2, 4, 6}, []float64{0, 20, 40, 60})

	dense := InterpolateProfile(points, 61, 8)

	prev := dense[0].YOffset
	for c := 1; c <= 60; c++ {
		y := dense[c].YOffset
		if y < prev-1e-9 {
			t.Fatalf("ramp not monotonic at column %d: %v after %v", c, y, prev)
		}
		if y < -1e-9 || y > 60+1e-9 {
			t.Fatalf("interpolated value %v outside source range at column %d", y, c)
		}
		prev = y
	}

	// A straight ramp should interpolate linearly: the midpoint of the
	// dense profile sits at the midpoint of the ramp.
	mid := dense[30].YOffset
	if math.Abs(mid-30) > 1e-6 {
		t.Errorf("expected linear fill midpoint 30, got %v", mid)
	}
}

func TestInterpolateProfileEdgeExtrapolation(t *testing.T) {
	// Valid data only between columns 3 and 5 of an 8 column sensor.
	points := sparseProfile([]int{3, 5}, []float64{100, 120})

	dense := InterpolateProfile(points, 80, 8)

	firstScaled := int(math.Round(3.0 * 79.0 / 5.0))

	// Columns before the first scaled point hold its value constant.
	for c := 0; c < firstScaled; c++ {
		if dense[c].YOffset != 100 {
			t.Fatalf("column %d should hold first sample's yOffset 100, got %v", c, dense[c].YOffset)
		}
		if !dense[c].Valid() {
			t.Fatalf("extrapolated column %d should inherit validity", c)
		}
	}

	// Last scaled point maps to the final column.
	if dense[79].YOffset != 120 {
		t.Errorf("final column should carry last sample's yOffset, got %v", dense[79].YOffset)
	}
}

func TestInterpolateProfileNoValidPoints(t *testing.T) {
	points := []profile.ProfilePoint{
		{Column: 0, YOffset: 5, Width: 0},
		{Column: 1, YOffset: 6, Width: 0},
	}

	dense := InterpolateProfile(points, 16, 8)

	if len(dense) != 16 {
		t.Fatalf("expected 16 columns, got %d", len(dense))
	}
	for _, p := range dense {
		if p.Valid() {
			t.Fatal("profile with no valid sources must interpolate to all-invalid")
		}
	}
}

func TestInterpolateProfileSinglePoint(t *testing.T) {
	points := sparseProfile([]int{4}, []float64{42})

	dense := InterpolateProfile(points, 32, 8)

	// One source point: every column holds it constant.
	for c, p := range dense {
		if p.YOffset != 42 {
			t.Fatalf("column %d: expected constant 42, got %v", c, p.YOffset)
		}
	}
}

// TestInterpolateProfileDeterministic checks purity: the same input must
// produce the same output on repeated calls.
func TestInterpolateProfileDeterministic(t *testing.T) {
	points := sparseProfile([]int{0, 3, 5, 7}, []float64{1, 4, 9, 16})

	a := InterpolateProfile(points, 128, 8)
	b := InterpolateProfile(points, 128, 8)

	for c := range a {
		if a[c] != b[c] {
			t.Fatalf("interpolation not deterministic at column %d", c)
		}
	}
}

func TestCreateRealisticProfileSmoothness(t *testing.T) {
	points := sparseProfile([]int{0, 2, 4, 6, 7}, []float64{50, 52, 54, 56, 57})

	dense := CreateRealisticProfile(points, 256, 8)

	if len(dense) != 256 {
		t.Fatalf("expected 256 columns, got %d", len(dense))
	}

	// Weighted averages can never leave the source value range.
	for c, p := range dense {
		if !p.Valid() {
			continue
		}
		if p.YOffset < 50-1e-9 || p.YOffset > 57+1e-9 {
			t.Fatalf("column %d: value %v outside source range [50, 57]", c, p.YOffset)
		}
	}

	// Adjacent columns should differ only slightly: the adaptive kernel
	// (sigma = 256 / (4*5) = 12.8) spans many columns.
	for c := 1; c < 256; c++ {
		if !dense[c].Valid() || !dense[c-1].Valid() {
			continue
		}
		step := math.Abs(dense[c].YOffset - dense[c-1].YOffset)
		if step > 1.0 {
			t.Fatalf("column %d: step %v too large for Gaussian reconstruction", c, step)
		}
	}
}

func TestCreateRealisticProfileEmptyInput(t *testing.T) {
	dense := CreateRealisticProfile(nil, 32, 8)

	for _, p := range dense {
		if p.Valid() {
			t.Fatal("empty input must produce an all-invalid profile")
		}
	}
}

func BenchmarkInterpolateProfile(b *testing.B) {
	columns := make([]int, 8)
	yOffsets := make([]float64, 8)
	for i := range columns {
		columns[i] = i
		yOffsets[i] = 100 + 5*float64(i)
	}
	points := sparseProfile(columns, yOffsets)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		InterpolateProfile(points, 2048, 8)
	}
}

func BenchmarkCreateRealisticProfile(b *testing.B) {
	columns := make([]int, 8)
	yOffsets := make([]float64, 8)
	for i := range columns {
		columns[i] = i
		yOffsets[i] = 100 + 5*float64(i)
	}
	points := sparseProfile(columns, yOffsets)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		CreateRealisticProfile(points, 2048, 8)
	}
}
