// Package interpolation reconstructs dense per-column laser profiles from
// sparse sensor samples. Some rigs report only a handful of columns (for
// example 8) out of a much larger addressable width (for example 2048);
// downstream geometry and display want a value for every column.
//
// Two reconstructions are provided: an edge-preserving cubic Hermite fill
// (InterpolateProfile) and a smoother Gaussian-kernel weighted average
// (CreateRealisticProfile). Both are pure functions of their inputs.
package interpolation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/profile"
)

// InterpolateProfile reconstructs a dense profile of targetResolution
// columns from the valid points of a sparse profile.
//
// Valid source points are sorted by column and their column indices are
// rescaled linearly so the largest observed column maps to the last dense
// column. The scaled points are placed directly; columns between two
// scaled points are filled with a cubic Hermite interpolation of yOffset
// (tangents estimated from the neighboring scaled points) and linear
// interpolation of intensity and width, both clamped to [0, 255]. A filled
// column is valid iff its interpolated width rounds above zero. Columns
// before the first scaled point or after the last hold that nearest
// point's values constant rather than extrapolating the curve.
//
// imageWidth is the sensor's addressable width; it only matters for the
// Gaussian variant (see CreateRealisticProfile) and is accepted here so
// both reconstructions share a signature.
func InterpolateProfile(points []profile.ProfilePoint, targetResolution, imageWidth int) []profile.ProfilePoint {
	dense := emptyProfile(targetResolution)
	if targetResolution <= 0 {
		return dense
	}

	src := scaleValidPoints(points, targetResolution)
	if len(src) == 0 {
		return dense
	}

	// Place the scaled source points directly so no measured sample is
	// altered by the fill.
	for _, s := range src {
		dense[s.column] = profile.ProfilePoint{
			Column:    s.column,
			YOffset:   s.yOffset,
			Intensity: clampByte(s.intensity),
			Width:     clampByte(s.width),
		}
	}

	// Constant-hold extrapolation outside the observed span.
	first, last := src[0], src[len(src)-1]
	for c := 0; c < first.column; c++ {
		dense[c] = profile.ProfilePoint{Column: c, YOffset: first.yOffset,
			Intensity: clampByte(first.intensity), Width: clampByte(first.width)}
	}
	for c := last.column + 1; c < targetResolution; c++ {
		dense[c] = profile.ProfilePoint{Column: c, YOffset: last.yOffset,
			Intensity: clampByte(last.intensity), Width: clampByte(last.width)}
	}

	if len(src) < 2 {
		return dense
	}

	// Cubic Hermite fill of yOffset between scaled points, with tangents
	// from central differences of the neighbors.
	xs := make([]float64, len(src))
	ys := make([]float64, len(src))
	for i, s := range src {
		xs[i] = float64(s.column)
		ys[i] = s.yOffset
	}
	// xs is sorted, deduplicated and at least two long, which is all the
	// fit requires.
	var spline interp.PiecewiseCubic
	spline.FitWithDerivatives(xs, ys, centralDifferences(xs, ys))

	for i := 0; i < len(src)-1; i++ {
		a, b := src[i], src[i+1]
		span := float64(b.column - a.column)
		if span <= 0 {
			continue
		}

		for c := a.column + 1; c < b.column; c++ {
			t := (float64(c) - float64(a.column)) / span
			width := a.width + t*(b.width-a.width)
			intensity := a.intensity + t*(b.intensity-a.intensity)

			dense[c] = profile.ProfilePoint{
				Column:    c,
				YOffset:   spline.Predict(float64(c)),
				Intensity: clampByte(intensity),
				Width:     clampByte(width),
			}
		}
	}

	return dense
}

// scaledPoint is a valid source sample after column rescaling.
type scaledPoint struct {
	column    int
	yOffset   float64
	intensity float64
	width     float64
}

// scaleValidPoints filters to valid points, sorts them by column and
// rescales their columns so the maximum observed column lands on the last
// dense column. When two source points collapse onto the same dense column
// the first one wins.
func scaleValidPoints(points []profile.ProfilePoint, targetResolution int) []scaledPoint {
	valid := make([]profile.ProfilePoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Column < valid[j].Column })

	maxColumn := valid[len(valid)-1].Column
	scale := 1.0
	if maxColumn > 0 {
		scale = float64(targetResolution-1) / float64(maxColumn)
	}

	src := make([]scaledPoint, 0, len(valid))
	for _, p := range valid {
		column := int(math.Round(float64(p.Column) * scale))
		if column < 0 {
			column = 0
		}
		if column >= targetResolution {
			column = targetResolution - 1
		}
		if len(src) > 0 && src[len(src)-1].column == column {
			continue
		}
		src = append(src, scaledPoint{
			column:    column,
			yOffset:   p.YOffset,
			intensity: float64(p.Intensity),
			width:     float64(p.Width),
		})
	}

	return src
}

// centralDifferences estimates tangents for the Hermite fill from the
// neighboring samples; the endpoints use one-sided differences.
func centralDifferences(xs, ys []float64) []float64 {
	n := len(xs)
	d := make([]float64, n)
	if n < 2 {
		return d
	}

	d[0] = (ys[1] - ys[0]) / (xs[1] - xs[0])
	d[n-1] = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
	for i := 1; i < n-1; i++ {
		d[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
	}

	return d
}

// emptyProfile builds an all-invalid dense profile of the given width.
func emptyProfile(targetResolution int) []profile.ProfilePoint {
	if targetResolution < 0 {
		targetResolution = 0
	}
	dense := make([]profile.ProfilePoint, targetResolution)
	for c := range dense {
		dense[c].Column = c
	}
	return dense
}

// clampByte rounds an interpolated channel value into the sensor's 0-255
// range.
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
