package interpolation

import (
	"math"
	"sort"

	"github.com/cbailey25/Laser-Anaylzer-Tool/pkg/profile"
)

// CreateRealisticProfile reconstructs a dense profile of targetResolution
// columns by Gaussian-kernel weighted averaging over all valid source
// points. Compared to InterpolateProfile this trades edge preservation for
// a smoother, noise-like reconstruction that reads more like a real dense
// scan; it is the variant of choice for display and synthetic data.
//
// Source columns are rescaled into dense coordinates using imageWidth as
// the addressable sensor width (falling back to the maximum observed
// column when imageWidth is not positive). The kernel width adapts to
// point density:
//
//	sigma = targetResolution / (4 × sourceCount)
//
// so sparse profiles get broad smoothing and dense ones stay sharp. A
// dense column is valid iff its weighted width rounds above zero.
func CreateRealisticProfile(points []profile.ProfilePoint, targetResolution, imageWidth int) []profile.ProfilePoint {
	dense := emptyProfile(targetResolution)
	if targetResolution <= 0 {
		return dense
	}

	valid := make([]profile.ProfilePoint, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return dense
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Column < valid[j].Column })

	// Rescale source columns into dense coordinates.
	span := imageWidth - 1
	if span <= 0 {
		span = valid[len(valid)-1].Column
	}
	scale := 1.0
	if span > 0 {
		scale = float64(targetResolution-1) / float64(span)
	}
	positions := make([]float64, len(valid))
	for i, p := range valid {
		positions[i] = float64(p.Column) * scale
	}

	sigma := float64(targetResolution) / (4.0 * float64(len(valid)))
	if sigma <= 0 {
		sigma = 1
	}
	twoSigmaSq := 2 * sigma * sigma

	for c := 0; c < targetResolution; c++ {
		var weightSum, ySum, intensitySum, widthSum float64

		for i, p := range valid {
			d := float64(c) - positions[i]
			w := math.Exp(-d * d / twoSigmaSq)

			weightSum += w
			ySum += w * p.YOffset
			intensitySum += w * float64(p.Intensity)
			widthSum += w * float64(p.Width)
		}

		if weightSum == 0 {
			// Kernel underflowed: too far from every source point to
			// carry any signal, leave the column invalid.
			continue
		}

		dense[c] = profile.ProfilePoint{
			Column:    c,
			YOffset:   ySum / weightSum,
			Intensity: clampByte(intensitySum / weightSum),
			Width:     clampByte(widthSum / weightSum),
		}
	}

	return dense
}
