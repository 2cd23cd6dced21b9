package pipedetect

import (
	"math"
	"math/rand"
	"time"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
)

// Detection parameters. Iteration count and tolerances follow the rig's
// tuned values; they balance per-frame responsiveness against robustness
// to seabed clutter.
const (
	// MinPoints is the smallest point cloud the detector will search.
	MinPoints = 15

	// MinInliers is the smallest inlier support an accepted fit may have.
	MinInliers = 15

	// DefaultIterations is the hypothesize-and-test budget per call.
	DefaultIterations = 100

	// DefaultTolerance is the inlier distance band around the hypothesis
	// circle, in mm.
	DefaultTolerance = 8.0

	// searchRadiusFactor scales the expected radius into the cross-track
	// search window around the previous detection's center.
	searchRadiusFactor = 1.5

	// minTrackedCandidates is the smallest candidate set the tracking
	// window may produce before the search falls back to the full cloud.
	minTrackedCandidates = 20

	// maxRadiusDeviation is the fraction of the expected radius a
	// hypothesis radius may deviate before rejection.
	maxRadiusDeviation = 0.25
)

// Options tunes a detection call. The zero value (or nil) applies the
// defaults: no temporal bias, DefaultTolerance, DefaultIterations, and an
// entropy-seeded random source.
type Options struct {
	// Previous biases the search toward the prior frame's detection.
	// It is caller-owned state: the detector reads it and never stores it.
	Previous *PipeDetection

	// Tolerance is the inlier distance band in mm; 0 means DefaultTolerance
	Tolerance float64

	// Iterations is the sampling budget; 0 means DefaultIterations
	Iterations int

	// Rand supplies the hypothesis sampling sequence. Tests inject a
	// fixed-seed source here to pin outcomes; nil seeds from the clock.
	Rand *rand.Rand
}

// Detect robustly fits a pipe cross-section of roughly expectedDiameter to
// a triangulated point cloud.
//
// The detector samples random 3-point circle hypotheses, keeps the one
// with the largest inlier support subject to the radius and center-depth
// gates, and refines it with an algebraic least-squares fit over its
// inliers. A nil result is a normal outcome, not an error: too few points,
// no hypothesis surviving the gates, too little inlier support, or a
// degenerate refinement all report "no detection".
//
// When opts.Previous is set, candidate points are restricted to a
// cross-track window of ±searchRadiusFactor·(expectedDiameter/2) around
// the previous center, which keeps the fit from jumping between seabed
// clutter and the pipe across consecutive profiles. The window is
// abandoned when it captures fewer than minTrackedCandidates points.
func Detect(points []models.Point3D, expectedDiameter float64, opts *Options) *PipeDetection {
	if len(points) < MinPoints || expectedDiameter <= 0 {
		return nil
	}

	if opts == nil {
		opts = &Options{}
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	expectedRadius := expectedDiameter / 2
	candidates := selectCandidates(points, expectedRadius, opts.Previous)

	best, ok := searchHypotheses(points, candidates, expectedRadius, tolerance, iterations, rng)
	if !ok {
		return nil
	}

	inliers := circleInliers(points, candidates, best, tolerance)
	if len(inliers) < MinInliers {
		return nil
	}

	fit, ok := fitCircleAlgebraic(points, inliers)
	if !ok {
		return nil
	}

	start, end := inliers[0], inliers[0]
	for _, i := range inliers[1:] {
		if i < start {
			start = i
		}
		if i > end {
			end = i
		}
	}

	return &PipeDetection{
		CircleFit:   fit,
		Diameter:    2 * fit.Radius,
		InlierStart: start,
		InlierEnd:   end,
	}
}

// selectCandidates picks the point indices the sampler may draw from.
// With a previous detection the search narrows to its cross-track
// neighborhood; otherwise (or when the window is too empty) every point is
// a candidate.
func selectCandidates(points []models.Point3D, expectedRadius float64, previous *PipeDetection) []int {
	if previous != nil {
		window := searchRadiusFactor * expectedRadius
		tracked := make([]int, 0, len(points))
		for i, p := range points {
			if math.Abs(p.X-previous.CenterX) <= window {
				tracked = append(tracked, i)
			}
		}
		if len(tracked) >= minTrackedCandidates {
			return tracked
		}
	}

	all := make([]int, len(points))
	for i := range all {
		all[i] = i
	}
	return all
}

// hypothesis is one candidate circle produced by the random search.
type hypothesis struct {
	cx, cz, r float64
}

// searchHypotheses runs the randomized hypothesize-and-test loop and
// returns the hypothesis with the largest inlier support, if any survived
// the gates.
func searchHypotheses(points []models.Point3D, candidates []int, expectedRadius, tolerance float64, iterations int, rng *rand.Rand) (hypothesis, bool) {
	var best hypothesis
	bestInliers := 0
	found := false

	for iter := 0; iter < iterations; iter++ {
		i1, i2, i3, ok := sampleTriple(candidates, rng)
		if !ok {
			break
		}

		cx, cz, r, ok := circleThrough3(points[i1], points[i2], points[i3])
		if !ok {
			continue
		}

		// Radius gate: the hypothesis must resemble the expected pipe.
		if math.Abs(r-expectedRadius) > maxRadiusDeviation*expectedRadius {
			continue
		}

		// Depth gate: the pipe bulges toward the camera, so the center
		// must lie behind (deeper than) the sampled arc points.
		if cz <= points[i1].Z || cz <= points[i2].Z || cz <= points[i3].Z {
			continue
		}

		h := hypothesis{cx: cx, cz: cz, r: r}
		support := len(circleInliers(points, candidates, h, tolerance))
		if support > bestInliers {
			best = h
			bestInliers = support
			found = true
		}
	}

	return best, found
}

// sampleTriple draws three pairwise-distinct candidate indices.
func sampleTriple(candidates []int, rng *rand.Rand) (i1, i2, i3 int, ok bool) {
	if len(candidates) < 3 {
		return 0, 0, 0, false
	}

	a := rng.Intn(len(candidates))
	b := rng.Intn(len(candidates))
	for b == a {
		b = rng.Intn(len(candidates))
	}
	c := rng.Intn(len(candidates))
	for c == a || c == b {
		c = rng.Intn(len(candidates))
	}

	return candidates[a], candidates[b], candidates[c], true
}

// circleInliers returns the candidate indices whose cross-section distance
// to the hypothesis center is within tolerance of the hypothesis radius.
func circleInliers(points []models.Point3D, candidates []int, h hypothesis, tolerance float64) []int {
	center := models.Point3D{X: h.cx, Z: h.cz}

	inliers := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if math.Abs(center.DistanceXZ(points[i])-h.r) <= tolerance {
			inliers = append(inliers, i)
		}
	}
	return inliers
}
