// Package pipedetect locates a pipe's circular cross-section in a
// triangulated profile point cloud. The detector runs a randomized
// hypothesize-and-test search seeded by an expected diameter, optionally
// biased toward the previous frame's detection, and refines the winning
// hypothesis with an algebraic least-squares circle fit.
package pipedetect

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
)

// Numerical cutoffs for the circle fits.
const (
	// collinearEpsilon rejects 3-point hypotheses whose perpendicular
	// bisector determinant is too small to define a circle.
	collinearEpsilon = 1e-6

	// singularEpsilon rejects algebraic refinements whose normal-equation
	// determinant vanishes.
	singularEpsilon = 1e-12
)

// CircleFit is a fitted circle in the cross-section (XZ) plane.
type CircleFit struct {
	// CenterX and CenterZ locate the circle's center in world mm
	CenterX float64
	CenterZ float64

	// Radius is the fitted radius in mm
	Radius float64

	// RMS is the root-mean-square distance-from-circle residual over the
	// points used by the fit, a fit-quality measure
	RMS float64
}

// PipeDetection is a circle fit accepted as a pipe cross-section.
type PipeDetection struct {
	CircleFit

	// Diameter is twice the fitted radius
	Diameter float64

	// InlierStart and InlierEnd bound the indices of the fit's inliers in
	// the source point sequence. The inliers are not necessarily
	// contiguous; this is the bounding span for downstream highlighting.
	InlierStart int
	InlierEnd   int
}

// circleThrough3 computes the unique circle through three cross-section
// points by intersecting perpendicular bisectors (the determinant form).
// Near-collinear triples do not define a circle and return ok = false.
func circleThrough3(p1, p2, p3 models.Point3D) (cx, cz, r float64, ok bool) {
	x1, z1 := p1.X, p1.Z
	x2, z2 := p2.X, p2.Z
	x3, z3 := p3.X, p3.Z

	det := 2 * (x1*(z2-z3) + x2*(z3-z1) + x3*(z1-z2))
	if math.Abs(det) < collinearEpsilon {
		return 0, 0, 0, false
	}

	sq1 := x1*x1 + z1*z1
	sq2 := x2*x2 + z2*z2
	sq3 := x3*x3 + z3*z3

	cx = (sq1*(z2-z3) + sq2*(z3-z1) + sq3*(z1-z2)) / det
	cz = (sq1*(x3-x2) + sq2*(x1-x3) + sq3*(x2-x1)) / det
	r = math.Hypot(x1-cx, z1-cz)

	return cx, cz, r, true
}

// fitCircleAlgebraic fits a circle to the given points by minimizing the
// algebraic residual sum Σ(x² + z² + Dx + Ez + F)². The 3×3 normal
// equation system for D, E, F is solved in closed form by determinant
// elimination; a near-singular system or a non-positive radius squared
// means the points do not determine a circle and returns ok = false.
func fitCircleAlgebraic(points []models.Point3D, indices []int) (CircleFit, bool) {
	if len(indices) < 3 {
		return CircleFit{}, false
	}

	var sx, sz, sxx, szz, sxz, sxq, szq, sq float64
	for _, i := range indices {
		x, z := points[i].X, points[i].Z
		s := x*x + z*z

		sx += x
		sz += z
		sxx += x * x
		szz += z * z
		sxz += x * z
		sxq += x * s
		szq += z * s
		sq += s
	}
	n := float64(len(indices))

	a := mat.NewDense(3, 3, []float64{
		sxx, sxz, sx,
		sxz, szz, sz,
		sx, sz, n,
	})
	det := mat.Det(a)
	if math.Abs(det) < singularEpsilon {
		return CircleFit{}, false
	}

	// Cramer's rule: replace each column of the system matrix with the
	// right-hand side (-Σx·s, -Σz·s, -Σs) in turn.
	d := mat.Det(mat.NewDense(3, 3, []float64{
		-sxq, sxz, sx,
		-szq, szz, sz,
		-sq, sz, n,
	})) / det
	e := mat.Det(mat.NewDense(3, 3, []float64{
		sxx, -sxq, sx,
		sxz, -szq, sz,
		sx, -sq, n,
	})) / det
	f := mat.Det(mat.NewDense(3, 3, []float64{
		sxx, sxz, -sxq,
		sxz, szz, -szq,
		sx, sz, -sq,
	})) / det

	radiusSq := (d*d+e*e)/4 - f
	if radiusSq <= 0 {
		return CircleFit{}, false
	}

	fit := CircleFit{
		CenterX: -d / 2,
		CenterZ: -e / 2,
		Radius:  math.Sqrt(radiusSq),
	}
	fit.RMS = rmsResidual(points, indices, fit)

	return fit, true
}

// rmsResidual computes the root-mean-square distance-from-circle residual
// of the indexed points against a fit.
func rmsResidual(points []models.Point3D, indices []int, fit CircleFit) float64 {
	if len(indices) == 0 {
		return 0
	}

	center := models.Point3D{X: fit.CenterX, Z: fit.CenterZ}

	squares := make([]float64, len(indices))
	for k, i := range indices {
		res := center.DistanceXZ(points[i]) - fit.Radius
		squares[k] = res * res
	}

	return math.Sqrt(floats.Sum(squares) / float64(len(indices)))
}
