package triangulation

import (
	"math"

	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
)

// Synthetic scene parameters for the demo point cloud.
const (
	// SyntheticSeabedDepth is the seabed's depth below (in front of) the
	// camera, in millimetres.
	SyntheticSeabedDepth = 2000.0

	// syntheticSpanFactor scales the pipe diameter into the cross-track
	// extent covered by the synthetic profile.
	syntheticSpanFactor = 4.0

	// Seabed texture: a low-amplitude deterministic ripple so the demo
	// cloud is not a perfect line.
	syntheticTextureAmplitude  = 4.0  // mm
	syntheticTextureWavelength = 90.0 // mm
)

// GenerateSyntheticProfile produces a closed-form pipe-on-seabed
// cross-section for demos and tests, with no file input required.
//
// numPoints samples are spread uniformly across a cross-track extent of
// syntheticSpanFactor times the pipe diameter, centred on offsetX. Inside
// the pipe's footprint the depth follows the upper semicircular arc of a
// pipe resting on the seabed (the arc bulges toward the camera); outside
// it, the depth is the seabed plus a small sinusoidal texture. The seabed
// lies SyntheticSeabedDepth in front of the camera.
//
// Each point's elevation is back-solved from the laser plane equation, so
// the synthetic cloud is self-consistent with the same geometric model
// Triangulate uses: every returned point lies exactly on the laser plane.
func GenerateSyntheticProfile(pose *PoseConfig, diameterMm, offsetX float64, numPoints int) []models.Point3D {
	if numPoints <= 0 || diameterMm <= 0 || pose == nil {
		return nil
	}

	radius := diameterMm / 2
	seabedZ := pose.Camera.Z + SyntheticSeabedDepth
	pipeCentreZ := seabedZ - radius

	span := syntheticSpanFactor * diameterMm
	x0 := offsetX - span/2

	normal, anchor := laserPlane(pose)

	points := make([]models.Point3D, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		frac := 0.0
		if numPoints > 1 {
			frac = float64(i) / float64(numPoints-1)
		}
		x := x0 + frac*span

		var z float64
		dx := x - offsetX
		if math.Abs(dx) < radius {
			// Upper arc of the pipe: closer to the camera than its centre.
			z = pipeCentreZ - math.Sqrt(radius*radius-dx*dx)
		} else {
			z = seabedZ + syntheticTextureAmplitude*math.Sin(x/syntheticTextureWavelength*2*math.Pi)
		}

		points = append(points, models.Point3D{X: x, Y: solvePlaneY(normal, anchor, x, z), Z: z})
	}

	return points
}

// solvePlaneY back-solves the elevation that places (x, y, z) on the laser
// plane. A plane parallel to Y (normal.Y == 0) cannot constrain the
// elevation; the anchor's elevation is used then.
func solvePlaneY(normal, anchor [3]float64, x, z float64) float64 {
	if math.Abs(normal[1]) < planeEpsilon {
		return anchor[1]
	}
	// normal . (p - anchor) = 0, solved for p.Y.
	return anchor[1] - (normal[0]*(x-anchor[0])+normal[2]*(z-anchor[2]))/normal[1]
}
