package models

import (
	"math"
)

// Point3D is a triangulated sensor sample in world coordinates.
// All components are in millimetres.
type Point3D struct {
	// X is the cross-track position (positive to the sensor's right)
	X float64

	// Y is the elevation above the world origin
	Y float64

	// Z is the depth; larger values are farther from the camera
	Z float64
}

// DistanceXZ returns the distance between two points projected onto the
// cross-section (XZ) plane. Pipe cross-sections are circles in this plane,
// so fitting and inlier tests work on this distance rather than the full
// 3D distance.
func (p Point3D) DistanceXZ(q Point3D) float64 {
	dx := p.X - q.X
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dz*dz)
}
