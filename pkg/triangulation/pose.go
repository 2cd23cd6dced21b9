// Package triangulation converts decoded laser profile pixels into 3D
// world points by intersecting per-pixel camera rays with the laser's
// world plane, under a calibrated camera and laser pose.
package triangulation

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rig mounting conventions. These encode how the sensor is physically
// assembled and must be reproduced exactly for output compatibility with
// the rig's own software.
const (
	// PitchSign is applied to the pitch angle before building a rotation.
	// The rig reports pitch in its natural look-down sense, which is the
	// opposite of the right-handed rotation about X used here, so the
	// angle is negated before conversion to radians.
	PitchSign = -1.0

	// DefaultImageHeight is assumed when the pose does not carry the
	// sensor's image height, so the principal point stays defined.
	DefaultImageHeight = 1024
)

// LaserPlaneLocalNormal is the laser plane normal in the laser's own
// frame. The fan is modelled as lying in the local XY plane emitting
// along +Z; the 90 degree mounting rotation of the laser head flips the
// effective normal to -Y.
var LaserPlaneLocalNormal = [3]float64{0, -1, 0}

// Pose is a 6-DOF position and orientation of one rig component relative
// to the common world frame. Positions are in millimetres, angles in
// degrees.
type Pose struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`

	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
	Yaw   float64 `yaml:"yaw"`
}

// PoseConfig is the static camera and laser calibration supplied with
// every triangulation call. The caller owns it; Triangulate never
// modifies it.
type PoseConfig struct {
	// Camera is the camera's world pose
	Camera Pose `yaml:"camera"`

	// Laser is the laser emitter's world pose
	Laser Pose `yaml:"laser"`

	// FocalLengthMm is the lens focal length in millimetres
	FocalLengthMm float64 `yaml:"focalLengthMm"`

	// PixelSizeUm is the sensor pixel pitch in micrometres
	PixelSizeUm float64 `yaml:"pixelSizeUm"`

	// ImageWidth and ImageHeight are the sensor resolution in pixels.
	// A missing height falls back to DefaultImageHeight.
	ImageWidth  int `yaml:"imageWidth"`
	ImageHeight int `yaml:"imageHeight"`
}

// rotationMatrix builds the world orientation for a pose: rotations about
// X (pitch, sign-flipped per PitchSign), then Y (yaw), then Z (roll),
// composed in X-Y-Z intrinsic order.
func rotationMatrix(p Pose) *mat.Dense {
	pitch := PitchSign * p.Pitch * math.Pi / 180
	yaw := p.Yaw * math.Pi / 180
	roll := p.Roll * math.Pi / 180

	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)
	cr, sr := math.Cos(roll), math.Sin(roll)

	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cp, -sp,
		0, sp, cp,
	})
	ry := mat.NewDense(3, 3, []float64{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	})
	rz := mat.NewDense(3, 3, []float64{
		cr, -sr, 0,
		sr, cr, 0,
		0, 0, 1,
	})

	var rxy, rot mat.Dense
	rxy.Mul(rx, ry)
	rot.Mul(&rxy, rz)
	return &rot
}

// rotate applies a rotation matrix to a vector.
func rotate(r *mat.Dense, v [3]float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(r, mat.NewVecDense(3, v[:]))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// laserPlane returns the laser plane in world terms: its unit normal and
// its anchor point (the laser's world position).
func laserPlane(pose *PoseConfig) (normal, anchor [3]float64) {
	rot := rotationMatrix(pose.Laser)
	normal = normalize(rotate(rot, LaserPlaneLocalNormal))
	anchor = [3]float64{pose.Laser.X, pose.Laser.Y, pose.Laser.Z}
	return normal, anchor
}
