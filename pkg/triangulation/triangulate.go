package triangulation

import (
	"github.com/cbailey25/Laser-Anaylzer-Tool/internal/models"
)

// planeEpsilon is the smallest ray/plane denominator treated as an
// intersection; rays closer to parallel with the laser plane miss.
const planeEpsilon = 1e-12

// Triangulate computes 3D world points for a profile's valid pixel
// coordinates under the given pose.
//
// The camera is a pinhole with its principal point at the image centre.
// For each (column, row) pixel pair a camera-local ray is built, rotated
// into the world frame by the camera's orientation, and intersected with
// the laser's world plane. An intersection is accepted only when it lies
// in front of the camera, i.e. its depth exceeds the camera's own z;
// pixels whose rays miss the plane or land behind the camera produce no
// output sample and no error.
//
// The output preserves the order of accepted inputs but is not
// index-aligned with them: dropped pixels shift it. Callers that need
// alignment must track validity themselves.
func Triangulate(columns []int, rows []float64, pose *PoseConfig) []models.Point3D {
	n := len(columns)
	if len(rows) < n {
		n = len(rows)
	}
	if n == 0 || pose == nil || pose.FocalLengthMm == 0 {
		return nil
	}

	height := pose.ImageHeight
	if height <= 0 {
		height = DefaultImageHeight
	}
	cx := float64(pose.ImageWidth) / 2
	cy := float64(height) / 2
	pxMm := pose.PixelSizeUm / 1000.0

	camRot := rotationMatrix(pose.Camera)
	camPos := [3]float64{pose.Camera.X, pose.Camera.Y, pose.Camera.Z}
	normal, anchor := laserPlane(pose)

	toAnchor := [3]float64{anchor[0] - camPos[0], anchor[1] - camPos[1], anchor[2] - camPos[2]}
	planeOffset := dot(normal, toAnchor)

	points := make([]models.Point3D, 0, n)
	for i := 0; i < n; i++ {
		u := float64(columns[i])
		v := rows[i]

		// Camera-local ray through the pixel. Image rows grow downward,
		// so increasing v maps to decreasing local Y.
		local := normalize([3]float64{
			(u - cx) * pxMm / pose.FocalLengthMm,
			(cy - v) * pxMm / pose.FocalLengthMm,
			1,
		})
		dir := rotate(camRot, local)

		denom := dot(normal, dir)
		if denom > -planeEpsilon && denom < planeEpsilon {
			continue // ray parallel to the laser plane
		}

		t := planeOffset / denom
		p := models.Point3D{
			X: camPos[0] + t*dir[0],
			Y: camPos[1] + t*dir[1],
			Z: camPos[2] + t*dir[2],
		}

		// Depth filter: the lit surface must be in front of the camera.
		if p.Z <= camPos[2] {
			continue
		}

		points = append(points, p)
	}

	return points
}
