package models

import (
	"math"
	"testing"
)

func TestDistanceXZ(t *testing.T) {
	testCases := []struct {
		p, q     Point3D
		expected float64
	}{
		// Same point
		{Point3D{X: 1, Y: 2, Z: 3}, Point3D{X: 1, Y: 2, Z: 3}, 0},
		// Pure cross-track offset
		{Point3D{}, Point3D{X: 3}, 3},
		// Elevation must not contribute to the cross-section distance
		{Point3D{Y: 100}, Point3D{X: 3, Y: -100, Z: 4}, 5},
	}

	for i, tc := range testCases {
		got := tc.p.DistanceXZ(tc.q)
		if math.Abs(got-tc.expected) > 1e-12 {
			t.Errorf("case %d: expected distance %v, got %v", i, tc.expected, got)
		}
	}
}
