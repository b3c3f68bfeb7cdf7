package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
)

const tolerance = 1e-9

func vecNear(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	if isect, ok := sphere.Intersect(ray); ok {
		t.Errorf("Expected miss, but got hit at t=%f", isect.T)
	}
	if sphere.Intersects(ray) {
		t.Error("Intersects disagrees with Intersect")
	}
}

func TestSphere_Intersect_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(1.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			isect, ok := sphere.Intersect(ray)
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(isect.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, isect.T)
			}
			if isect.Front != tt.expectedFront {
				t.Errorf("Expected front=%v, got %v", tt.expectedFront, isect.Front)
			}
			if !vecNear(isect.N, tt.expectedNormal, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, isect.N)
			}
		})
	}
}

func TestSphere_Intersect_RespectsRange(t *testing.T) {
	sphere := NewSphere(1.0)
	ray := core.NewRaySegment(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 0, 3.5)

	if sphere.Intersects(ray) {
		t.Error("Hit beyond MaxT should be rejected")
	}

	ray.MaxT = 4.5
	isect, ok := sphere.Intersect(ray)
	if !ok || math.Abs(isect.T-4) > tolerance {
		t.Errorf("Expected hit at t=4, got %v (ok=%v)", isect.T, ok)
	}
}

func TestSphere_ClipRange(t *testing.T) {
	sphere := NewSphere(2.0)
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	t0, t1, ok := sphere.ClipRange(ray)
	if !ok {
		t.Fatal("Expected the ray to cross the sphere")
	}
	if math.Abs(t0-3) > tolerance || math.Abs(t1-7) > tolerance {
		t.Errorf("Expected [3, 7], got [%f, %f]", t0, t1)
	}
}

func TestSphere_Inside(t *testing.T) {
	sphere := NewSphere(1.0)
	if !sphere.Inside(core.NewVec3(0.5, 0, 0)) {
		t.Error("Point at half radius should be inside")
	}
	if sphere.Inside(core.NewVec3(0, 1.5, 0)) {
		t.Error("Point outside radius should not be inside")
	}
}
