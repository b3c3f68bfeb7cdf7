package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
)

func TestPlane_Intersect(t *testing.T) {
	tests := []struct {
		name          string
		plane         Plane
		origin        core.Vec3
		direction     core.Vec3
		expectHit     bool
		expectedT     float64
		expectedFront bool
		expectedN     core.Vec3
	}{
		{
			name:          "hit from front",
			plane:         DefaultPlane(),
			origin:        core.NewVec3(0, 0, 1),
			direction:     core.NewVec3(0, 0, -1),
			expectHit:     true,
			expectedT:     1,
			expectedFront: true,
			expectedN:     core.NewVec3(0, 0, 1),
		},
		{
			name:          "two-sided hit from behind keeps normal",
			plane:         DefaultPlane(),
			origin:        core.NewVec3(0.2, 0.2, -2),
			direction:     core.NewVec3(0, 0, 1),
			expectHit:     true,
			expectedT:     2,
			expectedFront: false,
			expectedN:     core.NewVec3(0, 0, 1),
		},
		{
			name:          "one-sided hit from behind flips normal",
			plane:         NewOneSidedPlane(core.NewVec2(1, 1)),
			origin:        core.NewVec3(0, 0, -1),
			direction:     core.NewVec3(0, 0, 1),
			expectHit:     true,
			expectedT:     1,
			expectedFront: false,
			expectedN:     core.NewVec3(0, 0, -1),
		},
		{
			name:      "parallel ray misses",
			plane:     DefaultPlane(),
			origin:    core.NewVec3(-1, 0, 0),
			direction: core.NewVec3(1, 0, 0),
		},
		{
			name:      "outside extent misses",
			plane:     DefaultPlane(),
			origin:    core.NewVec3(0.6, 0, 1),
			direction: core.NewVec3(0, 0, -1),
		},
		{
			name:      "hit behind origin misses",
			plane:     DefaultPlane(),
			origin:    core.NewVec3(0, 0, 1),
			direction: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.direction)
			isect, ok := tt.plane.Intersect(ray)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if tt.plane.Intersects(ray) != ok {
				t.Error("Intersects disagrees with Intersect")
			}
			if !ok {
				return
			}
			if math.Abs(isect.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, isect.T)
			}
			if isect.Front != tt.expectedFront {
				t.Errorf("Expected front=%v, got %v", tt.expectedFront, isect.Front)
			}
			if !vecNear(isect.N, tt.expectedN, tolerance) {
				t.Errorf("Expected normal %v, got %v", tt.expectedN, isect.N)
			}
		})
	}
}

func TestPlane_UV(t *testing.T) {
	plane := NewPlane(core.NewVec2(2, 4))
	ray := core.NewRay(core.NewVec3(-1, 2, 1), core.NewVec3(0, 0, -1))

	isect, ok := plane.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit on the plane corner")
	}
	// u is mirrored across the plane
	if math.Abs(isect.UV.X-1) > tolerance || math.Abs(isect.UV.Y-1) > tolerance {
		t.Errorf("Expected UV (1, 1), got %v", isect.UV)
	}
}

func TestPlane_ClipRange(t *testing.T) {
	plane := DefaultPlane()
	ray := core.NewRaySegment(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1), 0, 10)

	t0, t1, ok := plane.ClipRange(ray)
	if !ok || math.Abs(t0-2) > tolerance || math.Abs(t1-10) > tolerance {
		t.Errorf("Expected [2, 10], got [%f, %f] ok=%v", t0, t1, ok)
	}
}
