package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
)

func TestShape_TransformedSphere(t *testing.T) {
	tm := core.Translate(core.NewVec3(3, 0, 0)).Multiply(core.Scale(core.NewVec3(2, 2, 2)))
	shape := NewShape(NewSphere(1), Manual{TM: tm})

	if math.Abs(shape.Area()-16*math.Pi) > 1e-9 {
		t.Errorf("Expected area 16π, got %f", shape.Area())
	}

	ray := core.NewRay(core.NewVec3(10, 0, 0), core.NewVec3(-1, 0, 0))
	isect, ok := shape.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(isect.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", isect.T)
	}
	if !vecNear(isect.P, core.NewVec3(5, 0, 0), 1e-9) {
		t.Errorf("Expected world hit (5,0,0), got %v", isect.P)
	}
	if !vecNear(isect.N, core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected world normal (1,0,0), got %v", isect.N)
	}

	if !shape.Inside(core.NewVec3(4, 0, 0)) || shape.Inside(core.NewVec3(0, 0, 0)) {
		t.Error("Inside should test against the transformed sphere")
	}

	t0, t1, ok := shape.ClipRange(ray)
	if !ok || math.Abs(t0-5) > 1e-9 || math.Abs(t1-9) > 1e-9 {
		t.Errorf("Expected clip range [5, 9], got [%f, %f]", t0, t1)
	}
}

func TestShape_Alignments(t *testing.T) {
	tests := []struct {
		name      string
		alignment Alignment
		origin    core.Vec3
		direction core.Vec3
		expectedT float64
		expectedN core.Vec3
	}{
		{
			name:      "axis aligned to +y",
			alignment: AxisAlign{Axis: AxisY, Position: core.NewVec3(0, 1, 0)},
			origin:    core.NewVec3(0, 3, 0),
			direction: core.NewVec3(0, -1, 0),
			expectedT: 2,
			expectedN: core.NewVec3(0, 1, 0),
		},
		{
			name:      "axis aligned to x, flipped",
			alignment: AxisAlign{Axis: AxisX, AutoFlip: true},
			origin:    core.NewVec3(-2, 0, 0),
			direction: core.NewVec3(1, 0, 0),
			expectedT: 2,
			expectedN: core.NewVec3(-1, 0, 0),
		},
		{
			name:      "look at origin",
			alignment: LookAt{Position: core.NewVec3(0, 0, 5), Target: core.Vec3{}, Up: core.NewVec3(0, 1, 0)},
			origin:    core.Vec3{},
			direction: core.NewVec3(0, 0, 1),
			expectedT: 5,
			expectedN: core.NewVec3(0, 0, -1),
		},
		{
			name:      "spherical facing center",
			alignment: Spherical{Elevation: 90, Offset: 4},
			origin:    core.Vec3{},
			direction: core.NewVec3(0, 1, 0),
			expectedT: 4,
			expectedN: core.NewVec3(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := NewShape(DefaultPlane(), tt.alignment)
			isect, ok := shape.Intersect(core.NewRay(tt.origin, tt.direction))
			if !ok {
				t.Fatal("Expected hit")
			}
			if math.Abs(isect.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, isect.T)
			}
			if !vecNear(isect.N, tt.expectedN, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedN, isect.N)
			}
		})
	}
}

func TestShape_CameraRelative(t *testing.T) {
	camera := core.NewTransform(core.Translate(core.NewVec3(0, 0, 10)))
	alignment := CameraRelative{Camera: camera, Offset: core.Translate(core.NewVec3(0, 0, -1))}

	origin := alignment.Transform().TM.TransformPoint(core.Vec3{})
	if !vecNear(origin, core.NewVec3(0, 0, 9), 1e-9) {
		t.Errorf("Expected origin at (0,0,9), got %v", origin)
	}
}
