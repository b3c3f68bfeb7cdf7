package scene

import (
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/lights"
)

// sceneWith builds a scene from a dense unit cube volume (optional), lights
// and objects, all along the z axis
func sceneWith(t *testing.T, withVolume bool, lightZ, objectZ []float64) *Scene {
	t.Helper()
	r := NewRegistry()
	var b Binding

	if withVolume {
		vh, err := r.AddVolume(HomogeneousCube(4, 200))
		if err != nil {
			t.Fatalf("AddVolume: %v", err)
		}
		b.Volumes = append(b.Volumes, vh)
	}
	for _, z := range lightZ {
		b.Lights = append(b.Lights, r.AddLight(LightDesc{
			Visible:    true,
			Shape:      planeAt(z),
			Multiplier: 1,
			Unit:       lights.Lux,
			Color:      core.GrayXYZ(1),
		}))
	}
	for _, z := range objectZ {
		b.Objects = append(b.Objects, r.AddObject(ObjectDesc{Visible: true, Shape: planeAt(z)}))
	}

	s, err := r.Bind(b, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return s
}

func TestNearestIntersection(t *testing.T) {
	// Camera at z=3 looking down -z; the unit volume spans z in [-0.5, 0.5]
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	tests := []struct {
		name       string
		withVolume bool
		lightZ     []float64
		objectZ    []float64
		wantType   EventType
		wantID     int
		wantT      float64 // Checked when the event is not a volume event
	}{
		{"light in front of object", false, []float64{1}, []float64{-1}, LightEvent, 0, 2},
		{"object in front of light", false, []float64{-1}, []float64{1}, ObjectEvent, 0, 2},
		{"nearest of several lights", false, []float64{-2, 2, 0}, nil, LightEvent, 1, 1},
		{"light wins tie with object", false, []float64{0}, []float64{0}, LightEvent, 0, 3},
		{"volume in front of light", true, []float64{-2}, nil, VolumeEvent, 0, 0},
		{"object in front of volume", true, nil, []float64{2}, ObjectEvent, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sceneWith(t, tt.withVolume, tt.lightZ, tt.objectZ)
			rng := core.NewRNGFromSeeds(7, 11)

			e := s.NearestIntersection(ray, rng)
			if !e.Valid {
				t.Fatal("Expected a valid event")
			}
			if e.Type != tt.wantType {
				t.Fatalf("Expected %v event, got %v", tt.wantType, e.Type)
			}
			if e.ID != tt.wantID {
				t.Errorf("Expected ID %d, got %d", tt.wantID, e.ID)
			}

			if e.Type == VolumeEvent {
				// The medium is dense enough to scatter right after entry
				if e.T < 2.5 || e.T > 3.5 {
					t.Errorf("Volume event T = %f outside the volume", e.T)
				}
				if e.Intensity != 200 {
					t.Errorf("Expected intensity 200, got %f", e.Intensity)
				}
			} else if math.Abs(e.T-tt.wantT) > tolerance {
				t.Errorf("Expected T = %f, got %f", tt.wantT, e.T)
			}

			if e.Wo != core.NewVec3(0, 0, 1) {
				t.Errorf("Expected Wo (0,0,1), got %v", e.Wo)
			}
		})
	}
}

func TestNearestIntersection_LightEmission(t *testing.T) {
	s := sceneWith(t, false, []float64{0}, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

	e := s.NearestIntersection(ray, core.NewRNGFromSeeds(1, 2))
	if e.Type != LightEvent || !e.Front {
		t.Fatalf("Expected front light hit, got %+v", e)
	}
	if math.Abs(e.Le.Y-core.GrayXYZ(1).Y) > tolerance {
		t.Errorf("Expected Le.Y = %f, got %f", core.GrayXYZ(1).Y, e.Le.Y)
	}
}

func TestNearestIntersection_SkipsInvisibleAndClip(t *testing.T) {
	r := NewRegistry()
	hidden := r.AddLight(LightDesc{Shape: planeAt(1), Multiplier: 1, Color: core.GrayXYZ(1)})
	clip := r.AddObject(ObjectDesc{Visible: true, Shape: planeAt(0.5), Clip: true})
	back := r.AddObject(ObjectDesc{Visible: true, Shape: planeAt(-1)})

	s, err := r.Bind(Binding{Lights: []LightHandle{hidden}, Objects: []ObjectHandle{clip, back}}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	e := s.NearestIntersection(ray, core.NewRNGFromSeeds(1, 2))
	if !e.Valid || e.Type != ObjectEvent {
		t.Fatalf("Expected object event, got %+v", e)
	}
	if math.Abs(e.T-4) > tolerance {
		t.Errorf("Expected to hit the back object at T=4, got %f", e.T)
	}
}

func TestNearestIntersection_Miss(t *testing.T) {
	s := sceneWith(t, true, []float64{0}, []float64{1})
	ray := core.NewRay(core.NewVec3(5, 5, 3), core.NewVec3(0, 0, -1))
	if e := s.NearestIntersection(ray, core.NewRNGFromSeeds(1, 2)); e.Valid {
		t.Errorf("Expected no event, got %+v", e)
	}
}

func TestOccluded(t *testing.T) {
	tests := []struct {
		name       string
		withVolume bool
		lightZ     []float64
		objectZ    []float64
		maxT       float64
		want       bool
	}{
		{"empty scene", false, nil, nil, 10, false},
		{"object blocks", false, nil, []float64{0}, 10, true},
		{"object beyond segment", false, nil, []float64{0}, 0.5, false},
		{"light blocks", false, []float64{0}, nil, 10, true},
		{"light beyond segment", false, []float64{0}, nil, 0.5, false},
		{"segment ends just before light", false, []float64{0}, nil, 1 - 1e-4, false},
		{"dense volume blocks", true, nil, nil, 10, true},
		{"segment ends before volume", true, nil, nil, 0.4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sceneWith(t, tt.withVolume, tt.lightZ, tt.objectZ)
			// The volume spans T in [0.5, 1.5]; objects and lights sit at T=1
			ray := core.NewRaySegment(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), 0, tt.maxT)
			if got := s.Occluded(ray, core.NewRNGFromSeeds(3, 5)); got != tt.want {
				t.Errorf("Occluded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccluded_HiddenLightBlocks(t *testing.T) {
	r := NewRegistry()
	hidden := r.AddLight(LightDesc{Shape: planeAt(0), Multiplier: 1, Color: core.GrayXYZ(1)})
	s, err := r.Bind(Binding{Lights: []LightHandle{hidden}}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	ray := core.NewRaySegment(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), 0, 10)
	if !s.Occluded(ray, core.NewRNGFromSeeds(3, 5)) {
		t.Error("A light hidden from the camera should still block shadow rays")
	}
}

func TestOccluded_ShadowsDisabled(t *testing.T) {
	s := sceneWith(t, true, nil, nil)
	s.Property.Shadows = false

	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	if s.Occluded(ray, core.NewRNGFromSeeds(3, 5)) {
		t.Error("Volume should not cast shadows when shadows are disabled")
	}
}

func TestObjectShader_FacesViewer(t *testing.T) {
	r := NewRegistry()
	oh := r.AddObject(ObjectDesc{Shape: planeAt(0)})
	s, err := r.Bind(Binding{Objects: []ObjectHandle{oh}}, nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	bound := s.Objects[0]

	// Seen from below, the +z normal is flipped so reflection stays on the viewer's side
	hit := geometry.Intersection{N: core.NewVec3(0, 0, 1), UV: core.NewVec2(0.5, 0.5)}
	wo := core.NewVec3(0, 0, -1)
	shader := bound.Shader(hit, wo)

	if f := shader.F(wo, core.NewVec3(0.1, 0, -1).Normalize()); f.IsBlack() {
		t.Error("Expected reflection on the viewer's side")
	}
	if f := shader.F(wo, core.NewVec3(0.1, 0, 1).Normalize()); !f.IsBlack() {
		t.Errorf("Expected no reflection through the surface, got %v", f)
	}
}

func TestDemos(t *testing.T) {
	for _, info := range ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			d, err := NewDemo(info.ID, 8)
			if err != nil {
				t.Fatalf("NewDemo: %v", err)
			}
			if d.Info.DisplayName != info.DisplayName {
				t.Errorf("Expected info %q, got %q", info.DisplayName, d.Info.DisplayName)
			}

			s, err := d.Bind()
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			if len(s.Media) != 1 {
				t.Errorf("Expected one medium, got %d", len(s.Media))
			}
			if len(s.Lights) == 0 {
				t.Error("Expected at least one light")
			}
			if d.Eye == d.Target {
				t.Error("Camera eye and target coincide")
			}
		})
	}

	if _, err := NewDemo("missing", 8); err == nil {
		t.Error("Expected error for unknown scene")
	}
	if _, err := NewDemo("sphere-phantom", 1); err == nil {
		t.Error("Expected error for tiny resolution")
	}
}

func TestSyntheticVolumes(t *testing.T) {
	const n = 16
	at := func(desc []uint16, x, y, z int) uint16 { return desc[(z*n+y)*n+x] }

	phantom := SpherePhantom(n).Voxels
	if got := at(phantom, n/2, n/2, n/2); got != 240 {
		t.Errorf("Phantom core = %d, want 240", got)
	}
	if got := at(phantom, 0, 0, 0); got != 0 {
		t.Errorf("Phantom corner = %d, want 0", got)
	}

	shells := NestedShells(n).Voxels
	if got := at(shells, 0, 0, 0); got != 0 {
		t.Errorf("Shells corner = %d, want 0", got)
	}

	cube := HomogeneousCube(n, 77)
	for i, v := range cube.Voxels {
		if v != 77 {
			t.Fatalf("Cube voxel %d = %d, want 77", i, v)
		}
	}
	if err := cube.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
