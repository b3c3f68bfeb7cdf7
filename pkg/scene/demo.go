package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/material"
	"github.com/df07/go-exposure-render/pkg/transfer"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// Demo is a ready-to-bind synthetic scene with a suggested camera
type Demo struct {
	Info     SceneInfo
	Registry *Registry
	Binding  Binding
	Property *volume.Property

	Eye    core.Vec3
	Target core.Vec3
	Up     core.Vec3
}

// Bind binds the demo's registry with its own property
func (d *Demo) Bind() (*Scene, error) {
	return d.Registry.Bind(d.Binding, d.Property)
}

// NewDemo builds the built-in scene with the given ID at a volume resolution
// of n voxels per side
func NewDemo(id string, n int) (*Demo, error) {
	if n < 2 {
		return nil, fmt.Errorf("demo resolution must be at least 2, got %d", n)
	}
	switch id {
	case "sphere-phantom":
		return newSpherePhantomDemo(n)
	case "nested-shells":
		return newNestedShellsDemo(n)
	case "homogeneous-cube":
		return newHomogeneousCubeDemo(n)
	default:
		return nil, fmt.Errorf("unknown scene %q", id)
	}
}

// SpherePhantom is a cube of n³ voxels holding a soft shell around a dense
// core, like a CT scan of a ball with a hard center
func SpherePhantom(n int) volume.Description {
	return synthesize(n, func(p core.Vec3) float64 {
		r := p.Length()
		switch {
		case r < 0.35:
			return 240
		case r < 0.8:
			return 120
		default:
			// Fade out over a few voxels so the surface has a usable gradient
			return 120 * core.Clamp((0.9-r)/0.1, 0, 1)
		}
	})
}

// NestedShells is a cube of n³ voxels with three concentric shells of
// increasing intensity towards the center
func NestedShells(n int) volume.Description {
	shells := []struct{ radius, intensity float64 }{
		{0.85, 80},
		{0.55, 160},
		{0.25, 240},
	}
	const halfThickness = 0.06

	return synthesize(n, func(p core.Vec3) float64 {
		r := p.Length()
		value := 0.0
		for _, s := range shells {
			w := 1 - math.Abs(r-s.radius)/halfThickness
			value = max(value, s.intensity*core.Clamp(w, 0, 1))
		}
		return value
	})
}

// HomogeneousCube is a cube of n³ voxels that all hold the same intensity
func HomogeneousCube(n int, intensity uint16) volume.Description {
	return synthesize(n, func(core.Vec3) float64 { return float64(intensity) })
}

// synthesize samples fn at voxel centers mapped to [-1, 1]³
func synthesize(n int, fn func(p core.Vec3) float64) volume.Description {
	voxels := make([]uint16, n*n*n)
	scale := 2.0 / float64(n)
	coord := func(i int) float64 { return (float64(i)+0.5)*scale - 1 }

	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				v := fn(core.NewVec3(coord(x), coord(y), coord(z)))
				voxels[(z*n+y)*n+x] = uint16(core.Clamp(math.Round(v), 0, volume.MaxIntensity))
			}
		}
	}

	return volume.Description{
		Resolution:    core.NewVec3i(n, n, n),
		Spacing:       core.NewVec3(1, 1, 1),
		NormalizeSize: true,
		Voxels:        voxels,
	}
}

// keyLight adds an area light facing the origin from the given angles
func keyLight(r *Registry, elevation, azimuth, multiplier float64, color core.ColorXYZ) LightHandle {
	shape := geometry.NewShape(
		geometry.NewOneSidedPlane(core.NewVec2(0.5, 0.5)),
		geometry.Spherical{Elevation: elevation, Azimuth: azimuth, Offset: 1.5},
	)
	return r.AddLight(LightDesc{
		Visible:    true,
		Shape:      shape,
		Multiplier: multiplier,
		Unit:       lights.Power,
		Color:      color,
	})
}

// checkerFloor adds a textured floor just under the unit volume
func checkerFloor(r *Registry) ObjectHandle {
	checker := r.AddTexture(TextureDesc{
		Kind:    CheckerTexture,
		Color1:  core.GrayXYZ(0.7),
		Color2:  core.GrayXYZ(0.2),
		Mapping: material.Mapping{Repeat: core.NewVec2(4, 4)},
	})
	return r.AddObject(ObjectDesc{
		Visible: true,
		Shape: geometry.NewShape(
			geometry.NewOneSidedPlane(core.NewVec2(3, 3)),
			geometry.AxisAlign{Axis: geometry.AxisY, Position: core.NewVec3(0, -0.55, 0)},
		),
		DiffuseTexture: checker,
		Model:          material.MicrofacetModel,
		IOR:            1.5,
	})
}

func newDemo(id string, desc volume.Description) (*Demo, VolumeHandle, error) {
	info, ok := lookupInfo(id)
	if !ok {
		return nil, 0, fmt.Errorf("unknown scene %q", id)
	}
	r := NewRegistry()
	vh, err := r.AddVolume(desc)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build %s: %w", id, err)
	}
	return &Demo{
		Info:     info,
		Registry: r,
		Property: volume.DefaultProperty(),
		Eye:      core.NewVec3(1.2, 0.8, 1.8),
		Target:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
	}, vh, nil
}

func newSpherePhantomDemo(n int) (*Demo, error) {
	d, vh, err := newDemo("sphere-phantom", SpherePhantom(n))
	if err != nil {
		return nil, err
	}

	p := d.Property
	p.Opacity, err = transfer.NewScalarFromNodes(
		transfer.Node[float64]{Position: 0, Value: 0},
		transfer.Node[float64]{Position: 60, Value: 0},
		transfer.Node[float64]{Position: 120, Value: 0.05},
		transfer.Node[float64]{Position: 240, Value: 1},
	)
	if err != nil {
		return nil, err
	}
	p.Diffuse = transfer.NewColor()
	_ = transfer.AddRGBNode(p.Diffuse, 0, core.ColorRGB{R: 0.9, G: 0.6, B: 0.5})
	_ = transfer.AddRGBNode(p.Diffuse, 240, core.ColorRGB{R: 1, G: 1, B: 0.9})
	p.Specular = transfer.ConstantColor(core.GrayXYZ(0.3))
	p.Glossiness = transfer.ConstantScalar(0.6)

	d.Binding = Binding{
		Volumes: []VolumeHandle{vh},
		Lights: []LightHandle{
			keyLight(d.Registry, 45, 30, 40, transfer.Kelvin(5500)),
			keyLight(d.Registry, 20, -100, 10, transfer.Kelvin(9000)),
		},
		Objects: []ObjectHandle{checkerFloor(d.Registry)},
	}
	return d, nil
}

func newNestedShellsDemo(n int) (*Demo, error) {
	d, vh, err := newDemo("nested-shells", NestedShells(n))
	if err != nil {
		return nil, err
	}

	p := d.Property
	p.Opacity, err = transfer.NewScalarFromNodes(
		transfer.Node[float64]{Position: 0, Value: 0},
		transfer.Node[float64]{Position: 40, Value: 0},
		transfer.Node[float64]{Position: 80, Value: 0.1},
		transfer.Node[float64]{Position: 160, Value: 0.4},
		transfer.Node[float64]{Position: 240, Value: 1},
	)
	if err != nil {
		return nil, err
	}
	p.Diffuse = transfer.NewColor()
	_ = transfer.AddRGBNode(p.Diffuse, 80, core.ColorRGB{R: 0.2, G: 0.4, B: 0.9})
	_ = transfer.AddRGBNode(p.Diffuse, 160, core.ColorRGB{R: 0.2, G: 0.9, B: 0.3})
	_ = transfer.AddRGBNode(p.Diffuse, 240, core.ColorRGB{R: 0.9, G: 0.3, B: 0.2})
	p.ShadingMode = volume.Modulation
	p.Acceleration = volume.OctreeAcceleration

	// Cut away the octant facing the camera to reveal the inner shells
	cut := d.Registry.AddObject(ObjectDesc{
		Shape: geometry.NewShape(
			geometry.NewBox(core.NewVec3(0.6, 0.6, 0.6)),
			geometry.Manual{TM: core.Translate(core.NewVec3(0.3, 0.3, 0.3))},
		),
		Clip: true,
	})

	d.Binding = Binding{
		Volumes:         []VolumeHandle{vh},
		Lights:          []LightHandle{keyLight(d.Registry, 60, 20, 50, transfer.Kelvin(6500))},
		ClippingObjects: []ObjectHandle{cut},
	}
	return d, nil
}

func newHomogeneousCubeDemo(n int) (*Demo, error) {
	d, vh, err := newDemo("homogeneous-cube", HomogeneousCube(n, 128))
	if err != nil {
		return nil, err
	}

	p := d.Property
	p.Opacity = transfer.ConstantScalar(0.05)
	p.ShadingMode = volume.PhaseFunctionOnly
	p.Acceleration = volume.NoAcceleration

	d.Binding = Binding{
		Volumes: []VolumeHandle{vh},
		Lights:  []LightHandle{keyLight(d.Registry, 70, 0, 60, transfer.Kelvin(6500))},
		Objects: []ObjectHandle{checkerFloor(d.Registry)},
	}
	return d, nil
}
