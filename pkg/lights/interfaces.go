package lights

import (
	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/material"
)

// EmissionUnit selects how a light's multiplier is interpreted
type EmissionUnit int

const (
	// Power spreads the multiplier over the light's area
	Power EmissionUnit = iota
	// Lux uses the multiplier as radiance directly
	Lux
)

func (u EmissionUnit) String() string {
	if u == Lux {
		return "lux"
	}
	return "power"
}

// Light is an emissive shape
type Light struct {
	Visible    bool // Seen by camera rays
	Shape      geometry.Shape
	Multiplier float64
	Unit       EmissionUnit
	Emission   material.Texture
}

// NewLight creates a visible light with a uniform emission color
func NewLight(shape geometry.Shape, color core.ColorXYZ, multiplier float64, unit EmissionUnit) *Light {
	return &Light{
		Visible:    true,
		Shape:      shape,
		Multiplier: multiplier,
		Unit:       unit,
		Emission:   material.NewUniform(color),
	}
}

// Le returns the radiance leaving the light at surface coordinates uv.
// Back faces only emit for open two-sided shapes.
func (l *Light) Le(uv core.Vec2, front bool) core.ColorXYZ {
	if !front && !l.emitsBack() {
		return core.Black
	}

	var le core.ColorXYZ
	if l.Emission != nil {
		le = l.Emission.Evaluate(uv)
	}
	le = le.Multiply(l.Multiplier)
	if l.Unit == Power {
		le = le.Multiply(core.Reciprocal(l.Shape.Area()))
	}
	return le
}

func (l *Light) emitsBack() bool {
	return !l.Shape.OneSided() && !l.Shape.Closed()
}

// LightSample is a point sampled on a light as seen from a shading point
type LightSample struct {
	P        core.Vec3     // Point on the light
	N        core.Vec3     // Light normal at P
	Wi       core.Vec3     // Unit direction from the shading point to P
	Distance float64       // Distance to P
	Le       core.ColorXYZ // Radiance leaving P towards the shading point
	Pdf      float64       // Solid angle density of Wi
}

// LightHit is the nearest light found along a ray
type LightHit struct {
	Index        int
	Intersection geometry.Intersection
	Le           core.ColorXYZ
}
