package scene

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/material"
)

// Object is a textured surface placed next to the volume. Clip objects are
// never hit; they carve their interior out of every bound volume instead.
type Object struct {
	Visible bool // Seen by camera rays
	Shape   geometry.Shape

	Diffuse    material.Texture
	Specular   material.Texture
	Glossiness material.Texture // Read through the texture's luminance
	Emission   material.Texture

	Emitter    bool
	Multiplier float64
	Unit       lights.EmissionUnit

	Clip  bool
	Model material.SurfaceModel
	IOR   float64
}

// ObjectHit is the nearest object found along a ray
type ObjectHit struct {
	Index        int
	Intersection geometry.Intersection
}

// Shader builds the reflection model at a surface hit seen from direction wo.
// The normal is flipped towards wo so both sides of open shapes shade.
func (o *Object) Shader(hit geometry.Intersection, wo core.Vec3) material.Shader {
	n := hit.N
	if n.Dot(wo) < 0 {
		n = n.Negate()
	}

	kd := evaluate(o.Diffuse, hit.UV)
	ks := evaluate(o.Specular, hit.UV)
	exponent := material.GlossinessExponent(evaluate(o.Glossiness, hit.UV).Luminance())
	return material.NewSurfaceShader(o.Model, n, wo, kd, ks, o.IOR, exponent)
}

// Le returns the radiance an emitting object sends from uv
func (o *Object) Le(uv core.Vec2, front bool) core.ColorXYZ {
	if !o.Emitter {
		return core.Black
	}
	emitter := lights.Light{Shape: o.Shape, Multiplier: o.Multiplier, Unit: o.Unit, Emission: o.Emission}
	return emitter.Le(uv, front)
}

func evaluate(t material.Texture, uv core.Vec2) core.ColorXYZ {
	if t == nil {
		return core.Black
	}
	return t.Evaluate(uv)
}

// IntersectObjects returns the nearest object hit along the ray. Clip objects
// are skipped, and so are invisible objects when respectVisible is set.
func IntersectObjects(objects []*Object, ray core.Ray, respectVisible bool) (ObjectHit, bool) {
	hit := ObjectHit{Index: -1}
	closest := math.Inf(1)

	for i, o := range objects {
		if o.Clip || (respectVisible && !o.Visible) {
			continue
		}
		isect, ok := o.Shape.Intersect(ray)
		if !ok || isect.T >= closest {
			continue
		}
		closest = isect.T
		hit = ObjectHit{Index: i, Intersection: isect}
	}
	return hit, hit.Index >= 0
}

// IntersectsObject reports whether any non-clip object blocks the ray.
// Invisible objects still cast shadows.
func IntersectsObject(objects []*Object, ray core.Ray) bool {
	for _, o := range objects {
		if !o.Clip && o.Shape.Intersects(ray) {
			return true
		}
	}
	return false
}
