package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Ring is an annulus on the local z=0 plane between an inner and outer radius
type Ring struct {
	InnerRadius float64
	OuterRadius float64
	Sided       bool
}

// NewRing creates a two-sided ring
func NewRing(inner, outer float64) Ring {
	return Ring{InnerRadius: inner, OuterRadius: outer}
}

// NewOneSidedRing creates a ring that only has a front face
func NewOneSidedRing(inner, outer float64) Ring {
	return Ring{InnerRadius: inner, OuterRadius: outer, Sided: true}
}

func (r Ring) hit(ray core.Ray) (float64, core.Vec3, bool) {
	if math.Abs(ray.Direction.Z) < core.Epsilon {
		return 0, core.Vec3{}, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if !inRange(ray, t) {
		return 0, core.Vec3{}, false
	}

	hit := ray.At(t)
	d2 := hit.X*hit.X + hit.Y*hit.Y
	if d2 < r.InnerRadius*r.InnerRadius || d2 > r.OuterRadius*r.OuterRadius {
		return 0, core.Vec3{}, false
	}
	return t, hit, true
}

// Intersects implements Primitive
func (r Ring) Intersects(ray core.Ray) bool {
	_, _, ok := r.hit(ray)
	return ok
}

// Intersect implements Primitive
func (r Ring) Intersect(ray core.Ray) (Intersection, bool) {
	t, hit, ok := r.hit(ray)
	if !ok {
		return Intersection{}, false
	}
	return orientPlanar(ray, t, core.NewVec3(hit.X, hit.Y, 0), diskUV(hit, r.OuterRadius), r.Sided), true
}

// Sample implements Primitive. Radii are drawn so points are uniform in area.
func (r Ring) Sample(uvw core.Vec3) SurfaceSample {
	ri2 := r.InnerRadius * r.InnerRadius
	ro2 := r.OuterRadius * r.OuterRadius
	radius := math.Sqrt(ri2 + uvw.X*(ro2-ri2))
	theta := 2 * math.Pi * uvw.Y
	p := core.NewVec3(radius*math.Cos(theta), radius*math.Sin(theta), 0)
	return SurfaceSample{P: p, N: core.NewVec3(0, 0, 1), UV: diskUV(p, r.OuterRadius)}
}

// Area implements Primitive
func (r Ring) Area() float64 {
	return math.Pi * (r.OuterRadius*r.OuterRadius - r.InnerRadius*r.InnerRadius)
}

// OneSided implements Primitive
func (r Ring) OneSided() bool {
	return r.Sided
}

// Inside reports whether the point lies behind the ring plane
func (r Ring) Inside(p core.Vec3) bool {
	return p.Z < 0
}
