package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Plane is a rectangle on the local z=0 plane centered at the origin.
// Its front face points along +z.
type Plane struct {
	Size  core.Vec2
	Sided bool // One-sided planes only have a front face
}

// NewPlane creates a two-sided plane of the given size
func NewPlane(size core.Vec2) Plane {
	return Plane{Size: size}
}

// NewOneSidedPlane creates a plane that only has a front face
func NewOneSidedPlane(size core.Vec2) Plane {
	return Plane{Size: size, Sided: true}
}

// DefaultPlane is a two-sided unit plane
func DefaultPlane() Plane {
	return NewPlane(core.NewVec2(1, 1))
}

func (p Plane) hit(ray core.Ray) (float64, core.Vec3, bool) {
	// Parallel rays never hit
	if math.Abs(ray.Direction.Z) < core.Epsilon {
		return 0, core.Vec3{}, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if !inRange(ray, t) {
		return 0, core.Vec3{}, false
	}

	hit := ray.At(t)
	if math.Abs(hit.X) > 0.5*p.Size.X || math.Abs(hit.Y) > 0.5*p.Size.Y {
		return 0, core.Vec3{}, false
	}
	return t, hit, true
}

// Intersects implements Primitive
func (p Plane) Intersects(ray core.Ray) bool {
	_, _, ok := p.hit(ray)
	return ok
}

// Intersect implements Primitive
func (p Plane) Intersect(ray core.Ray) (Intersection, bool) {
	t, hit, ok := p.hit(ray)
	if !ok {
		return Intersection{}, false
	}

	return orientPlanar(ray, t, core.NewVec3(hit.X, hit.Y, 0), p.uv(hit), p.Sided), true
}

func (p Plane) uv(hit core.Vec3) core.Vec2 {
	u := hit.X*core.Reciprocal(p.Size.X) + 0.5
	v := hit.Y*core.Reciprocal(p.Size.Y) + 0.5
	return core.NewVec2(1-u, v)
}

// Sample implements Primitive
func (p Plane) Sample(uvw core.Vec3) SurfaceSample {
	hit := core.NewVec3((uvw.X-0.5)*p.Size.X, (uvw.Y-0.5)*p.Size.Y, 0)
	return SurfaceSample{
		P:  hit,
		N:  core.NewVec3(0, 0, 1),
		UV: p.uv(hit),
	}
}

// Area implements Primitive
func (p Plane) Area() float64 {
	return p.Size.X * p.Size.Y
}

// OneSided implements Primitive
func (p Plane) OneSided() bool {
	return p.Sided
}

// Inside reports whether the point lies behind the plane
func (p Plane) Inside(point core.Vec3) bool {
	return point.Z < 0
}

// ClipRange returns the part of the ray in the half-space behind the plane
func (p Plane) ClipRange(ray core.Ray) (float64, float64, bool) {
	if ray.Direction.Z == 0 {
		if ray.Origin.Z < 0 {
			return ray.MinT, ray.MaxT, true
		}
		return 0, 0, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	t0, t1 := ray.MinT, ray.MaxT
	if ray.Direction.Z > 0 {
		t1 = min(t1, t)
	} else {
		t0 = max(t0, t)
	}
	return t0, t1, t0 <= t1
}
