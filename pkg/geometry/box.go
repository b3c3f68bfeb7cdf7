package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Box is an axis-aligned box centered at the local origin
type Box struct {
	Size core.Vec3
}

// NewBox creates a box with the given extent
func NewBox(size core.Vec3) Box {
	return Box{Size: size}
}

func (b Box) bounds() core.BoundingBox {
	return core.NewCenteredBoundingBox(b.Size)
}

// ClipRange returns the ray interval inside the box
func (b Box) ClipRange(ray core.Ray) (float64, float64, bool) {
	return b.bounds().Intersect(ray)
}

// slabs returns the unclipped entry and exit parameters of the ray
func (b Box) slabs(ray core.Ray) (float64, float64, bool) {
	half := b.Size.Multiply(0.5)
	tNear, tFar := math.Inf(-1), math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Component(axis)
		d := ray.Direction.Component(axis)
		h := half.Component(axis)

		if math.Abs(d) < 1e-12 {
			if o < -h || o > h {
				return 0, 0, false
			}
			continue
		}

		inv := 1.0 / d
		t0 := (-h - o) * inv
		t1 := (h - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = max(tNear, t0)
		tFar = min(tFar, t1)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}

func (b Box) hit(ray core.Ray) (float64, bool, bool) {
	tNear, tFar, ok := b.slabs(ray)
	if !ok {
		return 0, false, false
	}
	// Rays starting inside the box hit the exit face from behind
	if inRange(ray, tNear) {
		return tNear, true, true
	}
	if inRange(ray, tFar) {
		return tFar, false, true
	}
	return 0, false, false
}

// Intersects implements Primitive
func (b Box) Intersects(ray core.Ray) bool {
	_, _, ok := b.hit(ray)
	return ok
}

// Intersect implements Primitive
func (b Box) Intersect(ray core.Ray) (Intersection, bool) {
	t, front, ok := b.hit(ray)
	if !ok {
		return Intersection{}, false
	}

	p := ray.At(t)
	n, uv := b.face(p)
	return Intersection{T: t, P: p, N: n, UV: uv, Front: front}, true
}

// face returns the outward normal and face UV of a point on the surface
func (b Box) face(p core.Vec3) (core.Vec3, core.Vec2) {
	half := b.Size.Multiply(0.5)
	rel := p.DivideVec(half)

	axis := 0
	for i := 1; i < 3; i++ {
		if math.Abs(rel.Component(i)) > math.Abs(rel.Component(axis)) {
			axis = i
		}
	}

	n := core.Vec3{}.WithComponent(axis, math.Copysign(1, rel.Component(axis)))
	u := rel.Component((axis+1)%3)*0.5 + 0.5
	v := rel.Component((axis+2)%3)*0.5 + 0.5
	return n, core.NewVec2(u, v)
}

// Sample implements Primitive. A face is picked with probability proportional
// to its area, then a point is drawn uniformly on it.
func (b Box) Sample(uvw core.Vec3) SurfaceSample {
	s := b.Size
	faces := [3]float64{s.Y * s.Z, s.X * s.Z, s.X * s.Y}
	total := faces[0] + faces[1] + faces[2]

	pick := uvw.Z * 2 * total
	side := 1.0
	if pick >= total {
		pick -= total
		side = -1
	}

	axis := 2
	for i := 0; i < 2; i++ {
		if pick < faces[i] {
			axis = i
			break
		}
		pick -= faces[i]
	}

	half := s.Multiply(0.5)
	p := core.Vec3{}.
		WithComponent(axis, side*half.Component(axis)).
		WithComponent((axis+1)%3, (uvw.X-0.5)*s.Component((axis+1)%3)).
		WithComponent((axis+2)%3, (uvw.Y-0.5)*s.Component((axis+2)%3))

	return SurfaceSample{
		P:  p,
		N:  core.Vec3{}.WithComponent(axis, side),
		UV: core.NewVec2(uvw.X, uvw.Y),
	}
}

// Area implements Primitive
func (b Box) Area() float64 {
	s := b.Size
	return 2 * (s.X*s.Y + s.X*s.Z + s.Y*s.Z)
}

// OneSided implements Primitive
func (b Box) OneSided() bool {
	return false
}

// Inside implements Primitive
func (b Box) Inside(p core.Vec3) bool {
	return b.bounds().Contains(p)
}
