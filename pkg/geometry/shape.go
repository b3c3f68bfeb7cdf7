package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Shape places a primitive in the world through an alignment. Shapes are
// immutable values: changing the alignment means building a new shape.
type Shape struct {
	Primitive Primitive
	Alignment Alignment

	transform core.Transform
	area      float64
}

// NewShape creates a shape and caches its transform and world-space area
func NewShape(primitive Primitive, alignment Alignment) Shape {
	if alignment == nil {
		alignment = Manual{TM: core.Identity()}
	}
	transform := alignment.Transform()
	scale := math.Cbrt(math.Abs(linearDeterminant(transform.TM)))

	return Shape{
		Primitive: primitive,
		Alignment: alignment,
		transform: transform,
		area:      primitive.Area() * scale * scale,
	}
}

// Transform returns the local-to-world transform and its inverse
func (s Shape) Transform() core.Transform {
	return s.transform
}

// toLocal maps a world ray into primitive space. The direction is not
// renormalized, so ray parameters mean the same thing in both spaces.
func (s Shape) toLocal(ray core.Ray) core.Ray {
	local := ray
	local.Origin = s.transform.InvTM.TransformPoint(ray.Origin)
	local.Direction = s.transform.InvTM.TransformVector(ray.Direction)
	return local
}

// Intersects reports whether the world ray hits the shape within its range
func (s Shape) Intersects(ray core.Ray) bool {
	return s.Primitive.Intersects(s.toLocal(ray))
}

// Intersect returns the nearest hit in world space
func (s Shape) Intersect(ray core.Ray) (Intersection, bool) {
	isect, ok := s.Primitive.Intersect(s.toLocal(ray))
	if !ok {
		return Intersection{}, false
	}

	isect.P = s.transform.TM.TransformPoint(isect.P)
	isect.N = s.transform.InvTM.TransformNormal(isect.N).Normalize()
	return isect, true
}

// Sample draws a world-space point uniformly over the shape's area
func (s Shape) Sample(uvw core.Vec3) SurfaceSample {
	ss := s.Primitive.Sample(uvw)
	ss.P = s.transform.TM.TransformPoint(ss.P)
	ss.N = s.transform.InvTM.TransformNormal(ss.N).Normalize()
	return ss
}

// Area returns the world-space surface area
func (s Shape) Area() float64 {
	return s.area
}

// OneSided reports whether only the front face is visible
func (s Shape) OneSided() bool {
	return s.Primitive.OneSided()
}

// Closed reports whether the shape encloses a volume, in which case its back
// faces can never be seen from outside
func (s Shape) Closed() bool {
	switch s.Primitive.(type) {
	case Box, Sphere:
		return true
	default:
		return false
	}
}

// Inside reports whether a world point lies inside the shape
func (s Shape) Inside(p core.Vec3) bool {
	return s.Primitive.Inside(s.transform.InvTM.TransformPoint(p))
}

// ClipRange returns the part of the ray inside the region the shape encloses.
// Primitives that cannot report a range (disks and rings) always return false.
func (s Shape) ClipRange(ray core.Ray) (float64, float64, bool) {
	clipper, ok := s.Primitive.(RangeClipper)
	if !ok {
		return 0, 0, false
	}
	return clipper.ClipRange(s.toLocal(ray))
}

func linearDeterminant(m core.Matrix44) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
