package geometry

import (
	"github.com/df07/go-exposure-render/pkg/core"
)

// Intersection is a ray-surface hit record
type Intersection struct {
	T     float64   // Parameter t along the ray
	P     core.Vec3 // Point of intersection
	N     core.Vec3 // Surface normal at intersection
	UV    core.Vec2 // Surface parameterization
	Front bool      // Whether the ray hit the front face
}

// SurfaceSample is a point drawn uniformly over a surface
type SurfaceSample struct {
	P  core.Vec3
	N  core.Vec3
	UV core.Vec2
}

// Primitive is a canonical surface in its own local space. Rays passed to a
// primitive are already in local space; the parametric range [MinT, MaxT] is
// honoured.
type Primitive interface {
	// Intersects is a boolean hit test
	Intersects(ray core.Ray) bool
	// Intersect returns the nearest hit within the ray range
	Intersect(ray core.Ray) (Intersection, bool)
	// Sample maps a uniform 3D sample to a point with density 1/Area
	Sample(uvw core.Vec3) SurfaceSample
	Area() float64
	OneSided() bool
	Inside(p core.Vec3) bool
}

// RangeClipper is implemented by primitives that bound a region of space and
// can report the ray segment inside it
type RangeClipper interface {
	ClipRange(ray core.Ray) (t0, t1 float64, ok bool)
}

// inRange reports whether t lies within the ray's parametric range
func inRange(ray core.Ray, t float64) bool {
	return t >= ray.MinT && t <= ray.MaxT
}
