package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Sphere is a sphere centered at the local origin
type Sphere struct {
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(radius float64) Sphere {
	return Sphere{Radius: radius}
}

// roots returns both solutions of the ray-sphere quadratic, t0 <= t1
func (s Sphere) roots(ray core.Ray) (float64, float64, bool) {
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return 0, 0, false
	}
	halfB := ray.Origin.Dot(ray.Direction)
	c := ray.Origin.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, true
}

func (s Sphere) hit(ray core.Ray) (float64, bool, bool) {
	t0, t1, ok := s.roots(ray)
	if !ok {
		return 0, false, false
	}
	if inRange(ray, t0) {
		return t0, true, true
	}
	if inRange(ray, t1) {
		return t1, false, true
	}
	return 0, false, false
}

// Intersects implements Primitive
func (s Sphere) Intersects(ray core.Ray) bool {
	_, _, ok := s.hit(ray)
	return ok
}

// Intersect implements Primitive
func (s Sphere) Intersect(ray core.Ray) (Intersection, bool) {
	t, front, ok := s.hit(ray)
	if !ok {
		return Intersection{}, false
	}

	p := ray.At(t)
	n := p.Multiply(core.Reciprocal(s.Radius))
	return Intersection{T: t, P: p, N: n, UV: sphereUV(n), Front: front}, true
}

// sphereUV maps a unit direction to (phi/2π, theta/π)
func sphereUV(n core.Vec3) core.Vec2 {
	theta := math.Acos(core.Clamp(n.Z, -1, 1))
	phi := math.Atan2(n.Y, n.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Sample implements Primitive
func (s Sphere) Sample(uvw core.Vec3) SurfaceSample {
	n := core.UniformSampleSphere(core.NewVec2(uvw.X, uvw.Y))
	return SurfaceSample{P: n.Multiply(s.Radius), N: n, UV: sphereUV(n)}
}

// Area implements Primitive
func (s Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// OneSided implements Primitive
func (s Sphere) OneSided() bool {
	return false
}

// Inside implements Primitive
func (s Sphere) Inside(p core.Vec3) bool {
	return p.LengthSquared() < s.Radius*s.Radius
}

// ClipRange returns the ray interval inside the sphere
func (s Sphere) ClipRange(ray core.Ray) (float64, float64, bool) {
	t0, t1, ok := s.roots(ray)
	if !ok {
		return 0, 0, false
	}
	t0, t1 = max(t0, ray.MinT), min(t1, ray.MaxT)
	return t0, t1, t0 <= t1
}
