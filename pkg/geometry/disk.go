package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Disk is a circular area on the local z=0 plane centered at the origin
type Disk struct {
	Radius float64
	Sided  bool
}

// NewDisk creates a two-sided disk
func NewDisk(radius float64) Disk {
	return Disk{Radius: radius}
}

// NewOneSidedDisk creates a disk that only has a front face
func NewOneSidedDisk(radius float64) Disk {
	return Disk{Radius: radius, Sided: true}
}

func (d Disk) hit(ray core.Ray) (float64, core.Vec3, bool) {
	if math.Abs(ray.Direction.Z) < core.Epsilon {
		return 0, core.Vec3{}, false
	}

	t := -ray.Origin.Z / ray.Direction.Z
	if !inRange(ray, t) {
		return 0, core.Vec3{}, false
	}

	hit := ray.At(t)
	if hit.X*hit.X+hit.Y*hit.Y > d.Radius*d.Radius {
		return 0, core.Vec3{}, false
	}
	return t, hit, true
}

// Intersects implements Primitive
func (d Disk) Intersects(ray core.Ray) bool {
	_, _, ok := d.hit(ray)
	return ok
}

// Intersect implements Primitive
func (d Disk) Intersect(ray core.Ray) (Intersection, bool) {
	t, hit, ok := d.hit(ray)
	if !ok {
		return Intersection{}, false
	}
	return orientPlanar(ray, t, core.NewVec3(hit.X, hit.Y, 0), diskUV(hit, d.Radius), d.Sided), true
}

// Sample implements Primitive
func (d Disk) Sample(uvw core.Vec3) SurfaceSample {
	r := d.Radius * math.Sqrt(uvw.X)
	theta := 2 * math.Pi * uvw.Y
	p := core.NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
	return SurfaceSample{P: p, N: core.NewVec3(0, 0, 1), UV: diskUV(p, d.Radius)}
}

// Area implements Primitive
func (d Disk) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// OneSided implements Primitive
func (d Disk) OneSided() bool {
	return d.Sided
}

// Inside reports whether the point lies behind the disk plane
func (d Disk) Inside(p core.Vec3) bool {
	return p.Z < 0
}

// orientPlanar builds the hit record shared by the flat primitives
func orientPlanar(ray core.Ray, t float64, p core.Vec3, uv core.Vec2, oneSided bool) Intersection {
	isect := Intersection{
		T:     t,
		P:     p,
		N:     core.NewVec3(0, 0, 1),
		UV:    uv,
		Front: ray.Direction.Z < 0,
	}
	if oneSided && ray.Direction.Z >= 0 {
		isect.N = core.NewVec3(0, 0, -1)
		isect.Front = false
	}
	return isect
}

// diskUV maps a planar point to (angle, radius) in [0,1]²
func diskUV(p core.Vec3, radius float64) core.Vec2 {
	phi := math.Atan2(p.Y, p.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	r := math.Sqrt(p.X*p.X + p.Y*p.Y)
	return core.NewVec2(phi/(2*math.Pi), r*core.Reciprocal(radius))
}
