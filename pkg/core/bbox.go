package core

import "math"

// BoundingBox is an axis-aligned box. It is immutable: the cached size and inverse
// size are computed by NewBoundingBox, so changing a corner means building a new box.
type BoundingBox struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner

	size    Vec3
	invSize Vec3
}

// NewBoundingBox creates a bounding box from its corners
func NewBoundingBox(min, max Vec3) BoundingBox {
	size := max.Subtract(min)
	return BoundingBox{
		Min:     min,
		Max:     max,
		size:    size,
		invSize: NewVec3(Reciprocal(size.X), Reciprocal(size.Y), Reciprocal(size.Z)),
	}
}

// NewCenteredBoundingBox creates a box of the given size centered at the origin
func NewCenteredBoundingBox(size Vec3) BoundingBox {
	half := size.Multiply(0.5)
	return NewBoundingBox(half.Negate(), half)
}

// Size returns the extent of the box along each axis
func (b BoundingBox) Size() Vec3 {
	return b.size
}

// InvSize returns the reciprocal extent, zero along degenerate axes
func (b BoundingBox) InvSize() Vec3 {
	return b.invSize
}

// Center returns the center point of the box
func (b BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Contains reports whether p lies inside or on the box
func (b BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Normalized maps p to [0,1]^3 box coordinates
func (b BoundingBox) Normalized(p Vec3) Vec3 {
	return p.Subtract(b.Min).MultiplyVec(b.invSize)
}

// Intersect clips the ray against the box using the slab method. The returned
// interval is [max(near, MinT, 0), min(far, MaxT)].
func (b BoundingBox) Intersect(ray Ray) (t0, t1 float64, ok bool) {
	tMin := max(ray.MinT, 0)
	tMax := ray.MaxT

	for axis := 0; axis < 3; axis++ {
		min := b.Min.Component(axis)
		max := b.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		near := (min - origin) * invDirection
		far := (max - origin) * invDirection
		if near > far {
			near, far = far, near
		}

		tMin = math.Max(tMin, near)
		tMax = math.Min(tMax, far)
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, true
}

// Hit tests if a ray intersects the box within [tMin, tMax]
func (b BoundingBox) Hit(ray Ray, tMin, tMax float64) bool {
	ray.MinT, ray.MaxT = tMin, tMax
	_, _, ok := b.Intersect(ray)
	return ok
}
