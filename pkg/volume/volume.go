// Package volume holds the voxel model, gradient estimators, empty-space
// acceleration and the free-flight ray marcher.
package volume

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// MaxIntensity is the largest voxel value
const MaxIntensity = math.MaxUint16

// Description is the host-side description of a voxel grid
type Description struct {
	Resolution    core.Vec3i // Voxel count along each axis
	Spacing       core.Vec3  // Physical size of one voxel
	NormalizeSize bool       // Scale the volume so its largest side is 1
	Voxels        []uint16   // x-fastest, then y, then z
}

// Validate checks that the description can be turned into a volume
func (d Description) Validate() error {
	r := d.Resolution
	if r.X <= 0 || r.Y <= 0 || r.Z <= 0 {
		return fmt.Errorf("invalid volume resolution %dx%dx%d", r.X, r.Y, r.Z)
	}
	if len(d.Voxels) != r.Product() {
		return fmt.Errorf("volume has %d voxels, resolution %dx%dx%d needs %d",
			len(d.Voxels), r.X, r.Y, r.Z, r.Product())
	}
	if d.Spacing.X <= 0 || d.Spacing.Y <= 0 || d.Spacing.Z <= 0 {
		return errors.New("volume spacing must be positive")
	}
	return nil
}

// Volume is an immutable voxel grid centered at the world origin. Rebinding
// new data means building a new Volume.
type Volume struct {
	resolution core.Vec3i
	spacing    core.Vec3
	bbox       core.BoundingBox
	minStep    float64
	voxels     []uint16

	maxGradientMagnitude float64
}

// New builds a volume from a description
func New(desc Description) (*Volume, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}

	res := desc.Resolution.ToVec3()
	physical := res.MultiplyVec(desc.Spacing)

	scale := 1.0
	if desc.NormalizeSize {
		scale = core.Reciprocal(physical.MaxComponent())
	}

	spacing := desc.Spacing.Multiply(scale)
	v := &Volume{
		resolution: desc.Resolution,
		spacing:    spacing,
		bbox:       core.NewCenteredBoundingBox(res.MultiplyVec(spacing)),
		minStep:    spacing.MinComponent(),
		voxels:     desc.Voxels,
	}
	v.maxGradientMagnitude = v.computeMaxGradientMagnitude()

	core.Logger().Debug("volume created",
		"resolution", fmt.Sprintf("%dx%dx%d", desc.Resolution.X, desc.Resolution.Y, desc.Resolution.Z),
		"size", v.bbox.Size(),
		"max_gradient", v.maxGradientMagnitude)
	return v, nil
}

// Resolution returns the voxel count along each axis
func (v *Volume) Resolution() core.Vec3i { return v.resolution }

// Spacing returns the world-space size of one voxel
func (v *Volume) Spacing() core.Vec3 { return v.spacing }

// BoundingBox returns the world-space bounds of the volume
func (v *Volume) BoundingBox() core.BoundingBox { return v.bbox }

// MinStep returns the smallest voxel extent, the base unit of marching steps
func (v *Volume) MinStep() float64 { return v.minStep }

// MaxGradientMagnitude returns the largest central-difference gradient magnitude in the grid
func (v *Volume) MaxGradientMagnitude() float64 { return v.maxGradientMagnitude }

// Voxel returns the voxel at integer coordinates, clamped to the grid edges
func (v *Volume) Voxel(x, y, z int) float64 {
	r := v.resolution
	x = core.ClampInt(x, 0, r.X-1)
	y = core.ClampInt(y, 0, r.Y-1)
	z = core.ClampInt(z, 0, r.Z-1)
	return float64(v.voxels[(z*r.Y+y)*r.X+x])
}

// voxelCoordinates maps a world point to continuous voxel-space coordinates
// in [0, resolution]
func (v *Volume) voxelCoordinates(p core.Vec3) core.Vec3 {
	return v.bbox.Normalized(p).MultiplyVec(v.resolution.ToVec3())
}

// Intensity returns the trilinearly filtered intensity at a world point.
// Voxel values sit at cell centers and the grid is clamped at its edges.
func (v *Volume) Intensity(p core.Vec3) float64 {
	c := v.voxelCoordinates(p).Subtract(core.Splat(0.5))

	x0, y0, z0 := math.Floor(c.X), math.Floor(c.Y), math.Floor(c.Z)
	fx, fy, fz := c.X-x0, c.Y-y0, c.Z-z0
	ix, iy, iz := int(x0), int(y0), int(z0)

	c00 := core.Lerp(v.Voxel(ix, iy, iz), v.Voxel(ix+1, iy, iz), fx)
	c10 := core.Lerp(v.Voxel(ix, iy+1, iz), v.Voxel(ix+1, iy+1, iz), fx)
	c01 := core.Lerp(v.Voxel(ix, iy, iz+1), v.Voxel(ix+1, iy, iz+1), fx)
	c11 := core.Lerp(v.Voxel(ix, iy+1, iz+1), v.Voxel(ix+1, iy+1, iz+1), fx)

	return core.Lerp(core.Lerp(c00, c10, fy), core.Lerp(c01, c11, fy), fz)
}

func (v *Volume) computeMaxGradientMagnitude() float64 {
	r := v.resolution
	maxMagnitude := 0.0
	for z := 0; z < r.Z; z++ {
		for y := 0; y < r.Y; y++ {
			for x := 0; x < r.X; x++ {
				g := core.NewVec3(
					v.Voxel(x+1, y, z)-v.Voxel(x-1, y, z),
					v.Voxel(x, y+1, z)-v.Voxel(x, y-1, z),
					v.Voxel(x, y, z+1)-v.Voxel(x, y, z-1),
				).Multiply(0.5)
				maxMagnitude = max(maxMagnitude, g.Length())
			}
		}
	}
	return maxMagnitude
}
