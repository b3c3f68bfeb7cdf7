package volume

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/transfer"
)

// Accelerator reports regions of a volume where the opacity is zero so the
// marcher can skip them without sampling
type Accelerator interface {
	// Empty reports whether p lies in a region with zero opacity
	Empty(p core.Vec3) bool
	// NextBoundary returns the ray parameter distance from p along d to the
	// boundary of the region containing p
	NextBoundary(p, d core.Vec3) float64
}

// GridConfig configures a macro-cell grid
type GridConfig struct {
	CellSize int // Macro-cell edge in voxels
}

// DefaultGridConfig returns 8-voxel macro-cells
func DefaultGridConfig() GridConfig {
	return GridConfig{CellSize: 8}
}

// Grid partitions the volume into uniform macro-cells flagged empty when the
// opacity transfer function is zero over every intensity the cell can produce
type Grid struct {
	volume   *Volume
	cellSize int
	cells    core.Vec3i
	extent   core.Vec3 // World-space size of one cell
	empty    []bool
}

// NewGrid builds the macro-cell grid for a volume and opacity function
func NewGrid(v *Volume, opacity *transfer.Scalar, config GridConfig) *Grid {
	cs := max(config.CellSize, 1)
	r := v.Resolution()
	cells := core.NewVec3i((r.X+cs-1)/cs, (r.Y+cs-1)/cs, (r.Z+cs-1)/cs)

	g := &Grid{
		volume:   v,
		cellSize: cs,
		cells:    cells,
		extent:   v.Spacing().Multiply(float64(cs)),
		empty:    make([]bool, cells.Product()),
	}

	emptyCount := 0
	for z := 0; z < cells.Z; z++ {
		for y := 0; y < cells.Y; y++ {
			for x := 0; x < cells.X; x++ {
				lo := core.NewVec3i(x*cs, y*cs, z*cs)
				hi := core.NewVec3i((x+1)*cs, (y+1)*cs, (z+1)*cs)
				minI, maxI := v.intensityRange(lo, hi)
				if zeroOver(opacity, minI, maxI) {
					g.empty[g.index(x, y, z)] = true
					emptyCount++
				}
			}
		}
	}

	core.Logger().Debug("grid accelerator built",
		"cells", cells.Product(), "empty", emptyCount, "cell_size", cs)
	return g
}

func (g *Grid) index(x, y, z int) int {
	return (z*g.cells.Y+y)*g.cells.X + x
}

// CellIndex returns the macro-cell containing a world point, clamped to the grid
func (g *Grid) CellIndex(p core.Vec3) core.Vec3i {
	c := p.Subtract(g.volume.BoundingBox().Min).DivideVec(g.extent)
	return core.NewVec3i(
		core.ClampInt(int(math.Floor(c.X)), 0, g.cells.X-1),
		core.ClampInt(int(math.Floor(c.Y)), 0, g.cells.Y-1),
		core.ClampInt(int(math.Floor(c.Z)), 0, g.cells.Z-1),
	)
}

// Cells returns the number of macro-cells along each axis
func (g *Grid) Cells() core.Vec3i {
	return g.cells
}

// Empty implements Accelerator
func (g *Grid) Empty(p core.Vec3) bool {
	c := g.CellIndex(p)
	return g.empty[g.index(c.X, c.Y, c.Z)]
}

// NextBoundary implements Accelerator with a single DDA step
func (g *Grid) NextBoundary(p, d core.Vec3) float64 {
	c := g.CellIndex(p).ToVec3()
	lo := g.volume.BoundingBox().Min.Add(c.MultiplyVec(g.extent))
	hi := lo.Add(g.extent)
	return exitDistance(p, d, lo, hi)
}

// exitDistance returns the ray parameter at which p + t·d leaves the box [lo, hi]
func exitDistance(p, d, lo, hi core.Vec3) float64 {
	t := math.MaxFloat64
	for axis := 0; axis < 3; axis++ {
		di := d.Component(axis)
		if math.Abs(di) < 1e-12 {
			continue
		}
		plane := hi.Component(axis)
		if di < 0 {
			plane = lo.Component(axis)
		}
		t = min(t, max(0, (plane-p.Component(axis))/di))
	}
	return t
}

// intensityRange returns the smallest and largest voxel values that trilinear
// filtering can read for points in the voxel range [lo, hi), which includes a
// one voxel apron on every side
func (v *Volume) intensityRange(lo, hi core.Vec3i) (float64, float64) {
	minI, maxI := math.Inf(1), math.Inf(-1)
	r := v.resolution
	for z := max(lo.Z-1, 0); z <= min(hi.Z, r.Z-1); z++ {
		for y := max(lo.Y-1, 0); y <= min(hi.Y, r.Y-1); y++ {
			for x := max(lo.X-1, 0); x <= min(hi.X, r.X-1); x++ {
				i := v.Voxel(x, y, z)
				minI = min(minI, i)
				maxI = max(maxI, i)
			}
		}
	}
	return minI, maxI
}
