package volume

import (
	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/transfer"
)

// OctreeConfig configures the octree accelerator
type OctreeConfig struct {
	MaxDepth int
}

// DefaultOctreeConfig returns a four level octree
func DefaultOctreeConfig() OctreeConfig {
	return OctreeConfig{MaxDepth: 4}
}

type octreeNode struct {
	lo, hi   core.Vec3i // Voxel range [lo, hi)
	minI     float64
	maxI     float64
	empty    bool
	children []*octreeNode
}

// Octree subdivides the volume hierarchically. Each node records the intensity
// range it can produce; a node is empty when opacity is zero over that range.
type Octree struct {
	volume *Volume
	root   *octreeNode
	nodes  int
}

// NewOctree builds an octree over the volume for the given opacity function
func NewOctree(v *Volume, opacity *transfer.Scalar, config OctreeConfig) *Octree {
	o := &Octree{volume: v}
	o.root = o.build(core.Vec3i{}, v.Resolution(), 0, max(config.MaxDepth, 0), opacity)

	core.Logger().Debug("octree accelerator built", "nodes", o.nodes, "max_depth", config.MaxDepth)
	return o
}

func (o *Octree) build(lo, hi core.Vec3i, depth, maxDepth int, opacity *transfer.Scalar) *octreeNode {
	o.nodes++
	node := &octreeNode{lo: lo, hi: hi}

	size := core.NewVec3i(hi.X-lo.X, hi.Y-lo.Y, hi.Z-lo.Z)
	if depth >= maxDepth || (size.X <= 1 && size.Y <= 1 && size.Z <= 1) {
		node.minI, node.maxI = o.volume.intensityRange(lo, hi)
		node.empty = zeroOver(opacity, node.minI, node.maxI)
		return node
	}

	mid := core.NewVec3i(lo.X+size.X/2, lo.Y+size.Y/2, lo.Z+size.Z/2)
	node.minI, node.maxI = float64(MaxIntensity)+1, -1
	for i := 0; i < 8; i++ {
		clo, chi := lo, hi
		if i&1 == 0 {
			chi.X = mid.X
		} else {
			clo.X = mid.X
		}
		if i&2 == 0 {
			chi.Y = mid.Y
		} else {
			clo.Y = mid.Y
		}
		if i&4 == 0 {
			chi.Z = mid.Z
		} else {
			clo.Z = mid.Z
		}
		// Axes of size one are not split
		if clo.X >= chi.X || clo.Y >= chi.Y || clo.Z >= chi.Z {
			continue
		}

		child := o.build(clo, chi, depth+1, maxDepth, opacity)
		node.children = append(node.children, child)
		node.minI = min(node.minI, child.minI)
		node.maxI = max(node.maxI, child.maxI)
	}
	node.empty = zeroOver(opacity, node.minI, node.maxI)
	return node
}

// find returns the shallowest empty node containing the voxel-space point u,
// or the leaf containing it when no enclosing node is empty
func (o *Octree) find(u core.Vec3) *octreeNode {
	node := o.root
	for !node.empty && len(node.children) > 0 {
		next := node.children[0]
		for _, child := range node.children {
			if child.contains(u) {
				next = child
				break
			}
		}
		node = next
	}
	return node
}

func (n *octreeNode) contains(u core.Vec3) bool {
	return u.X >= float64(n.lo.X) && u.X < float64(n.hi.X) &&
		u.Y >= float64(n.lo.Y) && u.Y < float64(n.hi.Y) &&
		u.Z >= float64(n.lo.Z) && u.Z < float64(n.hi.Z)
}

// Empty implements Accelerator
func (o *Octree) Empty(p core.Vec3) bool {
	return o.find(o.clampedVoxelCoordinates(p)).empty
}

// NextBoundary implements Accelerator
func (o *Octree) NextBoundary(p, d core.Vec3) float64 {
	node := o.find(o.clampedVoxelCoordinates(p))
	origin := o.volume.BoundingBox().Min
	spacing := o.volume.Spacing()
	lo := origin.Add(node.lo.ToVec3().MultiplyVec(spacing))
	hi := origin.Add(node.hi.ToVec3().MultiplyVec(spacing))
	return exitDistance(p, d, lo, hi)
}

// clampedVoxelCoordinates keeps points on the far faces inside the last voxel
func (o *Octree) clampedVoxelCoordinates(p core.Vec3) core.Vec3 {
	u := o.volume.voxelCoordinates(p)
	r := o.volume.Resolution().ToVec3()
	const inset = 1e-9
	return core.NewVec3(
		core.Clamp(u.X, 0, r.X-inset),
		core.Clamp(u.Y, 0, r.Y-inset),
		core.Clamp(u.Z, 0, r.Z-inset),
	)
}

// Nodes returns the number of nodes in the tree
func (o *Octree) Nodes() int {
	return o.nodes
}
