package geometry

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Alignment positions a local frame in world space. The local +z axis is the
// primitive's front-facing normal.
type Alignment interface {
	Transform() core.Transform
}

// Axis selects one of the world coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisAlign orients the local z axis along a world axis, optionally flipped
type AxisAlign struct {
	Axis     Axis
	AutoFlip bool // Face the negative direction of the axis
	Position core.Vec3
}

// Transform implements Alignment
func (a AxisAlign) Transform() core.Transform {
	var u, v, w core.Vec3
	switch a.Axis {
	case AxisX:
		u, v, w = core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0)
	case AxisY:
		u, v, w = core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)
	default:
		u, v, w = core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1)
	}

	// Flip two axes to keep the basis right-handed
	if a.AutoFlip {
		u, w = u.Negate(), w.Negate()
	}
	return core.NewTransform(core.FromBasis(u, v, w, a.Position))
}

// LookAt places the origin at Position with local +z pointing at Target
type LookAt struct {
	Position core.Vec3
	Target   core.Vec3
	Up       core.Vec3
}

// Transform implements Alignment
func (l LookAt) Transform() core.Transform {
	w := l.Target.Subtract(l.Position).Normalize()
	u, v := lookAtBasis(w, l.Up)
	return core.NewTransform(core.FromBasis(u, v, w, l.Position))
}

// Spherical places the origin on a sphere around Center, facing the center.
// Angles are in degrees.
type Spherical struct {
	Elevation float64
	Azimuth   float64
	Offset    float64 // Distance from the center
	Center    core.Vec3
}

// Direction returns the unit vector from the center to the aligned origin
func (s Spherical) Direction() core.Vec3 {
	e, a := core.Radians(s.Elevation), core.Radians(s.Azimuth)
	return core.NewVec3(math.Cos(e)*math.Sin(a), math.Sin(e), math.Cos(e)*math.Cos(a))
}

// Transform implements Alignment
func (s Spherical) Transform() core.Transform {
	dir := s.Direction()
	p := s.Center.Add(dir.Multiply(s.Offset))
	u, v := lookAtBasis(dir.Negate(), core.NewVec3(0, 1, 0))
	return core.NewTransform(core.FromBasis(u, v, dir.Negate(), p))
}

// Manual uses an explicit local-to-world matrix
type Manual struct {
	TM core.Matrix44
}

// Transform implements Alignment
func (m Manual) Transform() core.Transform {
	return core.NewTransform(m.TM)
}

// CameraRelative applies Offset in the frame of a camera transform, so the
// shape follows the camera around
type CameraRelative struct {
	Camera core.Transform
	Offset core.Matrix44
}

// Transform implements Alignment
func (c CameraRelative) Transform() core.Transform {
	return core.NewTransform(c.Camera.TM.Multiply(c.Offset))
}

// lookAtBasis returns tangents u and v completing a right-handed frame around w
func lookAtBasis(w, up core.Vec3) (core.Vec3, core.Vec3) {
	u := up.Cross(w).Normalize()
	if u.IsZero() {
		// up is parallel to w
		u = core.NewVec3(1, 0, 0).Cross(w).Normalize()
		if u.IsZero() {
			u = core.NewVec3(0, 1, 0).Cross(w).Normalize()
		}
	}
	return u, w.Cross(u)
}
