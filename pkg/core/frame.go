package core

// Frame is an orthonormal shading basis. Nn is the shading normal, Nu and Nv
// span the tangent plane.
type Frame struct {
	Nn, Nu, Nv Vec3
}

// NewShadingFrame builds the basis used for BRDF evaluation: Nu is
// perpendicular to both the normal and the outgoing direction. When the two are
// parallel an arbitrary tangent is used instead.
func NewShadingFrame(n, wo Vec3) Frame {
	nn := n.Normalize()
	nu := nn.Cross(wo).Normalize()
	if nu.IsZero() {
		nu = orthogonal(nn)
	}
	nv := nn.Cross(nu).Normalize()
	return Frame{Nn: nn, Nu: nu, Nv: nv}
}

// ToLocal expresses a world direction in the frame, with Nn as +z
func (f Frame) ToLocal(w Vec3) Vec3 {
	return NewVec3(w.Dot(f.Nu), w.Dot(f.Nv), w.Dot(f.Nn))
}

// ToWorld maps a local direction back to world space
func (f Frame) ToWorld(w Vec3) Vec3 {
	return f.Nu.Multiply(w.X).Add(f.Nv.Multiply(w.Y)).Add(f.Nn.Multiply(w.Z))
}
