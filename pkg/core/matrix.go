package core

import "math"

// Matrix44 is a row-major 4x4 affine transformation matrix
type Matrix44 [4][4]float64

// Identity returns the identity matrix
func Identity() Matrix44 {
	return Matrix44{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate returns a translation matrix
func Translate(t Vec3) Matrix44 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

// Scale returns a scaling matrix
func Scale(s Vec3) Matrix44 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s.X, s.Y, s.Z
	return m
}

// RotateAxis returns a rotation of angle radians around a unit axis
func RotateAxis(axis Vec3, angle float64) Matrix44 {
	a := axis.Normalize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c

	m := Identity()
	m[0][0] = t*a.X*a.X + c
	m[0][1] = t*a.X*a.Y - s*a.Z
	m[0][2] = t*a.X*a.Z + s*a.Y
	m[1][0] = t*a.X*a.Y + s*a.Z
	m[1][1] = t*a.Y*a.Y + c
	m[1][2] = t*a.Y*a.Z - s*a.X
	m[2][0] = t*a.X*a.Z - s*a.Y
	m[2][1] = t*a.Y*a.Z + s*a.X
	m[2][2] = t*a.Z*a.Z + c
	return m
}

// FromBasis builds a matrix whose columns are u, v, w and whose translation is p
func FromBasis(u, v, w, p Vec3) Matrix44 {
	return Matrix44{
		{u.X, v.X, w.X, p.X},
		{u.Y, v.Y, w.Y, p.Y},
		{u.Z, v.Z, w.Z, p.Z},
		{0, 0, 0, 1},
	}
}

// LookAt returns a local-to-world matrix placing the origin at from with the local
// -z axis pointing at target and +y roughly along up
func LookAt(from, target, up Vec3) Matrix44 {
	w := from.Subtract(target).Normalize()
	u := up.Cross(w).Normalize()
	if u.IsZero() {
		u = orthogonal(w)
	}
	v := w.Cross(u)
	return FromBasis(u, v, w, from)
}

// Multiply returns m * other
func (m Matrix44) Multiply(other Matrix44) Matrix44 {
	var r Matrix44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return r
}

// TransformPoint applies the full affine transform to p
func (m Matrix44) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformVector applies the linear part of the transform to v
func (m Matrix44) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// TransformNormal transforms a normal with the transpose of m, so m must be the inverse
// of the matrix that was applied to points
func (m Matrix44) TransformNormal(n Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*n.X + m[1][0]*n.Y + m[2][0]*n.Z,
		Y: m[0][1]*n.X + m[1][1]*n.Y + m[2][1]*n.Z,
		Z: m[0][2]*n.X + m[1][2]*n.Y + m[2][2]*n.Z,
	}
}

// Inverse returns the inverse matrix using Gauss-Jordan elimination with partial
// pivoting. A singular matrix yields the zero matrix.
func (m Matrix44) Inverse() Matrix44 {
	a := m
	inv := Identity()

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Matrix44{}
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := 1.0 / a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] *= scale
			inv[col][j] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv
}

// Transform pairs a local-to-world matrix with its inverse
type Transform struct {
	TM    Matrix44 // local to world
	InvTM Matrix44 // world to local
}

// NewTransform creates a transform from a local-to-world matrix
func NewTransform(tm Matrix44) Transform {
	return Transform{TM: tm, InvTM: tm.Inverse()}
}

// IdentityTransform returns a transform that leaves everything in place
func IdentityTransform() Transform {
	return Transform{TM: Identity(), InvTM: Identity()}
}

// Then returns the transform that applies t and then other
func (t Transform) Then(other Transform) Transform {
	return Transform{
		TM:    other.TM.Multiply(t.TM),
		InvTM: t.InvTM.Multiply(other.InvTM),
	}
}

// orthogonal returns an arbitrary unit vector orthogonal to v
func orthogonal(v Vec3) Vec3 {
	if math.Abs(v.X) > 0.1 {
		return NewVec3(0, 1, 0).Cross(v).Normalize()
	}
	return NewVec3(1, 0, 0).Cross(v).Normalize()
}
