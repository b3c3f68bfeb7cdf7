package volume

import "github.com/df07/go-exposure-render/pkg/core"

// GradientMode selects the gradient estimator used for shading normals
type GradientMode int

const (
	ForwardDifferences GradientMode = iota
	CentralDifferences
	Filtered
)

func (m GradientMode) String() string {
	switch m {
	case ForwardDifferences:
		return "forward"
	case CentralDifferences:
		return "central"
	case Filtered:
		return "filtered"
	default:
		return "unknown"
	}
}

func (v *Volume) offsets() (core.Vec3, core.Vec3, core.Vec3) {
	s := v.spacing
	return core.NewVec3(s.X, 0, 0), core.NewVec3(0, s.Y, 0), core.NewVec3(0, 0, s.Z)
}

// GradientCD estimates the gradient with central differences. The result
// points from high towards low intensity.
func (v *Volume) GradientCD(p core.Vec3) core.Vec3 {
	x, y, z := v.offsets()
	return core.NewVec3(
		v.Intensity(p.Subtract(x))-v.Intensity(p.Add(x)),
		v.Intensity(p.Subtract(y))-v.Intensity(p.Add(y)),
		v.Intensity(p.Subtract(z))-v.Intensity(p.Add(z)),
	)
}

// GradientFD estimates the gradient with forward differences
func (v *Volume) GradientFD(p core.Vec3) core.Vec3 {
	x, y, z := v.offsets()
	i := v.Intensity(p)
	return core.NewVec3(
		i-v.Intensity(p.Add(x)),
		i-v.Intensity(p.Add(y)),
		i-v.Intensity(p.Add(z)),
	)
}

// GradientFiltered blends the central-difference gradient at p with the
// average of eight diagonal neighbours
func (v *Volume) GradientFiltered(p core.Vec3) core.Vec3 {
	s := v.spacing
	at := func(dx, dy, dz float64) core.Vec3 {
		return v.GradientCD(p.Add(core.NewVec3(dx*s.X, dy*s.Y, dz*s.Z)))
	}

	g0 := v.GradientCD(p)
	g1, g2 := at(-1, -1, -1), at(1, 1, 1)
	g3, g4 := at(-1, 1, -1), at(1, -1, 1)
	g5, g6 := at(-1, -1, 1), at(1, 1, -1)
	g7, g8 := at(1, -1, -1), at(-1, 1, 1)

	l0 := g1.Lerp(g2, 0.5).Lerp(g3.Lerp(g4, 0.5), 0.5)
	l1 := g5.Lerp(g6, 0.5).Lerp(g7.Lerp(g8, 0.5), 0.5)
	return g0.Lerp(l0.Lerp(l1, 0.5), 0.75)
}

// Gradient dispatches to the estimator selected by mode
func (v *Volume) Gradient(mode GradientMode, p core.Vec3) core.Vec3 {
	switch mode {
	case ForwardDifferences:
		return v.GradientFD(p)
	case Filtered:
		return v.GradientFiltered(p)
	default:
		return v.GradientCD(p)
	}
}

// Normal returns the normalized gradient, or zero where the field is flat
func (v *Volume) Normal(mode GradientMode, p core.Vec3) core.Vec3 {
	return v.Gradient(mode, p).Normalize()
}

// GradientMagnitude is the length of the half-scaled central-difference gradient
func (v *Volume) GradientMagnitude(p core.Vec3) float64 {
	x, y, z := v.offsets()
	return core.NewVec3(
		v.Intensity(p.Add(x))-v.Intensity(p.Subtract(x)),
		v.Intensity(p.Add(y))-v.Intensity(p.Subtract(y)),
		v.Intensity(p.Add(z))-v.Intensity(p.Subtract(z)),
	).Multiply(0.5).Length()
}

// NormalizedGradientMagnitude maps the gradient magnitude at p to [0, 1]
func (v *Volume) NormalizedGradientMagnitude(p core.Vec3) float64 {
	return core.Clamp(v.GradientMagnitude(p)*core.Reciprocal(v.maxGradientMagnitude), 0, 1)
}
