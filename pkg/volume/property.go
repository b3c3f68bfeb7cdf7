package volume

import (
	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/transfer"
)

// ShadingMode selects how volume scattering events are shaded
type ShadingMode int

const (
	BrdfOnly ShadingMode = iota
	PhaseFunctionOnly
	Hybrid
	Modulation
)

func (m ShadingMode) String() string {
	switch m {
	case BrdfOnly:
		return "brdf"
	case PhaseFunctionOnly:
		return "phase"
	case Hybrid:
		return "hybrid"
	case Modulation:
		return "modulation"
	default:
		return "unknown"
	}
}

// AccelerationKind selects the empty-space skipping structure
type AccelerationKind int

const (
	NoAcceleration AccelerationKind = iota
	GridAcceleration
	OctreeAcceleration
)

// Property bundles the transfer functions and marching parameters of a
// rendered volume
type Property struct {
	Opacity    *transfer.Scalar
	Diffuse    *transfer.Color
	Specular   *transfer.Color
	Glossiness *transfer.Scalar
	IOR        *transfer.Scalar
	Emission   *transfer.Color

	DensityScale      float64 // Extinction coefficient at opacity 1
	StepFactorPrimary float64 // Primary step size in units of the smallest voxel extent
	StepFactorShadow  float64 // Shadow step size in units of the smallest voxel extent
	Shadows           bool
	MaxShadowDistance float64 // Shadow ray length in units of the largest volume side, <= 0 for unbounded

	ShadingMode       ShadingMode
	GradientMode      GradientMode
	GradientFactor    float64
	GradientThreshold float64
	OpacityModulated  bool
	HybridSensitivity float64
	HybridExponent    float64

	Acceleration AccelerationKind
}

// DefaultProperty returns a ramp opacity over [0, 255] with a white diffuse
// response and hybrid shading
func DefaultProperty() *Property {
	opacity := transfer.NewScalar()
	_ = opacity.AddNode(0, 0)
	_ = opacity.AddNode(255, 1)

	return &Property{
		Opacity:    opacity,
		Diffuse:    transfer.ConstantColor(core.GrayXYZ(1)),
		Specular:   transfer.ConstantColor(core.Black),
		Glossiness: transfer.ConstantScalar(1),
		IOR:        transfer.ConstantScalar(5),
		Emission:   transfer.ConstantColor(core.Black),

		DensityScale:      100,
		StepFactorPrimary: 1,
		StepFactorShadow:  1,
		Shadows:           true,
		MaxShadowDistance: 2,

		ShadingMode:       Hybrid,
		GradientMode:      CentralDifferences,
		GradientFactor:    1,
		GradientThreshold: 0.5,
		OpacityModulated:  true,
		HybridSensitivity: 25,
		HybridExponent:    3,

		Acceleration: GridAcceleration,
	}
}

// OpacityAt evaluates the opacity transfer function
func (p *Property) OpacityAt(intensity float64) float64 {
	return p.Opacity.Evaluate(intensity)
}

// Extinction returns the extinction coefficient for an intensity
func (p *Property) Extinction(intensity float64) float64 {
	return p.DensityScale * p.Opacity.Evaluate(intensity)
}

// zeroOver reports whether the opacity function is zero for every intensity in
// [lo, hi]. A piecewise-linear function peaks at its nodes or interval ends.
func zeroOver(opacity *transfer.Scalar, lo, hi float64) bool {
	if opacity.Evaluate(lo) > 0 || opacity.Evaluate(hi) > 0 {
		return false
	}
	for _, node := range opacity.Nodes() {
		if node.Position > lo && node.Position < hi && node.Value > 0 {
			return false
		}
	}
	return true
}
