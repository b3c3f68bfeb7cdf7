package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// IsotropicPhase scatters light equally in all directions
type IsotropicPhase struct {
	Kd core.ColorXYZ
}

// F implements Shader
func (p IsotropicPhase) F(wo, wi core.Vec3) core.ColorXYZ {
	return p.Kd.Multiply(1.0 / (4 * math.Pi))
}

// SampleF implements Shader
func (p IsotropicPhase) SampleF(wo core.Vec3, sample ShaderSample) (core.ColorXYZ, core.Vec3, float64) {
	wi := core.UniformSampleSphere(sample.Dir)
	return p.F(wo, wi), wi, core.UniformSpherePdf()
}

// Pdf implements Shader
func (p IsotropicPhase) Pdf(wo, wi core.Vec3) float64 {
	return core.UniformSpherePdf()
}
