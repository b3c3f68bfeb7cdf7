package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Lambert is a perfectly diffuse lobe in a local shading frame
type Lambert struct {
	Kd core.ColorXYZ
}

// F returns Kd/π for directions in the same hemisphere
func (l Lambert) F(wo, wi core.Vec3) core.ColorXYZ {
	if !core.SameHemisphere(wo, wi) {
		return core.Black
	}
	return l.Kd.Multiply(1.0 / math.Pi)
}

// SampleF draws a cosine-distributed direction on the side of wo
func (l Lambert) SampleF(wo core.Vec3, u core.Vec2) (core.ColorXYZ, core.Vec3, float64) {
	wi := core.CosineWeightedHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	return l.F(wo, wi), wi, l.Pdf(wo, wi)
}

// Pdf is the cosine-hemisphere density
func (l Lambert) Pdf(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePdf(wi.Z)
}
