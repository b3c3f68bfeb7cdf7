package material

import (
	"github.com/df07/go-exposure-render/pkg/core"
)

// Shader evaluates and samples scattering at a surface or volume event.
// All directions are in world space and point away from the event.
type Shader interface {
	// F evaluates the scattering function for outgoing wo and incident wi
	F(wo, wi core.Vec3) core.ColorXYZ

	// SampleF draws an incident direction and returns the function value and
	// its density with respect to solid angle
	SampleF(wo core.Vec3, sample ShaderSample) (f core.ColorXYZ, wi core.Vec3, pdf float64)

	// Pdf returns the density SampleF uses for wi
	Pdf(wo, wi core.Vec3) float64
}

// ShaderSample holds the random numbers consumed by SampleF
type ShaderSample struct {
	Component float64   // Picks a lobe in mixture models
	Dir       core.Vec2 // Samples the direction within the lobe
}

// NewShaderSample draws a ShaderSample from a sampler
func NewShaderSample(sampler core.Sampler) ShaderSample {
	return ShaderSample{Component: sampler.Get1D(), Dir: sampler.Get2D()}
}
