package integrator

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/material"
	"github.com/df07/go-exposure-render/pkg/scene"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// shading is the shader picked for a scatter event together with what is
// needed to weight light arriving at it
type shading struct {
	shader material.Shader
	n      core.Vec3
	phase  bool // Phase functions carry no cosine term
}

// cosine returns the foreshortening factor for light arriving from wi
func (sh shading) cosine(wi core.Vec3) float64 {
	if sh.phase {
		return 1
	}
	return math.Abs(sh.n.Dot(wi))
}

// BrdfProbability returns the probability with which a volume event at p is
// shaded with the BRDF rather than the phase function
func BrdfProbability(m volume.Medium, p core.Vec3, intensity float64) float64 {
	prop := m.Property
	switch prop.ShadingMode {
	case volume.BrdfOnly:
		return 1
	case volume.PhaseFunctionOnly:
		return 0
	case volume.Modulation:
		g := m.Volume.NormalizedGradientMagnitude(p)
		return 1 - (1-g)*(1-g)
	default:
		g := m.Volume.NormalizedGradientMagnitude(p)
		exponent := prop.HybridSensitivity * math.Pow(prop.GradientFactor, prop.HybridExponent) * g
		pdf := 1 - math.Exp(-exponent)
		if prop.OpacityModulated {
			pdf *= prop.OpacityAt(intensity)
		}
		return pdf
	}
}

// volumeShading chooses the shader for a volume event. A single uniform draw
// picks the BRDF with BrdfProbability; flat regions without a usable gradient
// always scatter with the phase function.
func volumeShading(m volume.Medium, e scene.ScatterEvent, rng core.Sampler) shading {
	prop := m.Property
	kd := prop.Diffuse.Evaluate(e.Intensity)

	if !e.N.IsZero() && rng.Get1D() < BrdfProbability(m, e.P, e.Intensity) {
		ks := prop.Specular.Evaluate(e.Intensity)
		ior := prop.IOR.Evaluate(e.Intensity)
		exponent := material.GlossinessExponent(prop.Glossiness.Evaluate(e.Intensity))
		return shading{
			shader: material.NewBrdf(e.N, e.Wo, kd, ks, ior, exponent),
			n:      e.N,
		}
	}
	return shading{shader: material.IsotropicPhase{Kd: kd}, phase: true}
}

// objectShading shades an object hit with the object's textures
func objectShading(o *scene.Object, e scene.ScatterEvent) shading {
	hit := geometry.Intersection{T: e.T, P: e.P, N: e.N, UV: e.UV, Front: e.Front}
	return shading{shader: o.Shader(hit, e.Wo), n: e.N}
}
