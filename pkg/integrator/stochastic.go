package integrator

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/material"
	"github.com/df07/go-exposure-render/pkg/scene"
)

// StochasticIntegrator renders single scattering: the nearest event along the
// camera ray is lit by one randomly chosen light, combining a light sample and
// a shader sample with multiple importance sampling
type StochasticIntegrator struct{}

// NewStochasticIntegrator creates a new single scattering integrator
func NewStochasticIntegrator() *StochasticIntegrator {
	return &StochasticIntegrator{}
}

// Li implements Integrator
func (si *StochasticIntegrator) Li(ray core.Ray, s *scene.Scene, rng core.Sampler) core.ColorXYZA {
	e := s.NearestIntersection(ray, rng)
	if !e.Valid {
		return core.ColorXYZA{}
	}

	var l core.ColorXYZ
	switch e.Type {
	case scene.LightEvent:
		l = e.Le

	case scene.ObjectEvent:
		l = e.Le.Add(uniformSampleOneLight(s, e, objectShading(s.Objects[e.ID], e), rng))

	case scene.VolumeEvent:
		m := s.Media[e.ID]
		emission := m.Property.Emission.Evaluate(e.Intensity)
		l = emission.Add(uniformSampleOneLight(s, e, volumeShading(m, e, rng), rng))
	}

	if !l.IsFinite() {
		core.Logger().Warn("dropping non-finite radiance sample", "event", e.Type.String())
		l = core.Black
	}
	return l.WithAlpha(1)
}

// uniformSampleOneLight picks one light uniformly and estimates its direct
// contribution at the event, scaled by the number of lights
func uniformSampleOneLight(s *scene.Scene, e scene.ScatterEvent, sh shading, rng core.Sampler) core.ColorXYZ {
	n := len(s.Lights)
	if n == 0 {
		return core.Black
	}
	i := min(int(rng.Get1D()*float64(n)), n-1)
	return estimateDirectLight(s, s.Lights[i], e, sh, rng).Multiply(float64(n))
}

// estimateDirectLight combines one light sample and one shader sample with
// the power heuristic
func estimateDirectLight(s *scene.Scene, light *lights.Light, e scene.ScatterEvent, sh shading, rng core.Sampler) core.ColorXYZ {
	ld := core.Black

	// Sample the light
	ls := lights.SampleLight(light, e.P, rng.Get3D())
	if ls.Pdf > 0 && !ls.Le.IsBlack() {
		f := sh.shader.F(e.Wo, ls.Wi)
		if !f.IsBlack() {
			shadow := core.NewRaySegment(e.P, ls.Wi, rayEpsilon, ls.Distance-rayEpsilon)
			if !s.Occluded(shadow, rng) {
				weight := core.PowerHeuristic(1, ls.Pdf, 1, sh.shader.Pdf(e.Wo, ls.Wi))
				ld = ld.Add(f.MultiplyColor(ls.Le).Multiply(sh.cosine(ls.Wi) * weight / ls.Pdf))
			}
		}
	}

	// Sample the shader and see whether it reaches the same light
	f, wi, shaderPdf := sh.shader.SampleF(e.Wo, material.NewShaderSample(rng))
	if shaderPdf <= 0 || f.IsBlack() {
		return ld
	}
	lightPdf := lights.LightPdf(light, e.P, wi)
	if lightPdf <= 0 {
		return ld
	}

	isect, ok := light.Shape.Intersect(core.NewRaySegment(e.P, wi, rayEpsilon, math.MaxFloat64))
	if !ok {
		return ld
	}
	le := light.Le(isect.UV, isect.Front)
	if le.IsBlack() {
		return ld
	}

	shadow := core.NewRaySegment(e.P, wi, rayEpsilon, isect.T-rayEpsilon)
	if s.Occluded(shadow, rng) {
		return ld
	}
	weight := core.PowerHeuristic(1, shaderPdf, 1, lightPdf)
	return ld.Add(f.MultiplyColor(le).Multiply(sh.cosine(wi) * weight / shaderPdf))
}
