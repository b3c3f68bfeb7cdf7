package integrator

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/scene"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// DefaultOpaqueThreshold is the accumulated alpha at which compositing stops
const DefaultOpaqueThreshold = 0.99

// RayCastingIntegrator is standard direct volume rendering: emission and
// absorption are composited front to back at fixed steps, with headlight
// diffuse shading where the gradient is strong enough
type RayCastingIntegrator struct {
	OpaqueThreshold float64
}

// NewRayCastingIntegrator creates a compositing integrator with early ray
// termination at DefaultOpaqueThreshold
func NewRayCastingIntegrator() *RayCastingIntegrator {
	return &RayCastingIntegrator{OpaqueThreshold: DefaultOpaqueThreshold}
}

// Li implements Integrator
func (rc *RayCastingIntegrator) Li(ray core.Ray, s *scene.Scene, rng core.Sampler) core.ColorXYZA {
	wo := ray.Direction.Normalize().Negate()

	// The nearest surface bounds the march and shows through what is left
	surfaceT, surfaceColor, hitSurface := rc.surface(ray, s, wo)
	if hitSurface {
		ray.MaxT = min(ray.MaxT, surfaceT)
	}

	var c core.ColorXYZ
	a := 0.0
	for _, m := range s.Media {
		c, a = rc.composite(m, ray, wo, rng, c, a)
		if a >= rc.OpaqueThreshold {
			break
		}
	}

	if hitSurface && a < rc.OpaqueThreshold {
		c = c.Add(surfaceColor.Multiply(1 - a))
		a = 1
	}
	return c.WithAlpha(a)
}

// composite accumulates one medium into the running color and alpha
func (rc *RayCastingIntegrator) composite(m volume.Medium, ray core.Ray, wo core.Vec3, rng core.Sampler, c core.ColorXYZ, a float64) (core.ColorXYZ, float64) {
	prop := m.Property
	step := prop.StepFactorPrimary * m.Volume.MinStep()
	stepLength := step * ray.Direction.Length()

	m.Walk(ray, rng, step, func(t float64, p core.Vec3) bool {
		intensity := m.Volume.Intensity(p)
		alpha := 1 - math.Exp(-prop.Extinction(intensity)*stepLength)
		if alpha <= 0 {
			return true
		}

		color := prop.Emission.Evaluate(intensity).Add(rc.shade(m, p, intensity, wo))
		c = c.Add(color.Multiply((1 - a) * alpha))
		a += (1 - a) * alpha
		return a < rc.OpaqueThreshold
	})
	return c, a
}

// shade lights a sample with a headlight. The diffuse term fades in as the
// normalized gradient magnitude approaches GradientThreshold.
func (rc *RayCastingIntegrator) shade(m volume.Medium, p core.Vec3, intensity float64, wo core.Vec3) core.ColorXYZ {
	prop := m.Property
	kd := prop.Diffuse.Evaluate(intensity)

	n := m.Volume.Normal(prop.GradientMode, p)
	if n.IsZero() {
		return kd
	}

	weight := 1.0
	if prop.GradientThreshold > 0 {
		weight = core.Clamp(m.Volume.NormalizedGradientMagnitude(p)/prop.GradientThreshold, 0, 1)
	}
	return kd.Multiply(core.Lerp(1, math.Abs(n.Dot(wo)), weight))
}

// surface returns the nearest visible light or object and its headlight color
func (rc *RayCastingIntegrator) surface(ray core.Ray, s *scene.Scene, wo core.Vec3) (float64, core.ColorXYZ, bool) {
	lightHit, hitLight := lights.IntersectLights(s.Lights, ray, true)
	objectHit, hitObject := scene.IntersectObjects(s.Objects, ray, true)

	if hitLight && (!hitObject || lightHit.Intersection.T <= objectHit.Intersection.T) {
		return lightHit.Intersection.T, lightHit.Le, true
	}
	if !hitObject {
		return 0, core.Black, false
	}

	isect := objectHit.Intersection
	o := s.Objects[objectHit.Index]
	kd := o.Diffuse.Evaluate(isect.UV)
	color := kd.Multiply(math.Abs(isect.N.Dot(wo))).Add(o.Le(isect.UV, isect.Front))
	return isect.T, color, true
}
