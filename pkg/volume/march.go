package volume

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Clipper removes the region it encloses from the volume
type Clipper interface {
	Inside(p core.Vec3) bool
	// ClipRange returns the ray segment inside the clipper, when it can compute one
	ClipRange(ray core.Ray) (t0, t1 float64, ok bool)
}

// Medium is a volume bound to the property and clippers it is rendered with
type Medium struct {
	Volume      *Volume
	Property    *Property
	Accelerator Accelerator // nil disables empty-space skipping
	Clippers    []Clipper
}

// NewMedium binds a volume to a property and builds the accelerator the
// property asks for
func NewMedium(v *Volume, property *Property, clippers []Clipper) Medium {
	m := Medium{Volume: v, Property: property, Clippers: clippers}
	switch property.Acceleration {
	case GridAcceleration:
		m.Accelerator = NewGrid(v, property.Opacity, DefaultGridConfig())
	case OctreeAcceleration:
		m.Accelerator = NewOctree(v, property.Opacity, DefaultOctreeConfig())
	}
	return m
}

// Event is a scattering event found by free-flight sampling
type Event struct {
	T         float64
	P         core.Vec3
	N         core.Vec3 // Normalized gradient, zero in flat regions
	Wo        core.Vec3
	Intensity float64
}

// IntersectVolume draws a free-flight distance and marches the ray until the
// accumulated optical depth reaches it. It reports no event when the ray
// leaves the volume first.
func IntersectVolume(m Medium, ray core.Ray, rng core.Sampler) (Event, bool) {
	step := m.Property.StepFactorPrimary * m.Volume.MinStep()
	t, ok := m.march(ray, rng, step)
	if !ok {
		return Event{}, false
	}

	p := ray.At(t)
	return Event{
		T:         t,
		P:         p,
		N:         m.Volume.Normal(m.Property.GradientMode, p),
		Wo:        ray.Direction.Negate(),
		Intensity: m.Volume.Intensity(p),
	}, true
}

// IntersectsVolume is the shadow-ray variant of IntersectVolume. It always
// reports false when shadows are disabled.
func IntersectsVolume(m Medium, ray core.Ray, rng core.Sampler) bool {
	if !m.Property.Shadows {
		return false
	}

	if d := m.Property.MaxShadowDistance; d > 0 {
		limit := d * m.Volume.BoundingBox().Size().MaxComponent()
		ray.MaxT = min(ray.MaxT, ray.MinT+limit*core.Reciprocal(ray.Direction.Length()))
	}

	step := m.Property.StepFactorShadow * m.Volume.MinStep()
	_, ok := m.march(ray, rng, step)
	return ok
}

// Transmittance estimates the fraction of light that crosses the ray segment
// by averaging n shadow rays
func Transmittance(m Medium, ray core.Ray, rng core.Sampler, n int) float64 {
	if n <= 0 {
		return 1
	}
	unblocked := 0
	for i := 0; i < n; i++ {
		if !IntersectsVolume(m, ray, rng) {
			unblocked++
		}
	}
	return float64(unblocked) / float64(n)
}

// Walk visits the jittered fixed-step samples t0 + (k+ξ)·step along the ray
// until visit returns false or the ray leaves the volume. Samples in empty
// cells or clipped segments are skipped without visiting, and skipping jumps
// over whole steps so the visited positions do not depend on acceleration.
func (m Medium) Walk(ray core.Ray, rng core.Sampler, step float64, visit func(t float64, p core.Vec3) bool) {
	t0, t1, ok := m.Volume.BoundingBox().Intersect(ray)
	if !ok || step <= 0 {
		return
	}
	start := t0 + rng.Get1D()*step

	// Skip to the first sample at or after t, never moving backwards
	skipTo := func(k int, t float64) int {
		next := int(math.Ceil((t-start)/step - 1e-9))
		return max(next, k+1)
	}

	for k := 0; ; {
		t := start + float64(k)*step
		if t > t1 {
			return
		}
		p := ray.At(t)

		if m.Accelerator != nil && m.Accelerator.Empty(p) {
			k = skipTo(k, t+m.Accelerator.NextBoundary(p, ray.Direction))
			continue
		}

		if clipper := m.clipperAt(p); clipper != nil {
			if _, c1, ok := clipper.ClipRange(ray); ok && c1 > t {
				k = skipTo(k, c1)
			} else {
				k++
			}
			continue
		}

		if !visit(t, p) {
			return
		}
		k++
	}
}

// march returns the first sample at which the optical depth exceeds -ln ξ
func (m Medium) march(ray core.Ray, rng core.Sampler, step float64) (float64, bool) {
	s := -math.Log(rng.Get1D())
	stepLength := step * ray.Direction.Length()

	sigma := 0.0
	hit, found := 0.0, false
	m.Walk(ray, rng, step, func(t float64, p core.Vec3) bool {
		sigma += m.Property.Extinction(m.Volume.Intensity(p)) * stepLength
		if sigma >= s {
			hit, found = t, true
			return false
		}
		return true
	})
	return hit, found
}

func (m Medium) clipperAt(p core.Vec3) Clipper {
	for _, c := range m.Clippers {
		if c.Inside(p) {
			return c
		}
	}
	return nil
}
