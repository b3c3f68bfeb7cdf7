package lights

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// SampleLight samples a point on the light uniformly by area and converts the
// density to solid angle as seen from p
func SampleLight(light *Light, p core.Vec3, uvw core.Vec3) LightSample {
	ss := light.Shape.Sample(uvw)

	d := ss.P.Subtract(p)
	dist := d.Length()
	if dist == 0 {
		return LightSample{P: ss.P, N: ss.N}
	}
	wi := d.Multiply(1 / dist)

	// Cosine at the light, positive when the front face points at p
	cosLight := ss.N.Dot(wi.Negate())
	sample := LightSample{P: ss.P, N: ss.N, Wi: wi, Distance: dist}
	if cosLight == 0 {
		return sample
	}

	sample.Le = light.Le(ss.UV, cosLight > 0)
	sample.Pdf = dist * dist / (math.Abs(cosLight) * light.Shape.Area())
	return sample
}

// LightPdf returns the solid angle density with which SampleLight would
// produce direction wi from p
func LightPdf(light *Light, p, wi core.Vec3) float64 {
	isect, ok := light.Shape.Intersect(core.NewRay(p, wi))
	if !ok {
		return 0
	}

	d := isect.P.Subtract(p)
	cosLight := math.Abs(isect.N.Dot(wi.Normalize()))
	if cosLight == 0 {
		return 0
	}
	return d.LengthSquared() / (cosLight * light.Shape.Area())
}

// IntersectLights returns the nearest light hit along the ray. Invisible
// lights are skipped when respectVisible is set.
func IntersectLights(lights []*Light, ray core.Ray, respectVisible bool) (LightHit, bool) {
	hit := LightHit{Index: -1}
	closest := math.Inf(1)

	// Ties keep the first light in scan order
	for i, light := range lights {
		if respectVisible && !light.Visible {
			continue
		}
		isect, ok := light.Shape.Intersect(ray)
		if !ok || isect.T >= closest {
			continue
		}
		closest = isect.T
		hit = LightHit{Index: i, Intersection: isect}
	}

	if hit.Index < 0 {
		return LightHit{}, false
	}
	hit.Le = lights[hit.Index].Le(hit.Intersection.UV, hit.Intersection.Front)
	return hit, true
}

// IntersectsLight reports whether any light blocks the ray
func IntersectsLight(lights []*Light, ray core.Ray, respectVisible bool) bool {
	for _, light := range lights {
		if respectVisible && !light.Visible {
			continue
		}
		if light.Shape.Intersects(ray) {
			return true
		}
	}
	return false
}
