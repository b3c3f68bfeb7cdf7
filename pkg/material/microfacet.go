package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Blinn is the normalized Blinn-Phong microfacet distribution
type Blinn struct {
	Exponent float64
}

// D returns the density of half vector wh
func (b Blinn) D(wh core.Vec3) float64 {
	cosThetaH := math.Abs(wh.Z)
	return (b.Exponent + 2) / (2 * math.Pi) * math.Pow(cosThetaH, b.Exponent)
}

// Sample draws a half vector proportional to D·cosθh and reflects wo about it
func (b Blinn) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, float64) {
	cosTheta := math.Pow(u.X, 1/(b.Exponent+1))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	wh := core.SphericalDirection(sinTheta, cosTheta, phi)
	if !core.SameHemisphere(wo, wh) {
		wh = wh.Negate()
	}

	wi := wo.Negate().Add(wh.Multiply(2 * wo.Dot(wh)))
	return wi, b.pdf(wo, wh)
}

// Pdf returns the density of wi for the reflection sampling in Sample
func (b Blinn) Pdf(wo, wi core.Vec3) float64 {
	wh := wo.Add(wi).Normalize()
	if wh.IsZero() {
		return 0
	}
	return b.pdf(wo, wh)
}

func (b Blinn) pdf(wo, wh core.Vec3) float64 {
	woDotWh := wo.Dot(wh)
	if woDotWh <= 0 {
		return 0
	}
	cosTheta := math.Abs(wh.Z)
	return (b.Exponent + 1) * math.Pow(cosTheta, b.Exponent) / (2 * math.Pi * 4 * woDotWh)
}

// FresnelDielectric computes reflectance at a dielectric interface
type FresnelDielectric struct {
	EtaI float64
	EtaT float64
}

// Evaluate returns the unpolarized reflectance for the cosine of the incident angle
func (f FresnelDielectric) Evaluate(cosi float64) float64 {
	cosi = core.Clamp(cosi, -1, 1)

	etaI, etaT := f.EtaI, f.EtaT
	if cosi <= 0 {
		etaI, etaT = etaT, etaI
	}

	sint := etaI / etaT * math.Sqrt(math.Max(0, 1-cosi*cosi))
	if sint >= 1 {
		return 1 // total internal reflection
	}
	cost := math.Sqrt(math.Max(0, 1-sint*sint))
	return fresnelDielectric(math.Abs(cosi), cost, etaI, etaT)
}

func fresnelDielectric(cosi, cost, etaI, etaT float64) float64 {
	rParl := (etaT*cosi - etaI*cost) / (etaT*cosi + etaI*cost)
	rPerp := (etaI*cosi - etaT*cost) / (etaI*cosi + etaT*cost)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// Microfacet is a Torrance-Sparrow glossy lobe in a local shading frame
type Microfacet struct {
	R            core.ColorXYZ
	Distribution Blinn
	Fresnel      FresnelDielectric
}

// F evaluates R·D·G·Fr / (4 cosθi cosθo)
func (m Microfacet) F(wo, wi core.Vec3) core.ColorXYZ {
	if !core.SameHemisphere(wo, wi) {
		return core.Black
	}
	cosThetaO := math.Abs(wo.Z)
	cosThetaI := math.Abs(wi.Z)
	if cosThetaO == 0 || cosThetaI == 0 {
		return core.Black
	}

	wh := wi.Add(wo)
	if wh.IsZero() {
		return core.Black
	}
	wh = wh.Normalize()

	fr := m.Fresnel.Evaluate(wi.Dot(wh))
	return m.R.Multiply(m.Distribution.D(wh) * m.g(wo, wi, wh) * fr / (4 * cosThetaI * cosThetaO))
}

// g is the Torrance-Sparrow geometric attenuation term
func (m Microfacet) g(wo, wi, wh core.Vec3) float64 {
	nDotWh := math.Abs(wh.Z)
	nDotWo := math.Abs(wo.Z)
	nDotWi := math.Abs(wi.Z)
	woDotWh := math.Abs(wo.Dot(wh))
	if woDotWh == 0 {
		return 0
	}
	return math.Min(1, math.Min(2*nDotWh*nDotWo/woDotWh, 2*nDotWh*nDotWi/woDotWh))
}

// SampleF samples the distribution and evaluates the lobe
func (m Microfacet) SampleF(wo core.Vec3, u core.Vec2) (core.ColorXYZ, core.Vec3, float64) {
	wi, pdf := m.Distribution.Sample(wo, u)
	if !core.SameHemisphere(wo, wi) {
		return core.Black, wi, 0
	}
	return m.F(wo, wi), wi, pdf
}

// Pdf returns the sampling density of wi
func (m Microfacet) Pdf(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return m.Distribution.Pdf(wo, wi)
}

// GlossinessExponent maps a [0,1] glossiness to a Blinn exponent
func GlossinessExponent(glossiness float64) float64 {
	return 1000000.0 * math.Pow(core.Clamp(glossiness, 0, 1), 7)
}
