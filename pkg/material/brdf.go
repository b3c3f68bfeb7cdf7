package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Brdf combines a Lambert diffuse lobe with a Blinn microfacet lobe. SampleF
// picks one lobe with a fair coin and the returned density is the mixture of both.
type Brdf struct {
	Frame      core.Frame
	Lambert    Lambert
	Microfacet Microfacet
}

// NewBrdf creates the BRDF for a shading normal and outgoing direction
func NewBrdf(n, wo core.Vec3, kd, ks core.ColorXYZ, ior, exponent float64) Brdf {
	return Brdf{
		Frame:   core.NewShadingFrame(n, wo),
		Lambert: Lambert{Kd: kd},
		Microfacet: Microfacet{
			R:            ks,
			Distribution: Blinn{Exponent: exponent},
			Fresnel:      FresnelDielectric{EtaI: 1, EtaT: ior},
		},
	}
}

// F implements Shader
func (b Brdf) F(wo, wi core.Vec3) core.ColorXYZ {
	lwo, lwi := b.Frame.ToLocal(wo), b.Frame.ToLocal(wi)
	return b.Lambert.F(lwo, lwi).Add(b.Microfacet.F(lwo, lwi))
}

// SampleF implements Shader
func (b Brdf) SampleF(wo core.Vec3, sample ShaderSample) (core.ColorXYZ, core.Vec3, float64) {
	lwo := b.Frame.ToLocal(wo)

	var lwi core.Vec3
	if sample.Component < 0.5 {
		_, lwi, _ = b.Lambert.SampleF(lwo, sample.Dir)
	} else {
		_, lwi, _ = b.Microfacet.SampleF(lwo, sample.Dir)
	}

	pdf := 0.5 * (b.Lambert.Pdf(lwo, lwi) + b.Microfacet.Pdf(lwo, lwi))
	if pdf == 0 {
		return core.Black, b.Frame.ToWorld(lwi), 0
	}
	f := b.Lambert.F(lwo, lwi).Add(b.Microfacet.F(lwo, lwi))
	return f, b.Frame.ToWorld(lwi), pdf
}

// Pdf implements Shader
func (b Brdf) Pdf(wo, wi core.Vec3) float64 {
	lwo, lwi := b.Frame.ToLocal(wo), b.Frame.ToLocal(wi)
	return 0.5 * (b.Lambert.Pdf(lwo, lwi) + b.Microfacet.Pdf(lwo, lwi))
}

// FresnelBlend is the Ashikhmin-Shirley model: a glossy coat over a diffuse
// base whose contribution falls off as the coat reflects more
type FresnelBlend struct {
	Frame        core.Frame
	Rd           core.ColorXYZ
	Rs           core.ColorXYZ
	Distribution Blinn
}

// NewFresnelBlend creates the blend model for a shading normal and outgoing direction
func NewFresnelBlend(n, wo core.Vec3, rd, rs core.ColorXYZ, exponent float64) FresnelBlend {
	return FresnelBlend{
		Frame:        core.NewShadingFrame(n, wo),
		Rd:           rd,
		Rs:           rs,
		Distribution: Blinn{Exponent: exponent},
	}
}

func pow5(x float64) float64 {
	x2 := x * x
	return x2 * x2 * x
}

func (fb FresnelBlend) schlick(cosTheta float64) core.ColorXYZ {
	white := core.GrayXYZ(1)
	return fb.Rs.Add(white.Subtract(fb.Rs).Multiply(pow5(1 - cosTheta)))
}

func (fb FresnelBlend) f(wo, wi core.Vec3) core.ColorXYZ {
	if !core.SameHemisphere(wo, wi) {
		return core.Black
	}
	cosO, cosI := math.Abs(wo.Z), math.Abs(wi.Z)

	white := core.GrayXYZ(1)
	diffuse := fb.Rd.MultiplyColor(white.Subtract(fb.Rs)).
		Multiply(28.0 / (23.0 * math.Pi) * (1 - pow5(1-0.5*cosI)) * (1 - pow5(1-0.5*cosO)))

	wh := wi.Add(wo)
	if wh.IsZero() {
		return diffuse
	}
	wh = wh.Normalize()

	wiDotWh := math.Abs(wi.Dot(wh))
	denom := 4 * wiDotWh * math.Max(cosI, cosO)
	if denom == 0 {
		return diffuse
	}
	specular := fb.schlick(wiDotWh).Multiply(fb.Distribution.D(wh) / denom)
	return diffuse.Add(specular)
}

func (fb FresnelBlend) pdf(wo, wi core.Vec3) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return 0.5 * (core.CosineHemispherePdf(wi.Z) + fb.Distribution.Pdf(wo, wi))
}

// F implements Shader
func (fb FresnelBlend) F(wo, wi core.Vec3) core.ColorXYZ {
	return fb.f(fb.Frame.ToLocal(wo), fb.Frame.ToLocal(wi))
}

// SampleF implements Shader
func (fb FresnelBlend) SampleF(wo core.Vec3, sample ShaderSample) (core.ColorXYZ, core.Vec3, float64) {
	lwo := fb.Frame.ToLocal(wo)

	var lwi core.Vec3
	if sample.Component < 0.5 {
		lwi = core.CosineWeightedHemisphere(sample.Dir)
		if lwo.Z < 0 {
			lwi.Z = -lwi.Z
		}
	} else {
		lwi, _ = fb.Distribution.Sample(lwo, sample.Dir)
	}

	pdf := fb.pdf(lwo, lwi)
	if pdf == 0 {
		return core.Black, fb.Frame.ToWorld(lwi), 0
	}
	return fb.f(lwo, lwi), fb.Frame.ToWorld(lwi), pdf
}

// Pdf implements Shader
func (fb FresnelBlend) Pdf(wo, wi core.Vec3) float64 {
	return fb.pdf(fb.Frame.ToLocal(wo), fb.Frame.ToLocal(wi))
}

// SurfaceModel selects the reflection model used for surfaces and BRDF-shaded
// volume events
type SurfaceModel int

const (
	MicrofacetModel SurfaceModel = iota
	FresnelBlendModel
)

// NewSurfaceShader builds the shader for a reflection model
func NewSurfaceShader(model SurfaceModel, n, wo core.Vec3, kd, ks core.ColorXYZ, ior, exponent float64) Shader {
	if model == FresnelBlendModel {
		return NewFresnelBlend(n, wo, kd, ks, exponent)
	}
	return NewBrdf(n, wo, kd, ks, ior, exponent)
}
