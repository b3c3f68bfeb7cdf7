package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
)

const tolerance = 1e-9

func randomSample(random *rand.Rand) ShaderSample {
	return ShaderSample{
		Component: random.Float64(),
		Dir:       core.NewVec2(random.Float64(), random.Float64()),
	}
}

func TestLambert_EstimatorEqualsAlbedo(t *testing.T) {
	kd := core.NewColorXYZ(0.3, 0.5, 0.7)
	lambert := Lambert{Kd: kd}
	random := rand.New(rand.NewSource(42))

	for _, wo := range []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(0.6, 0, -0.8)} {
		for i := 0; i < 100; i++ {
			f, wi, pdf := lambert.SampleF(wo, core.NewVec2(random.Float64(), random.Float64()))
			if pdf == 0 {
				continue
			}
			if !core.SameHemisphere(wo, wi) {
				t.Fatalf("Sampled wi %v on the wrong side of wo %v", wi, wo)
			}
			// f·cos/pdf is exactly the albedo for cosine sampling
			est := f.Multiply(math.Abs(wi.Z) / pdf)
			if math.Abs(est.X-kd.X) > 1e-9 || math.Abs(est.Z-kd.Z) > 1e-9 {
				t.Fatalf("Expected %v, got %v", kd, est)
			}
		}
	}
}

func TestBlinn_DistributionNormalized(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const samples = 200000

	for _, exponent := range []float64{1, 20} {
		blinn := Blinn{Exponent: exponent}
		sum := 0.0
		for i := 0; i < samples; i++ {
			wh := core.UniformSampleHemisphere(core.NewVec2(random.Float64(), random.Float64()))
			sum += blinn.D(wh) * wh.Z * 2 * math.Pi
		}
		if got := sum / samples; math.Abs(got-1) > 0.03 {
			t.Errorf("Exponent %v: ∫D cos dω = %f, expected 1", exponent, got)
		}
	}
}

func TestFresnelDielectric(t *testing.T) {
	fresnel := FresnelDielectric{EtaI: 1, EtaT: 1.5}

	tests := []struct {
		name     string
		cosi     float64
		expected float64
	}{
		{"normal incidence", 1, 0.04},
		{"normal incidence from inside", -1, 0.04},
		{"total internal reflection", -0.1, 1},
		{"grazing", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fresnel.Evaluate(tt.cosi); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestShaders_SampleMatchesEvaluate(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(0.3, 0.8, 0.1).Normalize()
	kd := core.GrayXYZ(0.5)
	ks := core.GrayXYZ(0.4)

	shaders := []struct {
		name   string
		shader Shader
	}{
		{"brdf", NewBrdf(n, wo, kd, ks, 2.5, 40)},
		{"brdf viewed from below", NewBrdf(n.Negate(), wo, kd, ks, 2.5, 40)},
		{"fresnel blend", NewFresnelBlend(n, wo, kd, ks, 40)},
		{"isotropic phase", IsotropicPhase{Kd: kd}},
	}

	random := rand.New(rand.NewSource(42))
	for _, tt := range shaders {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				f, wi, pdf := tt.shader.SampleF(wo, randomSample(random))
				if pdf == 0 {
					continue
				}
				if got := tt.shader.Pdf(wo, wi); math.Abs(got-pdf) > 1e-6*math.Max(1, pdf) {
					t.Fatalf("SampleF pdf %g, Pdf %g", pdf, got)
				}
				expected := tt.shader.F(wo, wi)
				if math.Abs(expected.Y-f.Y) > 1e-6*math.Max(1, f.Y) {
					t.Fatalf("SampleF f %v, F %v", f, expected)
				}
			}
		})
	}
}

func TestBrdf_DiffuseAlbedo(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0.2, -0.1, 0.9).Normalize()
	kd := core.GrayXYZ(0.6)
	brdf := NewBrdf(n, wo, kd, core.Black, 1.5, 50)

	random := rand.New(rand.NewSource(42))
	const samples = 50000
	sum := 0.0
	for i := 0; i < samples; i++ {
		f, wi, pdf := brdf.SampleF(wo, randomSample(random))
		if pdf == 0 {
			continue
		}
		sum += f.Y * math.Abs(wi.Dot(n)) / pdf
	}

	if got := sum / samples; math.Abs(got-kd.Y) > 0.02 {
		t.Errorf("Expected directional albedo %f, got %f", kd.Y, got)
	}
}

func TestIsotropicPhase_Integral(t *testing.T) {
	phase := IsotropicPhase{Kd: core.GrayXYZ(1)}
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		f, _, pdf := phase.SampleF(wo, randomSample(random))
		if math.Abs(f.Y/pdf-core.GrayXYZ(1).Y) > tolerance {
			t.Fatalf("f/pdf should equal the albedo, got %f", f.Y/pdf)
		}
	}
}

func TestGlossinessExponent(t *testing.T) {
	if GlossinessExponent(0) != 0 {
		t.Error("Zero glossiness should give exponent 0")
	}
	if math.Abs(GlossinessExponent(1)-1e6) > tolerance {
		t.Errorf("Full glossiness should give 1e6, got %f", GlossinessExponent(1))
	}
	if GlossinessExponent(0.5) >= GlossinessExponent(0.6) {
		t.Error("Exponent should grow with glossiness")
	}
}
