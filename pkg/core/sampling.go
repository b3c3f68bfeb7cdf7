package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// ConcentricSampleDisk maps a unit square sample to the unit disk with Shirley's
// concentric mapping. This avoids rejection sampling and keeps strata intact.
func ConcentricSampleDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// CosineWeightedHemisphere returns a cosine-distributed direction around local +z
func CosineWeightedHemisphere(sample Vec2) Vec3 {
	d := ConcentricSampleDisk(sample)
	z := math.Sqrt(math.Max(0, 1.0-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePdf is the density of CosineWeightedHemisphere for a direction with the given cosine
func CosineHemispherePdf(cosTheta float64) float64 {
	return math.Abs(cosTheta) / math.Pi
}

// UniformSampleSphere returns a uniformly distributed direction on the unit sphere
func UniformSampleSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSpherePdf is the density of UniformSampleSphere
func UniformSpherePdf() float64 {
	return 1.0 / (4.0 * math.Pi)
}

// UniformSampleHemisphere returns a uniformly distributed direction around local +z
func UniformSampleHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformSampleCone samples a direction uniformly within a cone around local +z
func UniformSampleCone(cosThetaMax float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosThetaMax)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// SphericalDirection builds a local direction from spherical angles
func SphericalDirection(sinTheta, cosTheta, phi float64) Vec3 {
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// SameHemisphere reports whether two local directions lie on the same side of z=0
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}

// PowerHeuristic returns the MIS weight for strategy f with nf samples of pdf pdfF
// against strategy g (beta = 2)
func PowerHeuristic(nf int, pdfF float64, ng int, pdfG float64) float64 {
	f := float64(nf) * pdfF
	g := float64(ng) * pdfG
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}

// GeometricFactor returns the point-to-point geometry term between two oriented points
func GeometricFactor(p1, n1, p2, n2 Vec3) float64 {
	d := p2.Subtract(p1)
	distSq := d.LengthSquared()
	if distSq == 0 {
		return 0
	}
	w := d.Normalize()
	return math.Max(0, w.Dot(n1)) * math.Max(0, w.Negate().Dot(n2)) / distSq
}
