package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{
			name:     "Equal PDFs",
			nf:       1,
			fPdf:     0.5,
			ng:       1,
			gPdf:     0.5,
			expected: 0.5,
		},
		{
			name:     "First PDF zero",
			nf:       1,
			fPdf:     0.0,
			ng:       1,
			gPdf:     0.5,
			expected: 0.0,
		},
		{
			name:     "Second PDF zero",
			nf:       1,
			fPdf:     0.5,
			ng:       1,
			gPdf:     0.0,
			expected: 1.0,
		},
		{
			name:     "First PDF higher",
			nf:       1,
			fPdf:     0.8,
			ng:       1,
			gPdf:     0.2,
			expected: 0.941176, // (0.8²) / (0.8² + 0.2²)
		},
		{
			name:     "Both PDFs zero",
			nf:       1,
			fPdf:     0,
			ng:       1,
			gPdf:     0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-5 {
				t.Errorf("PowerHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestConcentricSampleDisk_InsideUnitDisk(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		p := ConcentricSampleDisk(NewVec2(random.Float64(), random.Float64()))
		if p.Length() > 1.0+1e-9 {
			t.Fatalf("Sample %d outside unit disk: %v", i, p)
		}
	}

	if p := ConcentricSampleDisk(NewVec2(0.5, 0.5)); p.X != 0 || p.Y != 0 {
		t.Errorf("Center sample should map to origin, got %v", p)
	}
}

func TestCosineWeightedHemisphere_Distribution(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	const numSamples = 100000

	// E[cos θ] for a cosine-weighted hemisphere is 2/3
	sum := 0.0
	for i := 0; i < numSamples; i++ {
		d := CosineWeightedHemisphere(NewVec2(random.Float64(), random.Float64()))
		if d.Z < 0 {
			t.Fatalf("Direction below hemisphere: %v", d)
		}
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("Direction not normalized: %v", d)
		}
		sum += d.Z
	}

	mean := sum / numSamples
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Mean cosine: got %f, expected %f", mean, 2.0/3.0)
	}
}

func TestUniformSampleSphere_Mean(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	const numSamples = 100000

	var sum Vec3
	for i := 0; i < numSamples; i++ {
		d := UniformSampleSphere(NewVec2(random.Float64(), random.Float64()))
		sum = sum.Add(d)
	}

	mean := sum.Multiply(1.0 / numSamples)
	if mean.Length() > 0.01 {
		t.Errorf("Uniform sphere samples should average to zero, got %v", mean)
	}
}

func TestGeometricFactor(t *testing.T) {
	const tolerance = 1e-12

	// Two points facing each other at distance 2
	g := GeometricFactor(NewVec3(0, 0, 0), NewVec3(0, 0, 1), NewVec3(0, 0, 2), NewVec3(0, 0, -1))
	if math.Abs(g-0.25) > tolerance {
		t.Errorf("Facing points: got %f, expected 0.25", g)
	}

	// Receiver facing away
	g = GeometricFactor(NewVec3(0, 0, 0), NewVec3(0, 0, 1), NewVec3(0, 0, 2), NewVec3(0, 0, 1))
	if g != 0 {
		t.Errorf("Back-facing receiver: got %f, expected 0", g)
	}
}

func TestShadingFrame_Orthonormal(t *testing.T) {
	const tolerance = 1e-9
	tests := []struct {
		name string
		n    Vec3
		wo   Vec3
	}{
		{"Generic", NewVec3(0, 0, 1), NewVec3(1, 1, 1).Normalize()},
		{"Parallel", NewVec3(0, 1, 0), NewVec3(0, 1, 0)},
		{"Tilted", NewVec3(1, 2, 3).Normalize(), NewVec3(-1, 0, 0.5).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewShadingFrame(tt.n, tt.wo)
			if math.Abs(f.Nu.Dot(f.Nv)) > tolerance || math.Abs(f.Nu.Dot(f.Nn)) > tolerance || math.Abs(f.Nv.Dot(f.Nn)) > tolerance {
				t.Errorf("Frame not orthogonal: %+v", f)
			}

			w := NewVec3(0.3, -0.4, 0.5)
			back := f.ToWorld(f.ToLocal(w))
			if back.Subtract(w).Length() > tolerance {
				t.Errorf("Round trip: got %v, expected %v", back, w)
			}
		})
	}
}
