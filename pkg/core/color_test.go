package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestColor_RGBRoundTrip(t *testing.T) {
	const tolerance = 1e-9
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		c := ColorRGB{R: random.Float64() * 10, G: random.Float64() * 10, B: random.Float64() * 10}
		back := RGBFromXYZ(XYZFromRGB(c))
		if math.Abs(back.R-c.R) > tolerance || math.Abs(back.G-c.G) > tolerance || math.Abs(back.B-c.B) > tolerance {
			t.Fatalf("Round trip: got %+v, expected %+v", back, c)
		}
	}
}

func TestColor_LuminanceIsY(t *testing.T) {
	const tolerance = 1e-12
	c := XYZFromRGB(ColorRGB{R: 1, G: 1, B: 1})
	expected := 0.212671 + 0.715160 + 0.072169
	if math.Abs(c.Luminance()-expected) > tolerance {
		t.Errorf("Luminance: got %f, expected %f", c.Luminance(), expected)
	}
}

func TestColor_ToneMap(t *testing.T) {
	const tolerance = 1e-12
	tests := []struct {
		name        string
		value       float64
		invExposure float64
		expected    float64
	}{
		{"Black", 0, 1, 0},
		{"Unit exposure", 1, 1, 1 - math.Exp(-1)},
		{"Half exposure", 2, 0.5, 1 - math.Exp(-1)},
		{"Saturates", 1e6, 1, 1},
		{"Zero inverse exposure", 5, 0, 0},
		{"Negative clamps", -1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorRGB{R: tt.value}.ToneMap(tt.invExposure).R
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("ToneMap: got %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestColorXYZA_CumulativeMovingAverageIdempotent(t *testing.T) {
	v := ColorXYZA{X: 0.25, Y: 1.5, Z: 3, A: 1}
	var running ColorXYZA
	for n := 1; n <= 100; n++ {
		running = running.CumulativeMovingAverage(v, n)
	}
	if running != v {
		t.Errorf("After identical samples: got %+v, expected %+v", running, v)
	}
}

func TestReciprocal(t *testing.T) {
	if Reciprocal(0) != 0 {
		t.Errorf("Reciprocal(0): got %f, expected 0", Reciprocal(0))
	}
	if Reciprocal(4) != 0.25 {
		t.Errorf("Reciprocal(4): got %f, expected 0.25", Reciprocal(4))
	}
}

func TestCumulativeMovingAverage(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		expected float64
	}{
		{"Constant", []float64{3, 3, 3, 3}, 3},
		{"Mean", []float64{1, 2, 3, 4}, 2.5},
		{"Single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := 0.0
			for i, s := range tt.samples {
				a = CumulativeMovingAverage(a, s, i+1)
			}
			if math.Abs(a-tt.expected) > 1e-12 {
				t.Errorf("got %f, expected %f", a, tt.expected)
			}
		})
	}

	if got := CumulativeMovingAverage(1, 5, 0); got != 5 {
		t.Errorf("N=0 treated as 1: got %f, expected 5", got)
	}

	// The first sample replaces whatever the average held, bit for bit
	for _, stale := range []float64{0.1, 1.9210120330287075, -3, 1e9} {
		sample := 1.9210120330287073
		if got := CumulativeMovingAverage(stale, sample, 1); got != sample {
			t.Errorf("From %v: first sample %v came back as %v", stale, sample, got)
		}
	}
}
