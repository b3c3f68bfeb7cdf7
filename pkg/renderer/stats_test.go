package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/framebuffer"
)

func TestCalculateAverageLuminance(t *testing.T) {
	const tolerance = 0.0001

	tests := []struct {
		name     string
		pixels   []color.RGBA
		expected float64
	}{
		// (0.2126 + 0.7152 + 0.0722 + 0.0) / 4 = 0.25
		{"primaries and black", []color.RGBA{
			{255, 0, 0, 255},
			{0, 255, 0, 255},
			{0, 0, 255, 255},
			{0, 0, 0, 255},
		}, 0.25},
		{"white", []color.RGBA{{255, 255, 255, 255}}, 1.0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, len(tt.pixels), 1))
			for x, c := range tt.pixels {
				img.SetRGBA(x, 0, c)
			}

			if got := CalculateAverageLuminance(img); math.Abs(got-tt.expected) > tolerance {
				t.Errorf("Expected average luminance %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestCalculateRenderStats(t *testing.T) {
	fb := framebuffer.New(2, 2)
	fb.RunningEstimate.Set(0, 0, core.ColorXYZA{Y: 1, A: 1})
	fb.RunningEstimate.Set(1, 1, core.ColorXYZA{Y: 1, A: 0.5})

	stats := calculateRenderStats(fb, 3, 10)
	if stats.TotalPixels != 4 || stats.TotalSamples != 12 || stats.MaxSamples != 10 {
		t.Errorf("Unexpected counts %+v", stats)
	}
	if stats.AverageSamples != 3 {
		t.Errorf("Expected 3 samples per pixel, got %f", stats.AverageSamples)
	}
	if math.Abs(stats.Coverage-0.375) > 1e-12 {
		t.Errorf("Expected coverage 0.375, got %f", stats.Coverage)
	}

	if empty := calculateRenderStats(framebuffer.New(0, 0), 3, 10); empty.AverageSamples != 0 || empty.Coverage != 0 {
		t.Errorf("Expected zero stats for an empty frame buffer, got %+v", empty)
	}
}
