package renderer

import (
	"image"

	"github.com/df07/go-exposure-render/pkg/framebuffer"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Target samples per pixel
	Coverage       float64 // Mean alpha of the running estimate
}

// calculateRenderStats summarizes the frame buffer after estimates frames
func calculateRenderStats(fb *framebuffer.FrameBuffer, estimates, maxSamples int) RenderStats {
	pixels := fb.RunningEstimate.Len()
	stats := RenderStats{
		TotalPixels:  pixels,
		TotalSamples: pixels * estimates,
		MaxSamples:   maxSamples,
	}
	if pixels == 0 {
		return stats
	}

	stats.AverageSamples = float64(estimates)
	alpha := 0.0
	for _, p := range fb.RunningEstimate.Data() {
		alpha += p.A
	}
	stats.Coverage = alpha / float64(pixels)
	return stats
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image's
// 8-bit values, in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R)/255 + 0.7152*float64(c.G)/255 + 0.0722*float64(c.B)/255
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
