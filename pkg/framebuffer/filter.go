package framebuffer

import (
	"fmt"
	"image"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Filter radius limits. A radius r filter covers (2r+1)×(2r+1) pixels.
const (
	MinFilterRadius     = 1
	MaxFilterRadius     = 5
	DefaultFilterRadius = 2
)

// GaussianFilterTable holds unnormalized gaussian weights with sigma 0.75·radius.
// Weights are normalized over the taps that fall inside the image when used.
type GaussianFilterTable struct {
	Radius  int
	Weights [][]float64 // Indexed [dy+Radius][dx+Radius]
}

var filterTables = func() [MaxFilterRadius + 1]*GaussianFilterTable {
	var tables [MaxFilterRadius + 1]*GaussianFilterTable
	for r := MinFilterRadius; r <= MaxFilterRadius; r++ {
		tables[r] = newGaussianFilterTable(r)
	}
	return tables
}()

func newGaussianFilterTable(radius int) *GaussianFilterTable {
	sigma := 0.75 * float64(radius)
	size := 2*radius + 1
	weights := make([][]float64, size)
	for i := range weights {
		weights[i] = make([]float64, size)
		for j := range weights[i] {
			weights[i][j] = core.Gauss2D(sigma, float64(j-radius), float64(i-radius))
		}
	}
	return &GaussianFilterTable{Radius: radius, Weights: weights}
}

// GaussianFilter returns the precomputed table for a radius in
// [MinFilterRadius, MaxFilterRadius]
func GaussianFilter(radius int) (*GaussianFilterTable, error) {
	if radius < MinFilterRadius || radius > MaxFilterRadius {
		return nil, fmt.Errorf("filter radius %d outside [%d, %d]", radius, MinFilterRadius, MaxFilterRadius)
	}
	return filterTables[radius], nil
}

// DenoiseRect filters the display estimate into the filtered display buffer
// inside r. Only display buffers are touched.
func (fb *FrameBuffer) DenoiseRect(r image.Rectangle, table *GaussianFilterTable) {
	r = r.Intersect(fb.Bounds())
	w, h := fb.Width(), fb.Height()
	src, dst := fb.DisplayEstimate.Data(), fb.DisplayFiltered.Data()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var sum [4]float64
			total := 0.0

			for dy := -table.Radius; dy <= table.Radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				for dx := -table.Radius; dx <= table.Radius; dx++ {
					sx := x + dx
					if sx < 0 || sx >= w {
						continue
					}
					weight := table.Weights[dy+table.Radius][dx+table.Radius]
					p := src[sy*w+sx]
					sum[0] += weight * float64(p.R)
					sum[1] += weight * float64(p.G)
					sum[2] += weight * float64(p.B)
					sum[3] += weight * float64(p.A)
					total += weight
				}
			}

			inv := core.Reciprocal(total)
			q := func(v float64) uint8 { return uint8(core.Clamp(v*inv+0.5, 0, 255)) }
			dst[y*w+x] = core.ColorRGBA8{R: q(sum[0]), G: q(sum[1]), B: q(sum[2]), A: q(sum[3])}
		}
	}
}

// Denoise filters the whole display estimate with a gaussian of the given radius
func (fb *FrameBuffer) Denoise(radius int) error {
	table, err := GaussianFilter(radius)
	if err != nil {
		return err
	}
	fb.DenoiseRect(fb.Bounds(), table)
	return nil
}
