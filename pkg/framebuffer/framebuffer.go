package framebuffer

import (
	"image"
	"math/rand"

	"github.com/df07/go-exposure-render/pkg/core"
)

// seedSource makes seed streams reproducible across resizes and runs
const seedSource = 42

// FrameBuffer holds the per-pixel state of progressive rendering. The frame
// and running estimates are radiometric; the display buffers are derived from
// the running estimate and never feed back into it.
type FrameBuffer struct {
	FrameEstimate   Buffer2D[core.ColorXYZA]
	RunningEstimate Buffer2D[core.ColorXYZA]

	DisplayEstimate Buffer2D[core.ColorRGBA8]
	DisplayFiltered Buffer2D[core.ColorRGBA8]

	// Each pixel advances its own pair of seed words. The copies hold the
	// seeds of the first frame so accumulation can restart reproducibly.
	RandomSeeds1     Buffer2D[uint32]
	RandomSeeds2     Buffer2D[uint32]
	RandomSeedsCopy1 Buffer2D[uint32]
	RandomSeedsCopy2 Buffer2D[uint32]
}

// New creates a frame buffer at the given resolution
func New(width, height int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Resize(width, height)
	return fb
}

// Width returns the film width in pixels
func (fb *FrameBuffer) Width() int { return fb.RunningEstimate.Width() }

// Height returns the film height in pixels
func (fb *FrameBuffer) Height() int { return fb.RunningEstimate.Height() }

// Bounds returns the film rectangle
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width(), fb.Height())
}

// Resize reallocates every buffer and reseeds both seed streams. Resizing to
// the current resolution changes nothing and reports false.
func (fb *FrameBuffer) Resize(width, height int) bool {
	if !fb.RunningEstimate.Resize(width, height) {
		return false
	}
	fb.FrameEstimate.Resize(width, height)
	fb.DisplayEstimate.Resize(width, height)
	fb.DisplayFiltered.Resize(width, height)
	fb.RandomSeeds1.Resize(width, height)
	fb.RandomSeeds2.Resize(width, height)

	random := rand.New(rand.NewSource(seedSource))
	for _, seeds := range []*Buffer2D[uint32]{&fb.RandomSeeds1, &fb.RandomSeeds2} {
		data := seeds.Data()
		for i := range data {
			// Zero is a fixed point of the generator
			data[i] = max(random.Uint32(), 1)
		}
	}

	fb.RandomSeedsCopy1.CopyFrom(&fb.RandomSeeds1)
	fb.RandomSeedsCopy2.CopyFrom(&fb.RandomSeeds2)

	core.Logger().Debug("frame buffer resized", "width", width, "height", height)
	return true
}

// RestoreSeeds rewinds both seed streams to the first frame
func (fb *FrameBuffer) RestoreSeeds() {
	fb.RandomSeeds1.CopyFrom(&fb.RandomSeedsCopy1)
	fb.RandomSeeds2.CopyFrom(&fb.RandomSeedsCopy2)
}

// Reset clears every estimate
func (fb *FrameBuffer) Reset() {
	fb.FrameEstimate.Reset()
	fb.RunningEstimate.Reset()
	fb.DisplayEstimate.Reset()
	fb.DisplayFiltered.Reset()
}

// RNG returns the generator of pixel (x, y). It advances the pixel's seed
// words in place, so it must only be used by the worker that owns the pixel.
func (fb *FrameBuffer) RNG(x, y int) core.RNG {
	return core.NewRNG(fb.RandomSeeds1.Ref(x, y), fb.RandomSeeds2.Ref(x, y))
}

// AccumulateRect folds the frame estimate into the running estimate inside r,
// where n counts frames including the current one
func (fb *FrameBuffer) AccumulateRect(r image.Rectangle, n int) {
	r = r.Intersect(fb.Bounds())
	frame, running := fb.FrameEstimate.Data(), fb.RunningEstimate.Data()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := y*fb.Width() + x
			running[i] = running[i].CumulativeMovingAverage(frame[i], n)
		}
	}
}

// Accumulate folds the whole frame estimate into the running estimate
func (fb *FrameBuffer) Accumulate(n int) {
	fb.AccumulateRect(fb.Bounds(), n)
}

// ToneMapRect converts the running estimate inside r to display pixels:
// 1 - exp(-L/exposure) per channel, clamped, then gamma corrected. Display
// pixels are opaque; coverage stays in the running estimate.
func (fb *FrameBuffer) ToneMapRect(r image.Rectangle, exposure, gamma float64) {
	r = r.Intersect(fb.Bounds())
	invExposure, invGamma := core.Reciprocal(exposure), core.Reciprocal(gamma)
	running, display := fb.RunningEstimate.Data(), fb.DisplayEstimate.Data()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := y*fb.Width() + x
			rgb := core.RGBFromXYZ(running[i].XYZ()).ToneMap(invExposure).GammaCorrect(invGamma)
			display[i] = rgb.ToRGBA8(1)
		}
	}
}

// ToneMap converts the whole running estimate to display pixels
func (fb *FrameBuffer) ToneMap(exposure, gamma float64) {
	fb.ToneMapRect(fb.Bounds(), exposure, gamma)
}

// Display copies the display estimate, or its filtered version, into a new
// host image
func (fb *FrameBuffer) Display(filtered bool) *image.RGBA {
	src := &fb.DisplayEstimate
	if filtered {
		src = &fb.DisplayFiltered
	}

	img := image.NewRGBA(fb.Bounds())
	for i, p := range src.Data() {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}
