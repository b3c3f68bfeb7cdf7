package material

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/df07/go-exposure-render/pkg/core"
)

// DefaultMaxBitmapSize bounds the resolution of bitmaps bound to textures
const DefaultMaxBitmapSize = 1024

// Bitmap provides color from a 2D image supplied by the host
type Bitmap struct {
	Width   int
	Height  int
	Pixels  []core.ColorXYZ // Row-major: Pixels[y*Width + x]
	Mapping Mapping
}

// NewBitmap converts a host image to a texture. Images larger than maxSize
// along either side are resampled down, keeping the aspect ratio.
func NewBitmap(img image.Image, maxSize int) *Bitmap {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 {
		return &Bitmap{}
	}

	if maxSize > 0 && (w > maxSize || h > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		w = max(1, int(float64(w)*scale+0.5))
		h = max(1, int(float64(h)*scale+0.5))
	}

	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}

	pixels := make([]core.ColorXYZ, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := dst.RGBA64At(x, y)
			rgb := core.ColorRGB{
				R: float64(c.R) / 0xffff,
				G: float64(c.G) / 0xffff,
				B: float64(c.B) / 0xffff,
			}
			pixels[y*w+x] = core.XYZFromRGB(rgb)
		}
	}

	core.Logger().Debug("bitmap bound", "width", w, "height", h,
		"source_width", src.Dx(), "source_height", src.Dy())
	return &Bitmap{Width: w, Height: h, Pixels: pixels}
}

// Evaluate samples the bitmap with nearest-neighbor filtering, wrapping UV
func (b *Bitmap) Evaluate(uv core.Vec2) core.ColorXYZ {
	if len(b.Pixels) == 0 {
		return core.Black
	}
	st := b.Mapping.Apply(uv)
	u, v := wrap(st.X), wrap(st.Y)

	// V=0 is bottom, V=1 is top
	x := core.ClampInt(int(u*float64(b.Width)), 0, b.Width-1)
	y := core.ClampInt(int((1.0-v)*float64(b.Height)), 0, b.Height-1)

	return b.Pixels[y*b.Width+x].Multiply(b.Mapping.Level())
}
