package framebuffer

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-exposure-render/pkg/core"
)

const tolerance = 1e-9

func TestBuffer2D_ResizeSameIsNoOp(t *testing.T) {
	b := NewBuffer2D[float64](4, 3)
	b.Set(2, 1, 7)
	before := &b.Data()[0]

	if b.Resize(4, 3) {
		t.Error("Resize to the same resolution reported a reallocation")
	}
	if &b.Data()[0] != before {
		t.Error("Resize to the same resolution replaced the backing slice")
	}
	if got := b.At(2, 1); got != 7 {
		t.Errorf("Expected content to survive, got %f", got)
	}

	if !b.Resize(5, 3) {
		t.Error("Resize to a new resolution should reallocate")
	}
	if got := b.At(2, 1); got != 0 {
		t.Errorf("Expected zeroed buffer after resize, got %f", got)
	}
}

func TestBuffer2D_Empty(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero", 0, 0},
		{"zero width", 0, 5},
		{"negative", -3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer2D[int](tt.width, tt.height)
			if b.Len() != 0 {
				t.Fatalf("Expected empty buffer, got %d elements", b.Len())
			}
			b.Set(0, 0, 5)
			b.Reset()
			if got := b.At(1, 1); got != 0 {
				t.Errorf("Expected zero value, got %d", got)
			}
			if b.Ref(0, 0) != nil {
				t.Error("Expected nil reference")
			}
		})
	}
}

func TestBuffer2D_IndexClamps(t *testing.T) {
	b := NewBuffer2D[int](3, 2)
	b.Set(2, 1, 9)
	if got := b.At(10, 10); got != 9 {
		t.Errorf("Expected clamped read of the last element, got %d", got)
	}
	if got := b.Index(-1, -1); got != 0 {
		t.Errorf("Expected index 0, got %d", got)
	}
}

func TestFrameBuffer_ResizeSeeds(t *testing.T) {
	a := New(8, 4)
	b := New(8, 4)

	for i, s := range a.RandomSeeds1.Data() {
		if s == 0 || a.RandomSeeds2.Data()[i] == 0 {
			t.Fatalf("Pixel %d has a zero seed", i)
		}
		if s != b.RandomSeeds1.Data()[i] || a.RandomSeeds2.Data()[i] != b.RandomSeeds2.Data()[i] {
			t.Fatalf("Pixel %d seeds differ between identical frame buffers", i)
		}
		if s != a.RandomSeedsCopy1.Data()[i] {
			t.Fatalf("Pixel %d seed copy differs", i)
		}
	}

	if a.Resize(8, 4) {
		t.Error("Resize to the same resolution should be a no-op")
	}
	if !a.Resize(2, 2) || a.Width() != 2 || a.Height() != 2 {
		t.Errorf("Expected 2x2 after resize, got %dx%d", a.Width(), a.Height())
	}
	if a.DisplayFiltered.Len() != 4 {
		t.Errorf("Expected every buffer resized, filtered has %d", a.DisplayFiltered.Len())
	}
}

func TestFrameBuffer_RestoreSeeds(t *testing.T) {
	fb := New(2, 2)
	first := fb.RNG(1, 1).Get1()

	// Advance the pixel and rewind it
	fb.RNG(1, 1).Get1()
	fb.RestoreSeeds()

	if got := fb.RNG(1, 1).Get1(); got != first {
		t.Errorf("Expected %f after restoring seeds, got %f", first, got)
	}
}

func TestFrameBuffer_AccumulateConstant(t *testing.T) {
	fb := New(3, 2)
	v := core.ColorXYZA{X: 0.3, Y: 0.7, Z: 0.125, A: 1}

	for n := 1; n <= 50; n++ {
		for i := range fb.FrameEstimate.Data() {
			fb.FrameEstimate.Data()[i] = v
		}
		fb.Accumulate(n)
	}

	for i, got := range fb.RunningEstimate.Data() {
		if math.Abs(got.X-v.X) > tolerance || math.Abs(got.Y-v.Y) > tolerance ||
			math.Abs(got.Z-v.Z) > tolerance || math.Abs(got.A-v.A) > tolerance {
			t.Fatalf("Pixel %d: expected %v, got %v", i, v, got)
		}
	}
}

func TestFrameBuffer_AccumulateMean(t *testing.T) {
	fb := New(1, 1)
	samples := []float64{1, 2, 3, 4}
	for n, s := range samples {
		fb.FrameEstimate.Set(0, 0, core.ColorXYZA{Y: s})
		fb.Accumulate(n + 1)
	}
	if got := fb.RunningEstimate.At(0, 0).Y; math.Abs(got-2.5) > tolerance {
		t.Errorf("Expected mean 2.5, got %f", got)
	}
}

func TestFrameBuffer_ToneMap(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		exposure float64
		want     uint8
	}{
		{"black", 0, 1, 0},
		{"zero exposure", 5, 0, 0},
		{"saturated", 1000, 1, 255},
		// 1 - exp(-1) = 0.632 at gamma 1
		{"unit", 1, 1, uint8(math.Floor((1-math.Exp(-1))*255 + 0.5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := New(1, 1)
			fb.RunningEstimate.Set(0, 0, core.GrayXYZ(tt.value).WithAlpha(1))
			fb.ToneMap(tt.exposure, 1)

			got := fb.DisplayEstimate.At(0, 0)
			// Gray stays gray through the color matrices up to rounding
			for _, c := range []uint8{got.R, got.G, got.B} {
				if d := int(c) - int(tt.want); d < -1 || d > 1 {
					t.Errorf("Expected channel %d, got %v", tt.want, got)
				}
			}
			if got.A != 255 {
				t.Errorf("Expected opaque display pixel, got alpha %d", got.A)
			}
		})
	}
}

func TestGaussianFilterTable(t *testing.T) {
	for r := MinFilterRadius; r <= MaxFilterRadius; r++ {
		table, err := GaussianFilter(r)
		if err != nil {
			t.Fatalf("GaussianFilter(%d): %v", r, err)
		}
		size := 2*r + 1
		if len(table.Weights) != size {
			t.Fatalf("Radius %d: expected %d rows, got %d", r, size, len(table.Weights))
		}

		center := table.Weights[r][r]
		if math.Abs(center-1) > tolerance {
			t.Errorf("Radius %d: expected unit center weight, got %f", r, center)
		}
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				w := table.Weights[i][j]
				if w > center || w <= 0 {
					t.Errorf("Radius %d: weight %f at (%d,%d) out of range", r, w, i, j)
				}
				if math.Abs(w-table.Weights[j][i]) > tolerance ||
					math.Abs(w-table.Weights[size-1-i][size-1-j]) > tolerance {
					t.Errorf("Radius %d: table not symmetric at (%d,%d)", r, i, j)
				}
			}
		}
	}

	for _, r := range []int{0, 6, -1} {
		if _, err := GaussianFilter(r); err == nil {
			t.Errorf("Expected error for radius %d", r)
		}
	}
}

func TestDenoise_DisplayOnly(t *testing.T) {
	fb := New(6, 5)
	for i := range fb.RunningEstimate.Data() {
		fb.RunningEstimate.Data()[i] = core.ColorXYZA{Y: float64(i%3) * 0.5, A: 1}
	}
	running := append([]core.ColorXYZA(nil), fb.RunningEstimate.Data()...)

	fb.ToneMap(1, 2.2)
	if err := fb.Denoise(DefaultFilterRadius); err != nil {
		t.Fatalf("Denoise: %v", err)
	}

	for i, v := range fb.RunningEstimate.Data() {
		if v != running[i] {
			t.Fatalf("Denoise modified the running estimate at %d", i)
		}
	}
}

func TestDenoise_UniformImage(t *testing.T) {
	fb := New(7, 4)
	gray := core.ColorRGBA8{R: 100, G: 150, B: 200, A: 255}
	for i := range fb.DisplayEstimate.Data() {
		fb.DisplayEstimate.Data()[i] = gray
	}

	if err := fb.Denoise(3); err != nil {
		t.Fatalf("Denoise: %v", err)
	}
	for i, p := range fb.DisplayFiltered.Data() {
		if p != gray {
			t.Fatalf("Pixel %d: expected %v, got %v", i, gray, p)
		}
	}
}

func TestDisplay(t *testing.T) {
	fb := New(3, 2)
	fb.DisplayEstimate.Set(2, 1, core.ColorRGBA8{R: 10, G: 20, B: 30, A: 255})
	fb.DisplayFiltered.Set(2, 1, core.ColorRGBA8{R: 1, G: 2, B: 3, A: 255})

	img := fb.Display(false)
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("Expected display estimate pixel, got %v", got)
	}
	if got := fb.Display(true).RGBAAt(2, 1); got.R != 1 {
		t.Errorf("Expected filtered pixel, got %v", got)
	}

	if empty := New(0, 0).Display(true); !empty.Bounds().Empty() {
		t.Errorf("Expected empty image, got %v", empty.Bounds())
	}
}
