// Package preview draws rendered images into terminal cells using upper half
// blocks, two image rows per terminal row.
package preview

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// HalfBlock is the glyph whose foreground paints the top pixel of a cell and
// whose background paints the bottom pixel
const HalfBlock = "▀"

// Scaler resamples images whose size differs from the target area
var Scaler draw.Scaler = draw.ApproxBiLinear

// Size returns the terminal columns and rows that show bounds at the given
// width. Half-block cells are roughly square per pixel, so the aspect ratio is
// kept in pixel space.
func Size(bounds image.Rectangle, cols int) (int, int) {
	if bounds.Empty() || cols <= 0 {
		return 0, 0
	}
	pixelRows := (bounds.Dy()*cols + bounds.Dx()/2) / bounds.Dx()
	return cols, max((pixelRows+1)/2, 1)
}

// Draw fits img into area on scr
func Draw(img image.Image, scr uv.Screen, area uv.Rectangle) {
	area = area.Intersect(scr.Bounds())
	if img == nil || img.Bounds().Empty() || area.Empty() {
		return
	}

	pixels := image.NewRGBA(image.Rect(0, 0, area.Dx(), area.Dy()*2))
	if img.Bounds().Size() == pixels.Bounds().Size() {
		draw.Draw(pixels, pixels.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		Scaler.Scale(pixels, pixels.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	for row := 0; row < area.Dy(); row++ {
		for col := 0; col < area.Dx(); col++ {
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: HalfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(pixels.RGBAAt(col, row*2)),
					Bg: cellColor(pixels.RGBAAt(col, row*2+1)),
				},
			})
		}
	}
}

// Render returns img as a styled string cols cells wide
func Render(img image.Image, cols int) string {
	if img == nil {
		return ""
	}
	w, h := Size(img.Bounds(), cols)
	if w == 0 {
		return ""
	}
	scr := uv.NewScreenBuffer(w, h)
	Draw(img, scr, scr.Bounds())
	return scr.Render()
}

func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
