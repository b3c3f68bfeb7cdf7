package renderer

import (
	"image"

	"github.com/df07/go-exposure-render/pkg/framebuffer"
	"github.com/df07/go-exposure-render/pkg/integrator"
	"github.com/df07/go-exposure-render/pkg/scene"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	tileSize = max(tileSize, 1)

	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

// TileRenderer runs the per-pixel frame kernel over tiles: one camera sample
// per pixel, folded into the running estimate and tone mapped
type TileRenderer struct {
	camera      *Camera
	scene       *scene.Scene
	integrator  integrator.Integrator
	frameBuffer *framebuffer.FrameBuffer
}

// NewTileRenderer creates a tile renderer for one frame
func NewTileRenderer(camera *Camera, s *scene.Scene, integratorInst integrator.Integrator, fb *framebuffer.FrameBuffer) *TileRenderer {
	return &TileRenderer{
		camera:      camera,
		scene:       s,
		integrator:  integratorInst,
		frameBuffer: fb,
	}
}

// RenderTileBounds estimates every pixel in bounds once and updates the
// running and display estimates. estimate is the 1-based index of this frame.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, estimate int) {
	fb := tr.frameBuffer
	bounds = bounds.Intersect(fb.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rng := fb.RNG(x, y)
			ray := tr.camera.Sample(x, y, rng)
			fb.FrameEstimate.Set(x, y, tr.integrator.Li(ray, tr.scene, rng))
		}
	}

	fb.AccumulateRect(bounds, estimate)
	fb.ToneMapRect(bounds, tr.camera.Exposure(), tr.camera.Gamma())
}
