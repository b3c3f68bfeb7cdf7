package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/framebuffer"
	"github.com/df07/go-exposure-render/pkg/integrator"
	"github.com/df07/go-exposure-render/pkg/scene"
	"github.com/df07/go-exposure-render/pkg/stats"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// Names of the statistics a Tracer records
const (
	StatFrame          = "Frame"
	StatNoiseReduction = "Noise reduction"
	StatEstimates      = "Estimates"
	StatSampleRate     = "Samples per second"
)

// autoFocusSamples is the number of rays traced through FocusUV to find the
// focal distance
const autoFocusSamples = 16

// RenderSettings contains per-tracer render options
type RenderSettings struct {
	Mode           integrator.RenderMode
	NoiseReduction bool // Filter the display estimate after every frame
	FilterRadius   int  // Gaussian radius used by noise reduction
	TileSize       int
	NumWorkers     int // 0 = use CPU count
}

// DefaultRenderSettings returns stochastic rendering with noise reduction
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Mode:           integrator.StochasticRayCasting,
		NoiseReduction: true,
		FilterRadius:   framebuffer.DefaultFilterRadius,
		TileSize:       64,
		NumWorkers:     0,
	}
}

// FrameResult describes one rendered frame
type FrameResult struct {
	Estimates int // Frames accumulated so far, this one included
	Duration  time.Duration
}

// Tracer owns the accumulation state of one view: camera, volume property,
// bound scene and frame buffer. Any change to those restarts accumulation.
// Binding and rendering are mutually exclusive.
type Tracer struct {
	mu sync.Mutex

	registry *scene.Registry
	binding  scene.Binding
	property *volume.Property
	scene    *scene.Scene
	halted   error // Fatal bind error; rendering stops until the next good bind

	camera   *Camera
	focused  *Camera // camera with the auto focus distance applied
	settings RenderSettings

	frameBuffer *framebuffer.FrameBuffer
	pool        *WorkerPool
	tiles       []*Tile
	noEstimates int
	dirty       bool

	statistics *stats.Statistics
}

// NewTracer creates a tracer rendering entities of registry through camera
func NewTracer(registry *scene.Registry, camera *Camera, settings RenderSettings) *Tracer {
	if settings.TileSize <= 0 {
		settings.TileSize = DefaultRenderSettings().TileSize
	}
	fb := framebuffer.New(camera.Width(), camera.Height())
	return &Tracer{
		registry:    registry,
		property:    volume.DefaultProperty(),
		camera:      camera,
		settings:    settings,
		frameBuffer: fb,
		pool:        NewWorkerPool(settings.NumWorkers),
		tiles:       NewTileGrid(fb.Width(), fb.Height(), settings.TileSize),
		dirty:       true,
		statistics:  stats.NewStatistics(),
	}
}

// Bind resolves the binding with the current volume property. On failure the
// previously bound scene stays in place; a Fatal failure halts rendering until
// a later bind succeeds.
func (t *Tracer) Bind(b scene.Binding) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bind(b, t.property)
}

func (t *Tracer) bind(b scene.Binding, property *volume.Property) error {
	s, err := t.registry.Bind(b, property)
	if err != nil {
		if core.IsFatal(err) {
			t.halted = err
			core.Logger().Error("bind failed, rendering halted", "error", err)
		} else {
			core.Logger().Warn("bind failed", "error", err)
		}
		return fmt.Errorf("failed to bind scene: %w", err)
	}

	t.binding, t.property, t.scene, t.halted = b, property, s, nil
	t.invalidate()
	return nil
}

// SetProperty replaces the volume property and rebinds the current binding
// with it
func (t *Tracer) SetProperty(property *volume.Property) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scene == nil {
		t.property = property
		return nil
	}
	return t.bind(t.binding, property)
}

// Property returns the current volume property
func (t *Tracer) Property() *volume.Property {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.property
}

// SetCamera replaces the camera. A new film size resizes the frame buffer.
func (t *Tracer) SetCamera(camera *Camera) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.camera = camera
	if t.frameBuffer.Resize(camera.Width(), camera.Height()) {
		t.tiles = NewTileGrid(camera.Width(), camera.Height(), t.settings.TileSize)
	}
	t.invalidate()
}

// Camera returns the current camera
func (t *Tracer) Camera() *Camera {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.camera
}

// SetRenderMode switches between stochastic and standard ray casting
func (t *Tracer) SetRenderMode(mode integrator.RenderMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settings.Mode != mode {
		t.settings.Mode = mode
		t.invalidate()
	}
}

// SetNoiseReduction toggles display filtering. Accumulation is unaffected.
func (t *Tracer) SetNoiseReduction(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings.NoiseReduction = on
	if on && t.noEstimates > 0 {
		if err := t.frameBuffer.Denoise(t.settings.FilterRadius); err != nil {
			core.Logger().Warn("noise reduction failed", "error", err)
		}
	}
}

// MarkDirty restarts accumulation at the next frame, e.g. after the host
// edited registry entities in place and rebound them
func (t *Tracer) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.invalidate()
}

// invalidate empties the estimate count at once; the frame buffer is cleared
// when the next frame starts
func (t *Tracer) invalidate() {
	t.dirty = true
	t.noEstimates = 0
}

// NoEstimates returns the number of frames in the running estimate
func (t *Tracer) NoEstimates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.noEstimates
}

// Settings returns the current render settings
func (t *Tracer) Settings() RenderSettings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Statistics returns the timing and throughput statistics of rendered frames
func (t *Tracer) Statistics() *stats.Statistics {
	return t.statistics
}

// FrameBuffer returns the frame buffer. It must not be read while a frame
// renders.
func (t *Tracer) FrameBuffer() *framebuffer.FrameBuffer {
	return t.frameBuffer
}

// Display returns a copy of the display buffer, filtered when noise
// reduction is on
func (t *Tracer) Display() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameBuffer.Display(t.settings.NoiseReduction)
}

// snapshot copies the display buffer and summarizes the running estimate in
// one critical section
func (t *Tracer) snapshot(maxSamples int) (*image.RGBA, RenderStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameBuffer.Display(t.settings.NoiseReduction), calculateRenderStats(t.frameBuffer, t.noEstimates, maxSamples)
}

// RenderFrame adds one estimate per pixel to the running estimate and refreshes
// the display buffers. A cancelled context stops the next frame from starting;
// a frame already running completes.
func (t *Tracer) RenderFrame(ctx context.Context) (FrameResult, error) {
	return t.renderFrame(ctx, nil)
}

// tileDone is called after each tile of a frame with the frame buffer the
// tile was written to and the number of tiles in the frame. It runs while
// the tracer is locked.
type tileDone func(fb *framebuffer.FrameBuffer, tile *Tile, done, total int)

func (t *Tracer) renderFrame(ctx context.Context, onTile tileDone) (FrameResult, error) {
	if err := ctx.Err(); err != nil {
		return FrameResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.halted != nil {
		return FrameResult{}, t.halted
	}
	if t.scene == nil {
		return FrameResult{}, core.NewException(core.Error, "no scene bound")
	}

	if t.dirty {
		t.restart()
	}

	start := time.Now()
	estimate := t.noEstimates + 1
	tr := NewTileRenderer(t.focused, t.scene, integrator.New(t.settings.Mode), t.frameBuffer)

	render := func(_ context.Context, tile *Tile) error {
		tr.RenderTileBounds(tile.Bounds, estimate)
		return nil
	}
	var onDone func(tile *Tile, done int)
	if onTile != nil {
		fb, total := t.frameBuffer, len(t.tiles)
		onDone = func(tile *Tile, done int) {
			onTile(fb, tile, done, total)
		}
	}
	if err := t.pool.Run(context.WithoutCancel(ctx), t.tiles, render, onDone); err != nil {
		t.invalidate()
		return FrameResult{}, fmt.Errorf("frame %d failed: %w", estimate, err)
	}
	t.noEstimates = estimate
	elapsed := time.Since(start)

	if t.settings.NoiseReduction {
		denoiseStart := time.Now()
		if err := t.frameBuffer.Denoise(t.settings.FilterRadius); err != nil {
			return FrameResult{}, err
		}
		t.statistics.AddDuration(StatNoiseReduction, time.Since(denoiseStart))
	}

	t.statistics.AddDuration(StatFrame, elapsed)
	t.statistics.AddValue(StatEstimates, float64(estimate), "%.0f", "")
	if seconds := elapsed.Seconds(); seconds > 0 {
		t.statistics.AddValue(StatSampleRate, float64(t.frameBuffer.RunningEstimate.Len())/seconds, "%.0f", "samples/s")
	}

	core.Logger().Debug("frame rendered",
		"estimate", estimate,
		"mode", t.settings.Mode,
		"duration", elapsed)

	return FrameResult{Estimates: estimate, Duration: time.Since(start)}, nil
}

// restart discards the running estimate and rewinds every pixel's random
// stream, so a restarted view converges through the same samples
func (t *Tracer) restart() {
	t.noEstimates = 0
	t.frameBuffer.Reset()
	t.frameBuffer.RestoreSeeds()
	t.focused = t.autoFocus()
	t.dirty = false
	core.Logger().Debug("accumulation restarted", "focal_distance", t.focused.FocalDistance())
}

// autoFocus returns the camera focused on what is seen through FocusUV. Only
// cameras with an aperture in AutoFocus mode change.
func (t *Tracer) autoFocus() *Camera {
	config := t.camera.Config()
	if config.ApertureSize == 0 || config.FocusMode != AutoFocus {
		return t.camera
	}

	uv := core.NewVec2(config.FocusUV.X*float64(config.Width), config.FocusUV.Y*float64(config.Height))
	ray := t.camera.RayThrough(uv)
	rng := core.NewRNGFromSeeds(1, 2)

	total, hits := 0.0, 0
	for i := 0; i < autoFocusSamples; i++ {
		e := t.scene.NearestIntersection(ray, rng)
		if e.Valid {
			total += e.T * ray.Direction.Dot(t.camera.Forward())
			hits++
		}
	}
	if hits == 0 {
		return t.camera
	}
	return t.camera.WithFocalDistance(total / float64(hits))
}
