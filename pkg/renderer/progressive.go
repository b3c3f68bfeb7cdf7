package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/framebuffer"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	InitialSamples     int // Estimates for the first pass (1 recommended)
	MaxSamplesPerPixel int // Estimates per pixel at which rendering stops
	MaxPasses          int // Number of passes the estimates are spread over
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
	}
}

// ProgressiveRenderer drives a Tracer frame after frame and reports a result
// at the end of each pass
type ProgressiveRenderer struct {
	tracer *Tracer
	config ProgressiveConfig
}

// NewProgressiveRenderer creates a progressive renderer over a tracer
func NewProgressiveRenderer(tracer *Tracer, config ProgressiveConfig) *ProgressiveRenderer {
	config.MaxPasses = max(config.MaxPasses, 1)
	config.MaxSamplesPerPixel = max(config.MaxSamplesPerPixel, 1)
	config.InitialSamples = core.ClampInt(config.InitialSamples, 1, config.MaxSamplesPerPixel)
	return &ProgressiveRenderer{tracer: tracer, config: config}
}

// getSamplesForPass calculates the target total estimates for a given pass
func (pr *ProgressiveRenderer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Display pixels of just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this frame (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderPass renders frames until the running estimate reaches the pass target
func (pr *ProgressiveRenderer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (PassResult, error) {
	target := pr.getSamplesForPass(passNumber)
	tileSize := pr.tracer.Settings().TileSize

	var onTile tileDone
	if tileCallback != nil {
		onTile = func(fb *framebuffer.FrameBuffer, tile *Tile, done, total int) {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / tileSize,
				TileY:       tile.Bounds.Min.Y / tileSize,
				TileImage:   extractTileImage(fb, tile.Bounds),
				PassNumber:  passNumber,
				TileNumber:  done,
				TotalTiles:  total,
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	for pr.tracer.NoEstimates() < target {
		if _, err := pr.tracer.renderFrame(ctx, onTile); err != nil {
			return PassResult{}, err
		}
	}

	img, stats := pr.tracer.snapshot(pr.config.MaxSamplesPerPixel)
	return PassResult{
		PassNumber: passNumber,
		Image:      img,
		Stats:      stats,
		IsLast:     passNumber == pr.config.MaxPasses || stats.AverageSamples >= float64(pr.config.MaxSamplesPerPixel),
	}, nil
}

// extractTileImage copies a tile of the unfiltered display estimate. It runs
// while other tiles render, which is safe because tiles never overlap.
func extractTileImage(fb *framebuffer.FrameBuffer, bounds image.Rectangle) *image.RGBA {
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, fb.DisplayEstimate.At(x, y).ToColor())
		}
	}
	return tileImage
}

// RenderProgressive renders with channel-based communication.
// Returns channels for events. The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false, the tile channel will be closed immediately and no tile events will be generated.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		// Every run starts from an empty running estimate
		pr.tracer.MarkDirty()

		log := core.Logger()
		log.Info("starting progressive rendering",
			"passes", pr.config.MaxPasses,
			"max_samples", pr.config.MaxSamplesPerPixel,
			"workers", pr.tracer.pool.NumWorkers())

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				log.Info("rendering cancelled", "pass", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the update
					}
				}
			}

			startTime := time.Now()
			result, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			frame, _ := pr.tracer.Statistics().Get(StatFrame)
			log.Info("pass completed",
				"pass", pass,
				"duration", time.Since(startTime),
				"frame_ms", frame.Smoothed,
				"samples", int(result.Stats.AverageSamples),
				"coverage", result.Stats.Coverage)

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if result.IsLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}
