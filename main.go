package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/integrator"
	"github.com/df07/go-exposure-render/pkg/preview"
	"github.com/df07/go-exposure-render/pkg/renderer"
	"github.com/df07/go-exposure-render/pkg/scene"
	"github.com/df07/go-exposure-render/pkg/stats"
)

// options holds the command line configuration of a render
type options struct {
	Scene        string
	Resolution   int
	Width        int
	Height       int
	Samples      int
	Passes       int
	Mode         string
	Exposure     float64
	Gamma        float64
	FOV          float64
	Aperture     float64
	Denoise      bool
	FilterRadius int
	Workers      int
	Output       string
	PreviewWidth int
	Verbose      bool
}

func defaultOptions() options {
	camera := renderer.DefaultCameraConfig()
	settings := renderer.DefaultRenderSettings()
	progressive := renderer.DefaultProgressiveConfig()
	return options{
		Scene:        "sphere-phantom",
		Resolution:   64,
		Width:        320,
		Height:       240,
		Samples:      progressive.MaxSamplesPerPixel,
		Passes:       progressive.MaxPasses,
		Mode:         settings.Mode.String(),
		Exposure:     camera.Exposure,
		Gamma:        camera.Gamma,
		FOV:          camera.FOV,
		Aperture:     camera.ApertureSize,
		Denoise:      settings.NoiseReduction,
		FilterRadius: settings.FilterRadius,
		Workers:      settings.NumWorkers,
		PreviewWidth: 80,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "exposure-render",
		Short: "Progressive stochastic volume renderer",
		Long: "Renders a built-in synthetic volume with stochastic single scattering\n" +
			"and writes the result to a PNG file or previews it in the terminal.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Scene, "scene", "s", opts.Scene, "built-in scene to render (see 'scenes')")
	f.IntVar(&opts.Resolution, "resolution", opts.Resolution, "voxels per side of the synthetic volume")
	f.IntVar(&opts.Width, "width", opts.Width, "image width in pixels")
	f.IntVar(&opts.Height, "height", opts.Height, "image height in pixels")
	f.IntVarP(&opts.Samples, "samples", "n", opts.Samples, "estimates per pixel")
	f.IntVar(&opts.Passes, "passes", opts.Passes, "progressive passes the estimates are spread over")
	f.StringVarP(&opts.Mode, "mode", "m", opts.Mode, "render mode: stochastic or standard")
	f.Float64Var(&opts.Exposure, "exposure", opts.Exposure, "tone mapping exposure")
	f.Float64Var(&opts.Gamma, "gamma", opts.Gamma, "display gamma")
	f.Float64Var(&opts.FOV, "fov", opts.FOV, "vertical field of view in degrees")
	f.Float64Var(&opts.Aperture, "aperture", opts.Aperture, "lens radius, 0 for a pinhole camera")
	f.BoolVar(&opts.Denoise, "denoise", opts.Denoise, "filter the display estimate")
	f.IntVar(&opts.FilterRadius, "filter-radius", opts.FilterRadius, "noise reduction filter radius")
	f.IntVarP(&opts.Workers, "workers", "w", opts.Workers, "render workers, 0 for one per CPU")
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "PNG file to write; empty previews in the terminal")
	f.IntVar(&opts.PreviewWidth, "preview-width", opts.PreviewWidth, "terminal preview width in columns")
	f.BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "log every frame")

	cmd.AddCommand(newScenesCommand())
	return cmd
}

func newScenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listScenes(cmd.OutOrStdout())
		},
	}
}

func listScenes(out io.Writer) error {
	for _, group := range scene.ListSceneGroups() {
		if _, err := fmt.Fprintf(out, "%s:\n", group.Name); err != nil {
			return err
		}
		for _, s := range group.Scenes {
			if _, err := fmt.Fprintf(out, "  %-18s %s\n", s.ID, s.Description); err != nil {
				return err
			}
		}
	}
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// createTracer builds the demo scene and a tracer bound to it
func createTracer(opts options) (*renderer.Tracer, *scene.Demo, error) {
	demo, err := scene.NewDemo(opts.Scene, opts.Resolution)
	if err != nil {
		return nil, nil, err
	}

	mode, err := integrator.ParseRenderMode(opts.Mode)
	if err != nil {
		return nil, nil, err
	}

	config := renderer.DefaultCameraConfig()
	config.Width, config.Height = opts.Width, opts.Height
	config.Pos, config.Target, config.Up = demo.Eye, demo.Target, demo.Up
	config.FOV = opts.FOV
	config.Exposure = opts.Exposure
	config.Gamma = opts.Gamma
	config.ApertureSize = opts.Aperture
	camera, err := renderer.NewCamera(config)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid camera: %w", err)
	}

	settings := renderer.DefaultRenderSettings()
	settings.Mode = mode
	settings.NoiseReduction = opts.Denoise
	settings.FilterRadius = opts.FilterRadius
	settings.NumWorkers = opts.Workers

	tracer := renderer.NewTracer(demo.Registry, camera, settings)
	if err := tracer.SetProperty(demo.Property); err != nil {
		return nil, nil, err
	}
	if err := tracer.Bind(demo.Binding); err != nil {
		return nil, nil, err
	}
	return tracer, demo, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	tracer, demo, err := createTracer(opts)
	if err != nil {
		return err
	}

	log := core.Logger()
	log.Info("rendering scene",
		"scene", demo.Info.DisplayName,
		"width", opts.Width,
		"height", opts.Height,
		"mode", tracer.Settings().Mode)

	pr := renderer.NewProgressiveRenderer(tracer, renderer.ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: opts.Samples,
		MaxPasses:          opts.Passes,
	})

	startTime := time.Now()
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var final *renderer.PassResult
	for result := range passChan {
		final = &result
		reportPass(out, result, opts.Passes, tracer.Statistics())
	}
	if err := <-errChan; err != nil {
		return err
	}
	if final == nil {
		return fmt.Errorf("no passes rendered")
	}

	fmt.Fprintf(out, "Render completed in %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Fprintf(out, "Samples per pixel: %.0f, coverage %.1f%%, luminance %.3f\n",
		final.Stats.AverageSamples, 100*final.Stats.Coverage, renderer.CalculateAverageLuminance(final.Image))
	fmt.Fprintln(out, tracer.Statistics())

	if opts.Output == "" {
		_, err := io.WriteString(out, preview.Render(final.Image, opts.PreviewWidth))
		return err
	}
	if err := savePNG(opts.Output, final.Image); err != nil {
		return err
	}
	fmt.Fprintf(out, "Render saved as %s\n", opts.Output)
	return nil
}

// reportPass prints one progress line per pass with the eased frame time
func reportPass(out io.Writer, result renderer.PassResult, passes int, statistics *stats.Statistics) {
	frame, ok := statistics.Get(renderer.StatFrame)
	if !ok {
		return
	}
	fmt.Fprintf(out, "Pass %d/%d: %.0f samples, %.2f ms/frame\n",
		result.PassNumber, passes, result.Stats.AverageSamples, frame.Smoothed)
}

func savePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}
