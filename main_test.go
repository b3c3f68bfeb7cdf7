package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-exposure-render/pkg/renderer"
	"github.com/df07/go-exposure-render/pkg/stats"
)

// tinyOptions renders a few estimates of a small film
func tinyOptions(sceneID string) options {
	opts := defaultOptions()
	opts.Scene = sceneID
	opts.Resolution = 8
	opts.Width, opts.Height = 12, 8
	opts.Samples = 2
	opts.Passes = 2
	opts.Workers = 2
	opts.PreviewWidth = 12
	return opts
}

func TestCreateTracer(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(o *options)
		expectError bool
	}{
		// Built-in scenes
		{"sphere phantom", func(o *options) { o.Scene = "sphere-phantom" }, false},
		{"nested shells", func(o *options) { o.Scene = "nested-shells" }, false},
		{"homogeneous cube", func(o *options) { o.Scene = "homogeneous-cube" }, false},
		{"standard ray casting", func(o *options) { o.Mode = "standard" }, false},
		{"thin lens", func(o *options) { o.Aperture = 0.02 }, false},

		// Invalid configurations
		{"unknown scene", func(o *options) { o.Scene = "nonexistent" }, true},
		{"empty scene name", func(o *options) { o.Scene = "" }, true},
		{"unknown mode", func(o *options) { o.Mode = "bdpt" }, true},
		{"resolution too small", func(o *options) { o.Resolution = 1 }, true},
		{"zero width", func(o *options) { o.Width = 0 }, true},
		{"field of view too wide", func(o *options) { o.FOV = 180 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tinyOptions("sphere-phantom")
			tt.modify(&opts)
			tracer, demo, err := createTracer(opts)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for %+v, but got none", opts)
				}
				if tracer != nil {
					t.Errorf("Expected nil tracer for an invalid configuration")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tracer == nil || demo == nil {
				t.Fatal("Expected a tracer and a demo")
			}
			if demo.Info.ID != opts.Scene {
				t.Errorf("Expected demo %q, got %q", opts.Scene, demo.Info.ID)
			}
			if w, h := tracer.Camera().Width(), tracer.Camera().Height(); w != opts.Width || h != opts.Height {
				t.Errorf("Expected a %dx%d film, got %dx%d", opts.Width, opts.Height, w, h)
			}
			if got := tracer.Settings().Mode.String(); got != opts.Mode {
				t.Errorf("Expected mode %q, got %q", opts.Mode, got)
			}
		})
	}
}

func TestRun_Preview(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), tinyOptions("homogeneous-cube"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Samples per pixel: 2") {
		t.Errorf("Expected the final sample count in the output, got:\n%s", text)
	}
	for _, line := range []string{"Pass 1/2: 1 samples", "Pass 2/2: 2 samples", "ms/frame"} {
		if !strings.Contains(text, line) {
			t.Errorf("Expected per-pass progress %q in the output, got:\n%s", line, text)
		}
	}
	if !strings.Contains(text, "Frame:") {
		t.Errorf("Expected frame statistics in the output, got:\n%s", text)
	}
	if !strings.Contains(text, "▀") {
		t.Errorf("Expected a half-block preview in the output, got:\n%s", text)
	}
}

func TestRun_PNG(t *testing.T) {
	opts := tinyOptions("nested-shells")
	opts.Output = filepath.Join(t.TempDir(), "renders", "shells.png")

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	file, err := os.Open(opts.Output)
	if err != nil {
		t.Fatalf("Expected the PNG to be written: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Errorf("Expected a %dx%d image, got %v", opts.Width, opts.Height, b)
	}
	if strings.Contains(out.String(), "▀") {
		t.Error("Expected no terminal preview when writing a file")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := run(ctx, tinyOptions("sphere-phantom"), &out); err == nil {
		t.Error("Expected an error for a cancelled render")
	}
}

func TestScenesCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"scenes"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, id := range []string{"sphere-phantom", "nested-shells", "homogeneous-cube", "Phantoms:", "Media:"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("Expected %q in the scene list, got:\n%s", id, out.String())
		}
	}
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"scene", "resolution", "width", "height", "samples", "passes", "mode",
		"exposure", "gamma", "fov", "aperture", "denoise", "filter-radius", "workers", "output",
		"preview-width", "verbose"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s", name)
		}
	}
}

func TestReportPass(t *testing.T) {
	statistics := stats.NewStatistics()
	var out bytes.Buffer
	result := renderer.PassResult{PassNumber: 1, Stats: renderer.RenderStats{AverageSamples: 4}}

	reportPass(&out, result, 3, statistics)
	if out.Len() != 0 {
		t.Errorf("Expected no progress before a frame was timed, got %q", out.String())
	}

	// The first measurement is shown as is, later ones are eased toward
	statistics.AddDuration(renderer.StatFrame, 10*time.Millisecond)
	reportPass(&out, result, 3, statistics)
	if got := out.String(); got != "Pass 1/3: 4 samples, 10.00 ms/frame\n" {
		t.Errorf("Unexpected progress line %q", got)
	}

	statistics.AddDuration(renderer.StatFrame, 30*time.Millisecond)
	frame, _ := statistics.Get(renderer.StatFrame)
	if frame.Smoothed <= 10 || frame.Smoothed >= frame.Value {
		t.Errorf("Expected the eased frame time between 10 and %f, got %f", frame.Value, frame.Smoothed)
	}
}
