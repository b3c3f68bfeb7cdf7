package integrator

import (
	"fmt"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/scene"
)

// rayEpsilon offsets secondary rays from the point they leave
const rayEpsilon = 1e-4

// Integrator defines the interface for per-pixel radiance estimators
type Integrator interface {
	// Li estimates the radiance along a camera ray. Alpha is the coverage of
	// the pixel sample: 1 when the ray found something, 0 otherwise.
	Li(ray core.Ray, s *scene.Scene, rng core.Sampler) core.ColorXYZA
}

// RenderMode selects the integrator used for a frame
type RenderMode int

const (
	// StochasticRayCasting is Monte Carlo single scattering with next event estimation
	StochasticRayCasting RenderMode = iota
	// StandardRayCasting is front-to-back emission/absorption compositing
	StandardRayCasting
)

func (m RenderMode) String() string {
	switch m {
	case StochasticRayCasting:
		return "stochastic"
	case StandardRayCasting:
		return "standard"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseRenderMode converts a mode name as printed by String
func ParseRenderMode(name string) (RenderMode, error) {
	switch name {
	case "stochastic":
		return StochasticRayCasting, nil
	case "standard":
		return StandardRayCasting, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", name)
	}
}

// New creates the integrator for a render mode
func New(mode RenderMode) Integrator {
	if mode == StandardRayCasting {
		return NewRayCastingIntegrator()
	}
	return NewStochasticIntegrator()
}
