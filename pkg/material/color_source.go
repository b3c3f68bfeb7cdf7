package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Texture provides spatially varying colors for lights and objects
type Texture interface {
	// Evaluate returns the color at surface coordinates uv
	Evaluate(uv core.Vec2) core.ColorXYZ
}

// Mapping transforms surface coordinates before a texture lookup and scales
// the result. Zero Repeat components and a zero OutputLevel act as 1, so the
// zero value is the identity mapping.
type Mapping struct {
	Offset      core.Vec2
	Repeat      core.Vec2
	FlipU       bool
	FlipV       bool
	OutputLevel float64
}

// Apply maps uv into texture space
func (m Mapping) Apply(uv core.Vec2) core.Vec2 {
	if m.FlipU {
		uv.X = 1 - uv.X
	}
	if m.FlipV {
		uv.Y = 1 - uv.Y
	}
	return core.NewVec2(uv.X*one(m.Repeat.X), uv.Y*one(m.Repeat.Y)).Add(m.Offset)
}

// Level returns the output scale
func (m Mapping) Level() float64 {
	return one(m.OutputLevel)
}

func one(x float64) float64 {
	if x == 0 {
		return 1
	}
	return x
}

// wrap returns the fractional part of x in [0, 1)
func wrap(x float64) float64 {
	return x - math.Floor(x)
}

// Uniform is a single color everywhere
type Uniform struct {
	Color   core.ColorXYZ
	Mapping Mapping
}

// NewUniform creates a uniform texture
func NewUniform(color core.ColorXYZ) *Uniform {
	return &Uniform{Color: color}
}

// Evaluate returns the uniform color regardless of UV
func (u *Uniform) Evaluate(uv core.Vec2) core.ColorXYZ {
	return u.Color.Multiply(u.Mapping.Level())
}
