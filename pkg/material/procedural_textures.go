package material

import (
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/transfer"
)

// Checker alternates two colors on a 2x2 grid per unit of texture space
type Checker struct {
	Color1  core.ColorXYZ
	Color2  core.ColorXYZ
	Mapping Mapping
}

// NewChecker creates a checkerboard texture
func NewChecker(color1, color2 core.ColorXYZ) *Checker {
	return &Checker{Color1: color1, Color2: color2}
}

// Evaluate implements Texture
func (c *Checker) Evaluate(uv core.Vec2) core.ColorXYZ {
	st := c.Mapping.Apply(uv)
	checkU := int(math.Floor(2 * st.X))
	checkV := int(math.Floor(2 * st.Y))

	color := c.Color2
	if (checkU+checkV)%2 == 0 {
		color = c.Color1
	}
	return color.Multiply(c.Mapping.Level())
}

// Gradient maps the v coordinate through a color transfer function
type Gradient struct {
	Colors  *transfer.Color
	Mapping Mapping
}

// NewGradient creates a two-color gradient from v=0 to v=1
func NewGradient(from, to core.ColorXYZ) *Gradient {
	colors := transfer.NewColor()
	_ = colors.AddNode(0, from)
	_ = colors.AddNode(1, to)
	return &Gradient{Colors: colors}
}

// Evaluate implements Texture
func (g *Gradient) Evaluate(uv core.Vec2) core.ColorXYZ {
	st := g.Mapping.Apply(uv)
	return g.Colors.Evaluate(wrap(st.Y)).Multiply(g.Mapping.Level())
}
