package transfer

import (
	"sync"

	"github.com/df07/go-exposure-render/pkg/core"
)

// Black-body colors of light sources from 1000K to 15000K in 500K steps, as
// 8-bit sRGB triples
var kelvinTable = [...][3]float64{
	{255, 51, 0}, {255, 111, 0}, {255, 141, 11}, {255, 166, 69}, {255, 185, 105},
	{255, 201, 135}, {255, 213, 161}, {255, 223, 184}, {255, 231, 204}, {255, 238, 222},
	{255, 244, 237}, {255, 249, 251}, {247, 245, 255}, {238, 239, 255}, {229, 233, 255},
	{223, 229, 255}, {217, 225, 255}, {212, 221, 255}, {207, 218, 255}, {204, 216, 255},
	{200, 213, 255}, {197, 211, 255}, {195, 209, 255}, {192, 207, 255}, {190, 206, 255},
	{188, 204, 255}, {186, 203, 255}, {185, 202, 255}, {183, 201, 255},
}

const (
	kelvinMin  = 1000.0
	kelvinStep = 500.0
)

var kelvinOnce = sync.OnceValue(func() *Color {
	tf := NewColor()
	for i, rgb := range kelvinTable {
		c := core.ColorRGB{R: rgb[0] / 255, G: rgb[1] / 255, B: rgb[2] / 255}
		_ = AddRGBNode(tf, kelvinMin+float64(i)*kelvinStep, c)
	}
	return tf
})

// Kelvin returns the XYZ color of a black body at the given temperature.
// Temperatures outside 1000K..15000K clamp to the table ends.
func Kelvin(temperature float64) core.ColorXYZ {
	return kelvinOnce().Evaluate(temperature)
}
