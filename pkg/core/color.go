package core

import (
	"image/color"
	"math"
)

// ColorXYZ is a radiometric color in CIE XYZ space. All light transport is done in XYZ.
type ColorXYZ struct {
	X, Y, Z float64
}

// ColorRGB is a linear RGB color
type ColorRGB struct {
	R, G, B float64
}

// ColorXYZA is an XYZ color with an alpha (coverage) channel
type ColorXYZA struct {
	X, Y, Z, A float64
}

// ColorRGBA8 is a display pixel with byte channels
type ColorRGBA8 struct {
	R, G, B, A uint8
}

// sRGB (D65) primaries
var xyzFromRGB = [3][3]float64{
	{0.412453, 0.357580, 0.180423},
	{0.212671, 0.715160, 0.072169},
	{0.019334, 0.119193, 0.950227},
}

var rgbFromXYZ = invert3(xyzFromRGB)

func invert3(m [3][3]float64) [3][3]float64 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	invDet := Reciprocal(a*A + b*B + c*C)

	return [3][3]float64{
		{A * invDet, -(b*i - c*h) * invDet, (b*f - c*e) * invDet},
		{B * invDet, (a*i - c*g) * invDet, -(a*f - c*d) * invDet},
		{C * invDet, -(a*h - b*g) * invDet, (a*e - b*d) * invDet},
	}
}

// Black is the zero XYZ color
var Black = ColorXYZ{}

// NewColorXYZ creates a new XYZ color
func NewColorXYZ(x, y, z float64) ColorXYZ {
	return ColorXYZ{X: x, Y: y, Z: z}
}

// GrayXYZ returns an XYZ color whose RGB representation is (v, v, v)
func GrayXYZ(v float64) ColorXYZ {
	return XYZFromRGB(ColorRGB{v, v, v})
}

// XYZFromRGB converts a linear RGB color to XYZ
func XYZFromRGB(c ColorRGB) ColorXYZ {
	m := xyzFromRGB
	return ColorXYZ{
		X: m[0][0]*c.R + m[0][1]*c.G + m[0][2]*c.B,
		Y: m[1][0]*c.R + m[1][1]*c.G + m[1][2]*c.B,
		Z: m[2][0]*c.R + m[2][1]*c.G + m[2][2]*c.B,
	}
}

// RGBFromXYZ converts an XYZ color to linear RGB
func RGBFromXYZ(c ColorXYZ) ColorRGB {
	m := rgbFromXYZ
	return ColorRGB{
		R: m[0][0]*c.X + m[0][1]*c.Y + m[0][2]*c.Z,
		G: m[1][0]*c.X + m[1][1]*c.Y + m[1][2]*c.Z,
		B: m[2][0]*c.X + m[2][1]*c.Y + m[2][2]*c.Z,
	}
}

// Add returns the sum of two colors
func (c ColorXYZ) Add(other ColorXYZ) ColorXYZ {
	return ColorXYZ{c.X + other.X, c.Y + other.Y, c.Z + other.Z}
}

// Subtract returns the difference of two colors
func (c ColorXYZ) Subtract(other ColorXYZ) ColorXYZ {
	return ColorXYZ{c.X - other.X, c.Y - other.Y, c.Z - other.Z}
}

// Multiply scales the color
func (c ColorXYZ) Multiply(s float64) ColorXYZ {
	return ColorXYZ{c.X * s, c.Y * s, c.Z * s}
}

// MultiplyColor returns the component-wise product of two colors
func (c ColorXYZ) MultiplyColor(other ColorXYZ) ColorXYZ {
	return ColorXYZ{c.X * other.X, c.Y * other.Y, c.Z * other.Z}
}

// Lerp linearly interpolates from c to other by t
func (c ColorXYZ) Lerp(other ColorXYZ, t float64) ColorXYZ {
	return c.Add(other.Subtract(c).Multiply(t))
}

// Luminance returns the Y channel
func (c ColorXYZ) Luminance() float64 {
	return c.Y
}

// IsBlack reports whether all channels are zero
func (c ColorXYZ) IsBlack() bool {
	return c.X == 0 && c.Y == 0 && c.Z == 0
}

// IsFinite reports whether no channel is NaN or infinite
func (c ColorXYZ) IsFinite() bool {
	for _, v := range [3]float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// WithAlpha attaches an alpha channel
func (c ColorXYZ) WithAlpha(a float64) ColorXYZA {
	return ColorXYZA{c.X, c.Y, c.Z, a}
}

// XYZ drops the alpha channel
func (c ColorXYZA) XYZ() ColorXYZ {
	return ColorXYZ{c.X, c.Y, c.Z}
}

// CumulativeMovingAverage folds sample into the running estimate c, where n counts samples including this one
func (c ColorXYZA) CumulativeMovingAverage(sample ColorXYZA, n int) ColorXYZA {
	return ColorXYZA{
		X: CumulativeMovingAverage(c.X, sample.X, n),
		Y: CumulativeMovingAverage(c.Y, sample.Y, n),
		Z: CumulativeMovingAverage(c.Z, sample.Z, n),
		A: CumulativeMovingAverage(c.A, sample.A, n),
	}
}

// Multiply scales the color
func (c ColorRGB) Multiply(s float64) ColorRGB {
	return ColorRGB{c.R * s, c.G * s, c.B * s}
}

// Clamp clamps every channel to [lo, hi]
func (c ColorRGB) Clamp(lo, hi float64) ColorRGB {
	return ColorRGB{Clamp(c.R, lo, hi), Clamp(c.G, lo, hi), Clamp(c.B, lo, hi)}
}

// ToneMap applies 1 - exp(-x * invExposure) per channel, clamped to [0, 1]
func (c ColorRGB) ToneMap(invExposure float64) ColorRGB {
	m := func(x float64) float64 { return Clamp(1.0-math.Exp(-x*invExposure), 0, 1) }
	return ColorRGB{m(c.R), m(c.G), m(c.B)}
}

// GammaCorrect raises each channel to invGamma
func (c ColorRGB) GammaCorrect(invGamma float64) ColorRGB {
	g := func(x float64) float64 { return math.Pow(max(x, 0), invGamma) }
	return ColorRGB{g(c.R), g(c.G), g(c.B)}
}

// ToRGBA8 quantizes a [0,1] color to bytes
func (c ColorRGB) ToRGBA8(alpha float64) ColorRGBA8 {
	q := func(x float64) uint8 { return uint8(Clamp(x, 0, 1)*255.0 + 0.5) }
	return ColorRGBA8{q(c.R), q(c.G), q(c.B), q(alpha)}
}

// ToColor returns the pixel as an image/color value
func (c ColorRGBA8) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
