package core

import "math"

// Epsilon is the tolerance used by intersection routines
const Epsilon = 1e-6

// Reciprocal returns 1/x, or 0 when x is zero
func Reciprocal(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1.0 / x
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp restricts x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

// ClampInt restricts x to [lo, hi]
func ClampInt(x, lo, hi int) int {
	return max(lo, min(hi, x))
}

// CumulativeMovingAverage folds sample ax into the running average a.
// n is the number of samples including ax; values below 1 are treated as 1.
func CumulativeMovingAverage(a, ax float64, n int) float64 {
	if n <= 1 {
		return ax
	}
	return a + (ax-a)/float64(n)
}

// Radians converts degrees to radians
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Gauss2D evaluates an unnormalized 2D gaussian
func Gauss2D(sigma, x, y float64) float64 {
	if sigma == 0 {
		if x == 0 && y == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(-(x*x + y*y) / (2 * sigma * sigma))
}
