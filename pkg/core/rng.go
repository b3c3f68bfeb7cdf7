package core

import "math"

// RNG is the per-pixel multiply-with-carry generator. Its whole state is two
// 32-bit seed words, which the frame buffer stores per pixel between frames.
type RNG struct {
	seed0 *uint32
	seed1 *uint32
}

// NewRNG creates a generator that advances the two seed words in place
func NewRNG(seed0, seed1 *uint32) RNG {
	return RNG{seed0: seed0, seed1: seed1}
}

// NewRNGFromSeeds creates a generator that owns its own seed words
func NewRNGFromSeeds(seed0, seed1 uint32) RNG {
	return RNG{seed0: &seed0, seed1: &seed1}
}

// Get1 returns a uniform float64 in [0, 1)
func (r RNG) Get1() float64 {
	s0, s1 := *r.seed0, *r.seed1
	s0 = 36969*(s0&65535) + (s0 >> 16)
	s1 = 18000*(s1&65535) + (s1 >> 16)
	*r.seed0, *r.seed1 = s0, s1

	ires := (s0 << 16) + s1

	// Build a float in [2, 4) from the mantissa bits, then map it to [0, 1)
	bits := (ires & 0x007fffff) | 0x40000000
	return (float64(math.Float32frombits(bits)) - 2.0) / 2.0
}

// Get2 returns two uniform values in [0, 1)
func (r RNG) Get2() Vec2 {
	x := r.Get1()
	return NewVec2(x, r.Get1())
}

// Get3 returns three uniform values in [0, 1)
func (r RNG) Get3() Vec3 {
	x := r.Get1()
	y := r.Get1()
	return NewVec3(x, y, r.Get1())
}

// Get1D implements Sampler
func (r RNG) Get1D() float64 { return r.Get1() }

// Get2D implements Sampler
func (r RNG) Get2D() Vec2 { return r.Get2() }

// Get3D implements Sampler
func (r RNG) Get3D() Vec3 { return r.Get3() }

// Seeds returns the current seed words
func (r RNG) Seeds() (uint32, uint32) {
	return *r.seed0, *r.seed1
}
