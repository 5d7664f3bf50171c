package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// NoiseSource is a deterministic 2D coherent noise function with output
// roughly in [-1, 1]. Implementations are pure once constructed and may be
// shared between goroutines.
type NoiseSource func(x, z float64) float64

// ErrUnknownNoise is returned by NoiseByName for an unrecognised kind.
var ErrUnknownNoise = errors.New("unknown noise kind")

// Noise kinds accepted by NoiseByName.
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
	NoiseValue   = "value"
	NoiseFlat    = "flat"
)

// NoiseByName builds the named noise source seeded with seed.
func NoiseByName(kind string, seed int64) (NoiseSource, error) {
	switch kind {
	case NoiseSimplex, "":
		return NewSimplexNoise(seed), nil
	case NoisePerlin:
		return NewPerlinNoise(seed), nil
	case NoiseValue:
		return NewValueNoise(seed), nil
	case NoiseFlat:
		return ConstantNoise(0), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNoise, kind)
	}
}

// NewSimplexNoise returns OpenSimplex noise in [-1, 1].
func NewSimplexNoise(seed int64) NoiseSource {
	n := opensimplex.New(seed)
	return n.Eval2
}

// NewPerlinNoise returns single-octave Perlin noise. Octave layering is the
// height field's job, so the generator is built with n=1.
func NewPerlinNoise(seed int64) NoiseSource {
	p := perlin.NewPerlin(2, 2, 1, seed)
	return p.Noise2D
}

// ConstantNoise returns v everywhere.
func ConstantNoise(v float64) NoiseSource {
	return func(float64, float64) float64 { return v }
}

// RampNoise returns k*x, a linear ramp along X. Useful for seam tests where
// the expected elevation is known in closed form.
func RampNoise(k float64) NoiseSource {
	return func(x, _ float64) float64 { return k * x }
}

// Simple deterministic 2D value noise.
// Uses integer hashing for lattice values, no tables.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, z int64, seed int64) float64 {
	// Map to [0,1]
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x1), int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z1), seed)
	v11 := latticeValue(int64(x1), int64(z1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz) // [0,1]
}

// NewValueNoise returns hash-lattice value noise remapped to [-1, 1].
func NewValueNoise(seed int64) NoiseSource {
	return func(x, z float64) float64 {
		return valueNoise2D(x, z, seed)*2 - 1
	}
}
