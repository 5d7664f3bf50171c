package world

import (
	"errors"
	"fmt"
)

// ErrInvalidHeightField is wrapped by NewHeightField for a bad configuration.
var ErrInvalidHeightField = errors.New("invalid height field")

// DefaultScale is the world-to-noise divisor applied before octave frequencies.
const DefaultScale = 25.0

// Octave is one noise layer summed into the elevation.
type Octave struct {
	Frequency float64
	Amplitude float64
}

var (
	// DefaultOctaves gives a tall, rugged terrain that reaches every biome.
	DefaultOctaves = []Octave{
		{Frequency: 0.5, Amplitude: 10},
		{Frequency: 2, Amplitude: 2.5},
		{Frequency: 4, Amplitude: 1.25},
		{Frequency: 8, Amplitude: 0.6},
	}
	// FlatOctaves is the gentler three-layer variant.
	FlatOctaves = []Octave{
		{Frequency: 1, Amplitude: 5},
		{Frequency: 2, Amplitude: 2.5},
		{Frequency: 4, Amplitude: 1.25},
	}
)

// HeightField maps world (x, z) to terrain elevation.
// It holds no mutable state and is safe for concurrent use.
type HeightField struct {
	noise   NoiseSource
	scale   float64
	octaves []Octave
}

// NewHeightField validates the octave set and returns a height field.
// Amplitudes must strictly decrease so low frequencies dominate.
func NewHeightField(noise NoiseSource, scale float64, octaves []Octave) (*HeightField, error) {
	if noise == nil {
		return nil, fmt.Errorf("%w: nil noise source", ErrInvalidHeightField)
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidHeightField, scale)
	}
	if len(octaves) == 0 {
		return nil, fmt.Errorf("%w: no octaves", ErrInvalidHeightField)
	}
	for i, o := range octaves {
		if !(o.Frequency > 0) {
			return nil, fmt.Errorf("%w: octave %d frequency must be positive", ErrInvalidHeightField, i)
		}
		if i > 0 && !(o.Amplitude < octaves[i-1].Amplitude) {
			return nil, fmt.Errorf("%w: octave %d amplitude %v does not decrease", ErrInvalidHeightField, i, o.Amplitude)
		}
	}
	oct := make([]Octave, len(octaves))
	copy(oct, octaves)
	return &HeightField{noise: noise, scale: scale, octaves: oct}, nil
}

// Elevation returns the terrain height at world coordinates x, z.
func (h *HeightField) Elevation(x, z float64) float64 {
	nx := x / h.scale
	nz := z / h.scale
	sum := 0.0
	for _, o := range h.octaves {
		sum += h.noise(nx*o.Frequency, nz*o.Frequency) * o.Amplitude
	}
	return sum
}

// Sample returns elevation and biome at x, z.
func (h *HeightField) Sample(x, z float64) (float64, Biome) {
	e := h.Elevation(x, z)
	return e, BiomeFor(e)
}

// MaxAmplitude is the sum of octave amplitudes, an upper bound on |Elevation|
// for noise sources bounded by 1.
func (h *HeightField) MaxAmplitude() float64 {
	sum := 0.0
	for _, o := range h.octaves {
		sum += o.Amplitude
	}
	return sum
}
