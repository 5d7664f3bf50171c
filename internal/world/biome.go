package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Biome classifies terrain by elevation.
type Biome uint8

const (
	BiomeDirt Biome = iota
	BiomeGrass
	BiomeStone
	BiomeSnow
)

// Elevation thresholds. Comparisons are strict, so a value exactly on a
// threshold falls into the lower band.
const (
	SnowLine  = 8.0
	StoneLine = 5.0
	GrassLine = 0.0
)

// BiomeFor classifies an elevation.
func BiomeFor(elevation float64) Biome {
	switch {
	case elevation > SnowLine:
		return BiomeSnow
	case elevation > StoneLine:
		return BiomeStone
	case elevation > GrassLine:
		return BiomeGrass
	default:
		return BiomeDirt
	}
}

var biomeNames = [...]string{
	BiomeDirt:  "DIRT",
	BiomeGrass: "GRASS",
	BiomeStone: "STONE",
	BiomeSnow:  "SNOW",
}

func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "UNKNOWN"
}

// Vertex colors per biome (linear RGB)
var biomeColors = [...]mgl32.Vec3{
	BiomeDirt:  {0.55, 0.40, 0.25},
	BiomeGrass: {0.29, 0.87, 0.50},
	BiomeStone: {0.50, 0.50, 0.52},
	BiomeSnow:  {0.95, 0.96, 0.98},
}

// Color returns the vertex color used for this biome.
func (b Biome) Color() mgl32.Vec3 {
	if int(b) < len(biomeColors) {
		return biomeColors[b]
	}
	return mgl32.Vec3{1, 0, 1}
}
