package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultChunkSize is the side length of a chunk in world units.
	DefaultChunkSize = 100.0
	// DefaultResolution is the number of grid subdivisions per chunk side.
	DefaultResolution = 100
	// DefaultRenderDistance is the Chebyshev radius, in chunks, kept loaded.
	DefaultRenderDistance = 2
)

// ChunkKey identifies a chunk by its grid cell.
type ChunkKey struct {
	X, Z int
}

// Less orders keys by X then Z.
func (k ChunkKey) Less(o ChunkKey) bool {
	if k.X != o.X {
		return k.X < o.X
	}
	return k.Z < o.Z
}

// ChunkOf returns the key of the chunk containing world position x, z.
// Negative coordinates floor toward negative infinity.
func ChunkOf(x, z, chunkSize float64) ChunkKey {
	return ChunkKey{
		X: int(math.Floor(x / chunkSize)),
		Z: int(math.Floor(z / chunkSize)),
	}
}

// Chebyshev returns max(|dx|, |dz|) between two keys.
func Chebyshev(a, b ChunkKey) int {
	return max(abs(a.X-b.X), abs(a.Z-b.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sample is one grid vertex of a chunk.
type Sample struct {
	Elevation float64
	Biome     Biome
}

// ChunkRecord holds the sampled elevation grid of one chunk.
// Samples is row-major over Z then X with Resolution+1 vertices per side.
type ChunkRecord struct {
	Key        ChunkKey
	Origin     mgl64.Vec3
	Size       float64
	Resolution int
	Samples    []Sample
}

// Stride is the number of vertices per row.
func (c *ChunkRecord) Stride() int {
	return c.Resolution + 1
}

// At returns the sample at grid column i (X) and row j (Z).
func (c *ChunkRecord) At(i, j int) Sample {
	return c.Samples[j*c.Stride()+i]
}

// VertexWorld returns the world-space position of grid vertex (i, j).
func (c *ChunkRecord) VertexWorld(i, j int) mgl64.Vec3 {
	return mgl64.Vec3{
		gridCoord(c.Key.X, i, c.Size, c.Resolution),
		c.At(i, j).Elevation,
		gridCoord(c.Key.Z, j, c.Size, c.Resolution),
	}
}

// MinMax returns the lowest and highest elevation in the chunk.
func (c *ChunkRecord) MinMax() (lo, hi float64) {
	if len(c.Samples) == 0 {
		return 0, 0
	}
	lo, hi = c.Samples[0].Elevation, c.Samples[0].Elevation
	for _, s := range c.Samples[1:] {
		lo = min(lo, s.Elevation)
		hi = max(hi, s.Elevation)
	}
	return lo, hi
}

// gridCoord maps a chunk-local vertex index to a world coordinate through the
// global vertex index, so a shared edge resolves to the same float in both chunks.
func gridCoord(chunk, local int, chunkSize float64, resolution int) float64 {
	return float64(chunk*resolution+local) * chunkSize / float64(resolution)
}

// GenerateChunk samples the height field over the chunk footprint.
// Vertices are placed at absolute world coordinates so neighbouring chunks
// produce identical values on their shared edge.
func GenerateChunk(field *HeightField, key ChunkKey, chunkSize float64, resolution int) *ChunkRecord {
	stride := resolution + 1
	rec := &ChunkRecord{
		Key:        key,
		Origin:     mgl64.Vec3{float64(key.X) * chunkSize, 0, float64(key.Z) * chunkSize},
		Size:       chunkSize,
		Resolution: resolution,
		Samples:    make([]Sample, stride*stride),
	}
	for j := range stride {
		wz := gridCoord(key.Z, j, chunkSize, resolution)
		for i := range stride {
			wx := gridCoord(key.X, i, chunkSize, resolution)
			e, b := field.Sample(wx, wz)
			rec.Samples[j*stride+i] = Sample{Elevation: e, Biome: b}
		}
	}
	return rec
}
