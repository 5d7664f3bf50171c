package meshing

import (
	"flyover/internal/world"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func chunkFor(t *testing.T, noise world.NoiseSource, res int) *world.ChunkRecord {
	t.Helper()
	h, err := world.NewHeightField(noise, world.DefaultScale, world.DefaultOctaves)
	if err != nil {
		t.Fatal(err)
	}
	return world.GenerateChunk(h, world.ChunkKey{X: 1, Z: -1}, 100, res)
}

func TestBuildTerrainMeshCounts(t *testing.T) {
	rec := chunkFor(t, world.NewSimplexNoise(3), 10)
	m := BuildTerrainMesh(rec)
	if m.VertexCount() != 11*11 {
		t.Errorf("vertex count = %d, want 121", m.VertexCount())
	}
	if len(m.Indices) != 10*10*6 {
		t.Errorf("index count = %d, want 600", len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildTerrainMeshFlatNormalsAndColors(t *testing.T) {
	rec := chunkFor(t, world.ConstantNoise(0), 4)
	m := BuildTerrainMesh(rec)
	for i := 0; i < m.VertexCount(); i++ {
		if n := m.Normal(i); !n.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
			t.Fatalf("vertex %d normal %v, want up", i, n)
		}
		if c := m.Color(i); c != world.BiomeDirt.Color() {
			t.Fatalf("vertex %d color %v, want dirt", i, c)
		}
	}
	// far corner sits at chunk-local (size, 0, size)
	if p := m.Position(m.VertexCount() - 1); !p.ApproxEqual(mgl32.Vec3{100, 0, 100}) {
		t.Errorf("last vertex at %v", p)
	}
}

func TestBuildTerrainMeshSlopeNormals(t *testing.T) {
	// ramp k*x gives a constant slope along X
	h, err := world.NewHeightField(world.RampNoise(1), 25, []world.Octave{{Frequency: 1, Amplitude: 1}})
	if err != nil {
		t.Fatal(err)
	}
	rec := world.GenerateChunk(h, world.ChunkKey{}, 100, 4)
	m := BuildTerrainMesh(rec)
	want := mgl32.Vec3{-1.0 / 25, 1, 0}.Normalize()
	for i := 0; i < m.VertexCount(); i++ {
		if n := m.Normal(i); !n.ApproxEqualThreshold(want, 1e-5) {
			t.Fatalf("vertex %d normal %v, want %v", i, n, want)
		}
	}
}

func TestTerrainTrianglesFaceUp(t *testing.T) {
	rec := chunkFor(t, world.ConstantNoise(0), 3)
	m := BuildTerrainMesh(rec)
	for k := 0; k < len(m.Indices); k += 3 {
		a, b, c := m.Position(int(m.Indices[k])), m.Position(int(m.Indices[k+1])), m.Position(int(m.Indices[k+2]))
		if n := b.Sub(a).Cross(c.Sub(a)); n.Y() <= 0 {
			t.Fatalf("triangle %d faces down: %v", k/3, n)
		}
	}
}

func TestBuildBoxesFacesOutward(t *testing.T) {
	m := BuildBoxes(VehicleParts)
	if m.VertexCount() != len(VehicleParts)*24 {
		t.Errorf("vertex count = %d", m.VertexCount())
	}
	for k := 0; k < len(m.Indices); k += 3 {
		ia := int(m.Indices[k])
		a, b, c := m.Position(ia), m.Position(int(m.Indices[k+1])), m.Position(int(m.Indices[k+2]))
		geo := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if d := geo.Dot(m.Normal(ia)); math.Abs(float64(d)-1) > 1e-5 {
			t.Fatalf("triangle %d winding disagrees with its normal", k/3)
		}
	}
}
