package meshing

import (
	"flyover/internal/profiling"
	"flyover/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout: position(3), normal(3), color(3).
const FloatsPerVertex = 9

// Mesh is an indexed triangle mesh ready for upload.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / FloatsPerVertex
}

// Position returns vertex i's position.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	o := i * FloatsPerVertex
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Normal returns vertex i's normal.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	o := i*FloatsPerVertex + 3
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Color returns vertex i's color.
func (m *Mesh) Color(i int) mgl32.Vec3 {
	o := i*FloatsPerVertex + 6
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

func (m *Mesh) appendVertex(pos, normal, color mgl32.Vec3) {
	m.Vertices = append(m.Vertices,
		pos[0], pos[1], pos[2],
		normal[0], normal[1], normal[2],
		color[0], color[1], color[2],
	)
}

// BuildTerrainMesh converts a chunk's sample grid into a mesh in chunk-local
// coordinates; the renderer translates it by rec.Origin. Triangles wind
// counter-clockwise seen from above.
func BuildTerrainMesh(rec *world.ChunkRecord) *Mesh {
	defer profiling.Track("meshing.BuildTerrainMesh")()
	n := rec.Resolution
	stride := rec.Stride()
	step := float32(rec.Size / float64(n))

	m := &Mesh{
		Vertices: make([]float32, 0, stride*stride*FloatsPerVertex),
		Indices:  make([]uint32, 0, n*n*6),
	}

	height := func(i, j int) float32 {
		i = min(max(i, 0), n)
		j = min(max(j, 0), n)
		return float32(rec.At(i, j).Elevation)
	}

	for j := range stride {
		for i := range stride {
			s := rec.At(i, j)
			pos := mgl32.Vec3{float32(i) * step, float32(s.Elevation), float32(j) * step}
			// Central differences, one-sided on the chunk edge
			dx := (height(i+1, j) - height(i-1, j)) / (float32(min(i+1, n)-max(i-1, 0)) * step)
			dz := (height(i, j+1) - height(i, j-1)) / (float32(min(j+1, n)-max(j-1, 0)) * step)
			normal := mgl32.Vec3{-dx, 1, -dz}.Normalize()
			m.appendVertex(pos, normal, s.Biome.Color())
		}
	}

	for j := range n {
		for i := range n {
			a := uint32(j*stride + i)
			b := a + 1
			c := a + uint32(stride)
			d := c + 1
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	return m
}
