package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Part is one box of a composite model.
type Part struct {
	Size   mgl32.Vec3
	Offset mgl32.Vec3
	Color  mgl32.Vec3
}

// VehicleParts is the flyer: body, wings and tail. The nose points +Z.
var VehicleParts = []Part{
	{Size: mgl32.Vec3{2, 1, 3}, Offset: mgl32.Vec3{0, 0.5, 0}, Color: mgl32.Vec3{0.20, 0.40, 1.00}},
	{Size: mgl32.Vec3{6, 0.2, 1.5}, Offset: mgl32.Vec3{0, 0.7, 0}, Color: mgl32.Vec3{0.13, 0.27, 0.80}},
	{Size: mgl32.Vec3{1, 0.5, 1.5}, Offset: mgl32.Vec3{0, 0.7, -1.5}, Color: mgl32.Vec3{0.13, 0.27, 0.80}},
}

var boxFaces = [6]struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3 // CCW seen from outside, unit cube centred on 0
}{
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{.5, -.5, .5}, {.5, -.5, -.5}, {.5, .5, -.5}, {.5, .5, .5}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-.5, -.5, -.5}, {-.5, -.5, .5}, {-.5, .5, .5}, {-.5, .5, -.5}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-.5, .5, .5}, {.5, .5, .5}, {.5, .5, -.5}, {-.5, .5, -.5}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-.5, -.5, -.5}, {.5, -.5, -.5}, {.5, -.5, .5}, {-.5, -.5, .5}}},
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-.5, -.5, .5}, {.5, -.5, .5}, {.5, .5, .5}, {-.5, .5, .5}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{.5, -.5, -.5}, {-.5, -.5, -.5}, {-.5, .5, -.5}, {.5, .5, -.5}}},
}

// BuildBoxes meshes a set of axis-aligned boxes into one flat-shaded mesh.
func BuildBoxes(parts []Part) *Mesh {
	m := &Mesh{}
	for _, p := range parts {
		for _, f := range boxFaces {
			base := uint32(m.VertexCount())
			for _, c := range f.corners {
				pos := mgl32.Vec3{c[0] * p.Size[0], c[1] * p.Size[1], c[2] * p.Size[2]}.Add(p.Offset)
				m.appendVertex(pos, f.normal, p.Color)
			}
			m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
		}
	}
	return m
}
