package graphics

import (
	"time"

	"flyover/internal/meshing"
	"flyover/internal/player"
	"flyover/internal/profiling"
	"flyover/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	skyColor   = mgl32.Vec3{0.53, 0.81, 0.92}
	sunDir     = mgl32.Vec3{0.4, 1.0, 0.3}
	ambientMix = float32(0.45)
	diffuseMix = float32(0.65)

	terrainSway = float32(0.1)
)

// gpuMesh is a mesh resident in GL buffers.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	model         mgl32.Mat4
}

func uploadMesh(m *meshing.Mesh, model mgl32.Mat4) *gpuMesh {
	g := &gpuMesh{indexCount: int32(len(m.Indices)), model: model}
	if len(m.Indices) == 0 {
		return g
	}
	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	stride := int32(meshing.FloatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw(s *Shader) {
	if g.indexCount == 0 {
		return
	}
	s.SetMat4("uModel", g.model)
	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
}

func (g *gpuMesh) delete() {
	if g.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}

// Renderer draws the streamed terrain and the vehicle. It receives world
// changes as a game.Observer and must only be used on the GL thread.
type Renderer struct {
	Camera    *Camera
	Wireframe bool

	shader  *Shader
	chunks  map[world.ChunkKey]*gpuMesh
	vehicle *gpuMesh
	state   player.State
	start   time.Time
}

// NewRenderer compiles the shaders and uploads the vehicle model. gl.Init
// must have been called.
func NewRenderer(width, height int) (*Renderer, error) {
	shader, err := NewShader(meshVertexSrc, meshFragmentSrc)
	if err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(skyColor[0], skyColor[1], skyColor[2], 1.0)

	return &Renderer{
		Camera:  NewCamera(width, height),
		shader:  shader,
		chunks:  make(map[world.ChunkKey]*gpuMesh),
		vehicle: uploadMesh(meshing.BuildBoxes(meshing.VehicleParts), mgl32.Ident4()),
		start:   time.Now(),
	}, nil
}

func (r *Renderer) OnChunkCreated(rec *world.ChunkRecord) {
	defer profiling.Track("graphics.uploadChunk")()
	if old, ok := r.chunks[rec.Key]; ok {
		old.delete()
	}
	origin := mgl32.Vec3{float32(rec.Origin[0]), float32(rec.Origin[1]), float32(rec.Origin[2])}
	r.chunks[rec.Key] = uploadMesh(meshing.BuildTerrainMesh(rec), mgl32.Translate3D(origin[0], origin[1], origin[2]))
}

func (r *Renderer) OnChunkRemoved(key world.ChunkKey) {
	if g, ok := r.chunks[key]; ok {
		g.delete()
		delete(r.chunks, key)
	}
}

func (r *Renderer) OnPlayerStateChanged(st player.State) {
	r.state = st
}

// ChunkCount returns how many chunk meshes are resident.
func (r *Renderer) ChunkCount() int {
	return len(r.chunks)
}

// VehicleModel returns the vehicle transform: yaw about Y, then pitch and roll.
func VehicleModel(st player.State) mgl32.Mat4 {
	pos := st.Position
	rot := st.Rotation
	return mgl32.Translate3D(float32(pos[0]), float32(pos[1]), float32(pos[2])).
		Mul4(mgl32.HomogRotate3DY(float32(rot[1]))).
		Mul4(mgl32.HomogRotate3DX(float32(rot[0]))).
		Mul4(mgl32.HomogRotate3DZ(float32(rot[2])))
}

// Render draws one frame.
func (r *Renderer) Render() {
	defer profiling.Track("graphics.Render")()
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	target := mgl32.Vec3{float32(r.state.Position[0]), float32(r.state.Position[1]), float32(r.state.Position[2])}
	r.shader.Use()
	r.shader.SetMat4("uProj", r.Camera.ProjectionMatrix())
	r.shader.SetMat4("uView", r.Camera.ViewMatrix(target))
	r.shader.SetVec3("uLightDir", sunDir)
	r.shader.SetFloat("uAmbient", ambientMix)
	r.shader.SetFloat("uDiffuse", diffuseMix)
	r.shader.SetFloat("uTime", float32(time.Since(r.start).Seconds()))

	r.shader.SetFloat("uSway", terrainSway)
	for _, g := range r.chunks {
		g.draw(r.shader)
	}
	r.shader.SetFloat("uSway", 0)
	r.vehicle.model = VehicleModel(r.state)
	r.vehicle.draw(r.shader)
	gl.BindVertexArray(0)
}

// Resize updates the viewport and camera aspect.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.Camera.Resize(width, height)
}

// Dispose frees every GL resource the renderer owns.
func (r *Renderer) Dispose() {
	for k, g := range r.chunks {
		g.delete()
		delete(r.chunks, k)
	}
	r.vehicle.delete()
	r.shader.Delete()
}
