package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a chase camera that trails the vehicle at a fixed offset and
// looks at it.
type Camera struct {
	AspectRatio float32
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32
	Offset      mgl32.Vec3
}

// NewCamera returns the default chase camera for a framebuffer size.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       75.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		Offset:    mgl32.Vec3{0, 15, 20},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio; a zero-height framebuffer is ignored.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Eye returns the camera position for a target.
func (c *Camera) Eye(target mgl32.Vec3) mgl32.Vec3 {
	return target.Add(c.Offset)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix(target mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(target), target, mgl32.Vec3{0, 1, 0})
}
