package player

import (
	"flyover/internal/input"
	"flyover/internal/profiling"
	"flyover/internal/world"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tick advances the vehicle by one frame: thrust from the held directions,
// integrate, apply friction, snap onto the terrain and ease the rotation.
func (p *Player) Tick(dirs input.Directions, terrain Terrain) {
	defer profiling.Track("player.Tick")()
	thrust := p.Speed * p.Params.Accel

	if dirs.Has(input.Forward) {
		p.Velocity[1] -= thrust
	}
	if dirs.Has(input.Back) {
		p.Velocity[1] += thrust
	}
	if dirs.Has(input.Left) {
		p.Velocity[0] -= thrust
	}
	if dirs.Has(input.Right) {
		p.Velocity[0] += thrust
	}

	p.Position[0] += p.Velocity[0]
	p.Position[2] += p.Velocity[1]
	p.Velocity = p.Velocity.Mul(p.Params.Friction)

	p.Position[1] = terrain.Elevation(p.Position[0], p.Position[2]) + p.Params.HoverOffset

	p.updateRotation()
	p.Ticks++
}

func (p *Player) updateRotation() {
	if p.Velocity.Len() <= p.Params.YawDeadZone {
		return
	}
	vx, vz := p.Velocity[0], p.Velocity[1]
	target := mgl64.Vec3{
		vz * p.Params.BankFactor,  // pitch
		math.Atan2(vx, vz),        // yaw
		-vx * p.Params.BankFactor, // roll
	}
	k := p.Params.TurnSmoothing
	p.Rotation[0] += (target[0] - p.Rotation[0]) * k
	p.Rotation[1] = wrapAngle(p.Rotation[1] + wrapAngle(target[1]-p.Rotation[1])*k)
	p.Rotation[2] += (target[2] - p.Rotation[2]) * k
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Teleport moves the vehicle to x, z and stops it.
func (p *Player) Teleport(x, z float64, terrain Terrain) error {
	pos := mgl64.Vec3{x, 0, z}
	if err := world.CheckPosition(pos); err != nil {
		return err
	}
	pos[1] = terrain.Elevation(x, z) + p.Params.HoverOffset
	p.Position = pos
	p.Velocity = mgl64.Vec2{}
	return nil
}
