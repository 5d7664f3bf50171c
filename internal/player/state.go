package player

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultSpeed         = 0.3
	DefaultAccel         = 0.05
	DefaultFriction      = 0.95
	DefaultHoverOffset   = 1.0
	DefaultTurnSmoothing = 0.1
	DefaultBankFactor    = 0.1
	DefaultYawDeadZone   = 0.01
)

// Terrain is the elevation lookup the vehicle hovers over.
type Terrain interface {
	Elevation(x, z float64) float64
}

// Params tunes the hover kinematics.
type Params struct {
	Speed         float64
	Accel         float64
	Friction      float64 // per-tick velocity multiplier
	HoverOffset   float64
	TurnSmoothing float64 // fraction of the remaining rotation applied per tick
	BankFactor    float64
	YawDeadZone   float64 // below this speed the heading is left alone
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		Speed:         DefaultSpeed,
		Accel:         DefaultAccel,
		Friction:      DefaultFriction,
		HoverOffset:   DefaultHoverOffset,
		TurnSmoothing: DefaultTurnSmoothing,
		BankFactor:    DefaultBankFactor,
		YawDeadZone:   DefaultYawDeadZone,
	}
}

// State is the externally visible vehicle state.
// Velocity holds (vx, vz); Rotation holds (pitch, yaw, roll) in radians.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec2
	Speed    float64
	Rotation mgl64.Vec3
}

// Player is the single hovering vehicle.
type Player struct {
	State
	Params Params
	Ticks  uint64
}

// New creates a player at rest over (x, z). Position.Y is set on the first tick.
func New(x, z float64, params Params) *Player {
	return &Player{
		State: State{
			Position: mgl64.Vec3{x, 0, z},
			Speed:    params.Speed,
		},
		Params: params,
	}
}

// Snapshot returns a copy of the current state.
func (p *Player) Snapshot() State {
	return p.State
}
