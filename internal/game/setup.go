package game

import (
	"flyover/internal/config"
	"flyover/internal/player"
	"flyover/internal/world"
	"fmt"
	"time"
)

// BuildHeightField turns the terrain section into a height field. A zero seed
// is replaced by one derived from the clock; the seed actually used is returned.
func BuildHeightField(t config.Terrain) (*world.HeightField, int64, error) {
	seed := t.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	noise, err := world.NoiseByName(t.Noise, seed)
	if err != nil {
		return nil, seed, err
	}
	octaves := make([]world.Octave, len(t.Octaves))
	for i, o := range t.Octaves {
		octaves[i] = world.Octave{Frequency: o.Frequency, Amplitude: o.Amplitude}
	}
	field, err := world.NewHeightField(noise, t.Scale, octaves)
	if err != nil {
		return nil, seed, fmt.Errorf("terrain: %w", err)
	}
	return field, seed, nil
}

// StreamerConfig maps the streaming section onto the streamer.
func StreamerConfig(s config.Streaming) world.StreamerConfig {
	return world.StreamerConfig{
		ChunkSize:      s.ChunkSize,
		RenderDistance: s.RenderDistance,
		Resolution:     s.Resolution,
		Workers:        s.Workers,
	}
}

// PlayerParams maps the player section onto the kinematics.
func PlayerParams(p config.Player) player.Params {
	return player.Params{
		Speed:         p.Speed,
		Accel:         p.Accel,
		Friction:      p.Friction,
		HoverOffset:   p.HoverOffset,
		TurnSmoothing: p.TurnSmoothing,
		BankFactor:    p.BankFactor,
		YawDeadZone:   p.YawDeadZone,
	}
}
