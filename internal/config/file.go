package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by Validate for any rejected value.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full run configuration, normally read from flyover.yaml.
type Config struct {
	Terrain   Terrain   `yaml:"terrain"`
	Streaming Streaming `yaml:"streaming"`
	Player    Player    `yaml:"player"`
}

// Terrain configures the height field.
type Terrain struct {
	Seed    int64    `yaml:"seed"` // 0 picks a seed at startup
	Noise   string   `yaml:"noise"`
	Scale   float64  `yaml:"scale"`
	Octaves []Octave `yaml:"octaves"`
}

type Octave struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

// Streaming configures the chunk streamer.
type Streaming struct {
	ChunkSize      float64 `yaml:"chunk_size"`
	RenderDistance int     `yaml:"render_distance"`
	Resolution     int     `yaml:"resolution"`
	Workers        int     `yaml:"workers"` // 0 uses one per CPU
}

// Player configures the hover kinematics.
type Player struct {
	Speed         float64 `yaml:"speed"`
	Accel         float64 `yaml:"accel"`
	Friction      float64 `yaml:"friction"`
	HoverOffset   float64 `yaml:"hover_offset"`
	TurnSmoothing float64 `yaml:"turn_smoothing"`
	BankFactor    float64 `yaml:"bank_factor"`
	YawDeadZone   float64 `yaml:"yaw_dead_zone"`
	SpawnX        float64 `yaml:"spawn_x"`
	SpawnZ        float64 `yaml:"spawn_z"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Terrain: Terrain{
			Noise: "simplex",
			Scale: 25,
			Octaves: []Octave{
				{Frequency: 0.5, Amplitude: 10},
				{Frequency: 2, Amplitude: 2.5},
				{Frequency: 4, Amplitude: 1.25},
				{Frequency: 8, Amplitude: 0.6},
			},
		},
		Streaming: Streaming{
			ChunkSize:      100,
			RenderDistance: 2,
			Resolution:     100,
		},
		Player: Player{
			Speed:         0.3,
			Accel:         0.05,
			Friction:      0.95,
			HoverOffset:   1.0,
			TurnSmoothing: 0.1,
			BankFactor:    0.1,
			YawDeadZone:   0.01,
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML in raw onto cfg and validates the result.
func Decode(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

// Validate checks ranges the runtime depends on.
func (c Config) Validate() error {
	if !(c.Terrain.Scale > 0) {
		return fmt.Errorf("%w: terrain.scale must be positive", ErrInvalidConfig)
	}
	if len(c.Terrain.Octaves) == 0 {
		return fmt.Errorf("%w: terrain.octaves is empty", ErrInvalidConfig)
	}
	for i, o := range c.Terrain.Octaves {
		if !(o.Frequency > 0) {
			return fmt.Errorf("%w: terrain.octaves[%d].frequency must be positive", ErrInvalidConfig, i)
		}
		if i > 0 && !(o.Amplitude < c.Terrain.Octaves[i-1].Amplitude) {
			return fmt.Errorf("%w: terrain.octaves[%d].amplitude must be below the previous octave", ErrInvalidConfig, i)
		}
	}
	if !(c.Streaming.ChunkSize > 0) {
		return fmt.Errorf("%w: streaming.chunk_size must be positive", ErrInvalidConfig)
	}
	if c.Streaming.RenderDistance < MinRenderDistance || c.Streaming.RenderDistance > MaxRenderDistance {
		return fmt.Errorf("%w: streaming.render_distance must be in [%d, %d]", ErrInvalidConfig, MinRenderDistance, MaxRenderDistance)
	}
	if c.Streaming.Resolution < 1 {
		return fmt.Errorf("%w: streaming.resolution must be at least 1", ErrInvalidConfig)
	}
	if c.Streaming.Workers < 0 {
		return fmt.Errorf("%w: streaming.workers must not be negative", ErrInvalidConfig)
	}
	if c.Player.Friction < 0 || c.Player.Friction >= 1 {
		return fmt.Errorf("%w: player.friction must be in [0, 1)", ErrInvalidConfig)
	}
	if c.Player.Speed < 0 || c.Player.Accel < 0 {
		return fmt.Errorf("%w: player.speed and player.accel must not be negative", ErrInvalidConfig)
	}
	if c.Player.TurnSmoothing < 0 || c.Player.TurnSmoothing > 1 {
		return fmt.Errorf("%w: player.turn_smoothing must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}
