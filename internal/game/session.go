package game

import (
	"context"
	"flyover/internal/config"
	"flyover/internal/input"
	"flyover/internal/player"
	"flyover/internal/profiling"
	"flyover/internal/world"
	"io"
	"log"
)

// Observer is the boundary to whatever draws the world.
type Observer interface {
	OnChunkCreated(rec *world.ChunkRecord)
	OnChunkRemoved(key world.ChunkKey)
	OnPlayerStateChanged(st player.State)
}

// DirectionSource supplies the held movement directions once per tick.
type DirectionSource interface {
	Directions() input.Directions
}

// observerSink adapts an Observer to the streamer's sink.
type observerSink struct {
	obs Observer
}

func (s observerSink) Materialize(rec *world.ChunkRecord) { s.obs.OnChunkCreated(rec) }
func (s observerSink) Dispose(key world.ChunkKey)         { s.obs.OnChunkRemoved(key) }

// Session owns all per-run state: the streamer, the vehicle and the input
// snapshot source. Tick is the only mutator.
type Session struct {
	Field    *world.HeightField
	Streamer *world.ChunkStreamer
	Player   *player.Player
	Seed     int64

	Paused bool

	input    DirectionSource
	observer Observer
	logger   *log.Logger
}

// NewSession builds a session from cfg. obs may be nil for headless runs;
// logger may be nil to discard output.
func NewSession(cfg config.Config, in DirectionSource, obs Observer, logger *log.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	field, seed, err := BuildHeightField(cfg.Terrain)
	if err != nil {
		return nil, err
	}

	var sink world.ChunkSink
	if obs != nil {
		sink = observerSink{obs: obs}
	}
	config.SetRenderDistance(cfg.Streaming.RenderDistance)

	s := &Session{
		Field:    field,
		Streamer: world.NewChunkStreamer(field, StreamerConfig(cfg.Streaming), sink),
		Player:   player.New(cfg.Player.SpawnX, cfg.Player.SpawnZ, PlayerParams(cfg.Player)),
		Seed:     seed,
		input:    in,
		observer: obs,
		logger:   logger,
	}
	logger.Printf("terrain seed %d, noise %s, render distance %d", seed, cfg.Terrain.Noise, cfg.Streaming.RenderDistance)
	return s, nil
}

// Start places the vehicle over the spawn point and streams the initial area.
func (s *Session) Start(ctx context.Context) error {
	p := s.Player
	if err := p.Teleport(p.Position.X(), p.Position.Z(), s.Field); err != nil {
		return err
	}
	diff, err := s.Streamer.Update(ctx, p.Position)
	if err != nil {
		return err
	}
	s.logger.Printf("spawned at (%.1f, %.1f, %.1f), %d chunks loaded", p.Position.X(), p.Position.Y(), p.Position.Z(), len(diff.Created))
	s.notifyPlayer()
	return nil
}

// Tick advances one frame: read input, move, stream.
func (s *Session) Tick(ctx context.Context) (world.Diff, error) {
	defer profiling.Track("game.Tick")()
	if s.Paused {
		return world.Diff{}, nil
	}

	var dirs input.Directions
	if s.input != nil {
		dirs = s.input.Directions()
	}
	s.Player.Tick(dirs, s.Field)

	diff, err := s.Streamer.Update(ctx, s.Player.Position)
	if err != nil {
		return diff, err
	}
	if !diff.Empty() {
		s.logger.Printf("entered chunk (%d, %d): +%d -%d chunks", diff.Center.X, diff.Center.Z, len(diff.Created), len(diff.Removed))
	}
	s.notifyPlayer()
	return diff, nil
}

func (s *Session) notifyPlayer() {
	if s.observer != nil {
		s.observer.OnPlayerStateChanged(s.Player.Snapshot())
	}
}

// AdjustRenderDistance changes the streaming radius by delta. The new radius
// applies on the next Tick.
func (s *Session) AdjustRenderDistance(delta int) int {
	d := config.AdjustRenderDistance(delta)
	s.Streamer.SetRenderDistance(d)
	s.logger.Printf("render distance %d", d)
	return d
}

// Close releases every streamed chunk.
func (s *Session) Close() {
	s.Streamer.Close()
}
