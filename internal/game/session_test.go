package game

import (
	"bytes"
	"context"
	"errors"
	"flyover/internal/config"
	"flyover/internal/input"
	"flyover/internal/player"
	"flyover/internal/world"
	"log"
	"strings"
	"testing"
)

type fakeInput struct {
	dirs input.Directions
}

func (f *fakeInput) Directions() input.Directions { return f.dirs }

type recordingObserver struct {
	live    map[world.ChunkKey]bool
	states  []player.State
	created int
	removed int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{live: make(map[world.ChunkKey]bool)}
}

func (o *recordingObserver) OnChunkCreated(rec *world.ChunkRecord) {
	o.live[rec.Key] = true
	o.created++
}

func (o *recordingObserver) OnChunkRemoved(key world.ChunkKey) {
	delete(o.live, key)
	o.removed++
}

func (o *recordingObserver) OnPlayerStateChanged(st player.State) {
	o.states = append(o.states, st)
}

var _ Observer = (*recordingObserver)(nil)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Terrain.Seed = 42
	cfg.Streaming.Resolution = 4
	cfg.Streaming.Workers = 2
	return cfg
}

func TestSessionStartStreamsSpawnArea(t *testing.T) {
	obs := newRecordingObserver()
	var buf bytes.Buffer
	s, err := NewSession(testConfig(), &fakeInput{}, obs, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(obs.live) != 25 {
		t.Errorf("expected 25 chunks around spawn, got %d", len(obs.live))
	}
	if len(obs.states) != 1 {
		t.Fatalf("expected one player notification, got %d", len(obs.states))
	}
	want := s.Field.Elevation(0, 0) + 1
	if y := obs.states[0].Position.Y(); y != want {
		t.Errorf("spawn y = %v, want %v", y, want)
	}
	if !strings.Contains(buf.String(), "terrain seed 42") {
		t.Errorf("log should mention the seed, got %q", buf.String())
	}
}

func TestSessionTickMovesAndStreams(t *testing.T) {
	cfg := testConfig()
	cfg.Player.Speed = 200 // cross a chunk boundary quickly
	cfg.Player.Friction = 0.5
	in := &fakeInput{dirs: input.Of(input.Right)}
	obs := newRecordingObserver()
	s, err := NewSession(cfg, in, obs, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	var crossed bool
	for i := 0; i < 40; i++ {
		diff, err := s.Tick(ctx)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if len(diff.Created) > 0 {
			crossed = true
		}
		center := world.ChunkOf(s.Player.Position.X(), s.Player.Position.Z(), 100)
		for _, k := range s.Streamer.Active() {
			if world.Chebyshev(k, center) > 2 {
				t.Fatalf("tick %d: chunk %v outside radius of %v", i, k, center)
			}
		}
		if len(obs.live) != 25 {
			t.Fatalf("tick %d: observer holds %d chunks", i, len(obs.live))
		}
	}
	if !crossed {
		t.Error("vehicle never crossed into a new chunk")
	}
	if obs.removed == 0 {
		t.Error("expected chunks to be removed behind the vehicle")
	}
	if s.Player.Position.X() <= 100 {
		t.Errorf("vehicle should have moved east, x=%v", s.Player.Position.X())
	}
}

func TestSessionPausedTickIsNoop(t *testing.T) {
	in := &fakeInput{dirs: input.Of(input.Forward)}
	s, err := NewSession(testConfig(), in, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Paused = true
	before := s.Player.Snapshot()
	if _, err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Player.Snapshot() != before || s.Player.Ticks != 0 {
		t.Error("paused tick should not move the player")
	}
}

func TestSessionRenderDistance(t *testing.T) {
	s, err := NewSession(testConfig(), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if d := s.AdjustRenderDistance(1); d != 3 {
		t.Fatalf("AdjustRenderDistance(1) = %d, want 3", d)
	}
	if _, err := s.Tick(ctx); err != nil {
		t.Fatal(err)
	}
	if n := len(s.Streamer.Active()); n != 49 {
		t.Errorf("expected 49 chunks after growing radius, got %d", n)
	}
	s.Close()
	if n := len(s.Streamer.Active()); n != 0 {
		t.Errorf("Close left %d chunks", n)
	}
}

func TestNewSessionErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Terrain.Noise = "worley"
	if _, err := NewSession(cfg, nil, nil, nil); !errors.Is(err, world.ErrUnknownNoise) {
		t.Errorf("expected ErrUnknownNoise, got %v", err)
	}
	cfg = testConfig()
	cfg.Streaming.ChunkSize = -1
	if _, err := NewSession(cfg, nil, nil, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuildHeightFieldPicksSeed(t *testing.T) {
	tc := config.Default().Terrain
	tc.Seed = 0
	_, seed, err := BuildHeightField(tc)
	if err != nil {
		t.Fatal(err)
	}
	if seed == 0 {
		t.Error("zero seed should be replaced")
	}

	tc.Seed = 11
	a, _, _ := BuildHeightField(tc)
	b, _, _ := BuildHeightField(tc)
	if a.Elevation(12.5, -80) != b.Elevation(12.5, -80) {
		t.Error("same seed should give the same terrain")
	}
}
