package world

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// recordingSink collects notifications for assertions.
type recordingSink struct {
	live     map[ChunkKey]*ChunkRecord
	created  []ChunkKey
	disposed []ChunkKey
}

func newRecordingSink() *recordingSink {
	return &recordingSink{live: make(map[ChunkKey]*ChunkRecord)}
}

func (s *recordingSink) Materialize(rec *ChunkRecord) {
	s.live[rec.Key] = rec
	s.created = append(s.created, rec.Key)
}

func (s *recordingSink) Dispose(key ChunkKey) {
	delete(s.live, key)
	s.disposed = append(s.disposed, key)
}

var _ ChunkSink = (*recordingSink)(nil)

func newTestStreamer(t testing.TB, radius int, sink ChunkSink) *ChunkStreamer {
	t.Helper()
	h := mustField(t, NewValueNoise(3), DefaultOctaves)
	return NewChunkStreamer(h, StreamerConfig{ChunkSize: 100, RenderDistance: radius, Resolution: 8, Workers: 4}, sink)
}

func expectedKeys(center ChunkKey, radius int) []ChunkKey {
	var keys []ChunkKey
	for x := center.X - radius; x <= center.X+radius; x++ {
		for z := center.Z - radius; z <= center.Z+radius; z++ {
			keys = append(keys, ChunkKey{x, z})
		}
	}
	return keys
}

func TestStreamerInitialSquare(t *testing.T) {
	cs := newTestStreamer(t, 2, nil)
	diff, err := cs.Update(context.Background(), mgl64.Vec3{250, 0, 250})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diff.Center != (ChunkKey{2, 2}) {
		t.Errorf("center = %v, want (2,2)", diff.Center)
	}
	active := cs.Active()
	if len(active) != 25 {
		t.Fatalf("expected 25 active chunks, got %d", len(active))
	}
	for _, k := range active {
		if k.X < 0 || k.X > 4 || k.Z < 0 || k.Z > 4 {
			t.Errorf("chunk %v outside [0,4]x[0,4]", k)
		}
	}
	if len(diff.Created) != 25 || len(diff.Removed) != 0 {
		t.Errorf("diff created=%d removed=%d", len(diff.Created), len(diff.Removed))
	}
	rec := cs.Chunk(ChunkKey{4, 0})
	if rec == nil || rec.Origin != (mgl64.Vec3{400, 0, 0}) {
		t.Errorf("chunk (4,0) origin wrong: %+v", rec)
	}
}

func TestStreamerReplayIsNoop(t *testing.T) {
	sink := newRecordingSink()
	cs := newTestStreamer(t, 1, sink)
	ctx := context.Background()
	pos := mgl64.Vec3{10, 0, 10}
	if _, err := cs.Update(ctx, pos); err != nil {
		t.Fatal(err)
	}
	created := len(sink.created)
	diff, err := cs.Update(ctx, mgl64.Vec3{20, 5, 30})
	if err != nil {
		t.Fatal(err)
	}
	if !diff.Empty() {
		t.Errorf("update within the same chunk should be empty, got %+v", diff)
	}
	if len(sink.created) != created || len(sink.disposed) != 0 {
		t.Errorf("sink should not be notified on replay")
	}
}

// TestStreamerInvariantRandomWalk drives the streamer through walks and
// teleports and checks the active set after every call.
func TestStreamerInvariantRandomWalk(t *testing.T) {
	sink := newRecordingSink()
	cs := newTestStreamer(t, 2, sink)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(99))

	pos := mgl64.Vec3{0, 0, 0}
	for step := 0; step < 200; step++ {
		if step%25 == 24 {
			pos = mgl64.Vec3{rng.Float64()*4000 - 2000, 0, rng.Float64()*4000 - 2000}
		} else {
			pos = pos.Add(mgl64.Vec3{rng.Float64()*80 - 40, 0, rng.Float64()*80 - 40})
		}
		if _, err := cs.Update(ctx, pos); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		want := expectedKeys(ChunkOf(pos.X(), pos.Z(), 100), 2)
		if got := cs.Active(); !slices.Equal(got, want) {
			t.Fatalf("step %d at %v: active %v, want %v", step, pos, got, want)
		}
		if len(sink.live) != len(want) {
			t.Fatalf("step %d: sink holds %d chunks, want %d", step, len(sink.live), len(want))
		}
		for _, k := range want {
			if sink.live[k] == nil {
				t.Fatalf("step %d: sink missing %v", step, k)
			}
		}
	}
}

func TestStreamerStepAcrossBoundary(t *testing.T) {
	cs := newTestStreamer(t, 1, nil)
	ctx := context.Background()
	if _, err := cs.Update(ctx, mgl64.Vec3{50, 0, 50}); err != nil {
		t.Fatal(err)
	}
	diff, err := cs.Update(ctx, mgl64.Vec3{150, 0, 50})
	if err != nil {
		t.Fatal(err)
	}
	wantCreated := []ChunkKey{{2, -1}, {2, 0}, {2, 1}}
	wantRemoved := []ChunkKey{{-1, -1}, {-1, 0}, {-1, 1}}
	if !slices.Equal(diff.Created, wantCreated) {
		t.Errorf("created %v, want %v", diff.Created, wantCreated)
	}
	if !slices.Equal(diff.Removed, wantRemoved) {
		t.Errorf("removed %v, want %v", diff.Removed, wantRemoved)
	}
}

func TestStreamerRejectsUnstreamablePosition(t *testing.T) {
	cs := newTestStreamer(t, 1, nil)
	ctx := context.Background()
	if _, err := cs.Update(ctx, mgl64.Vec3{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	before := cs.Active()

	for _, p := range []mgl64.Vec3{
		{math.NaN(), 0, 0},
		{0, 0, math.Inf(1)},
		{0, math.Inf(-1), 0},
		{1e21, 0, 1e21},
		{0, 0, -1e18},
	} {
		_, err := cs.Update(ctx, p)
		var ipe *InvalidPositionError
		if !errors.As(err, &ipe) || !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("Update(%v) error = %v, want InvalidPositionError", p, err)
		}
	}
	if !slices.Equal(cs.Active(), before) {
		t.Error("active set changed after rejected update")
	}
}

func TestStreamerCancelledContext(t *testing.T) {
	cs := newTestStreamer(t, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cs.Update(ctx, mgl64.Vec3{0, 0, 0}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(cs.Active()) != 0 {
		t.Error("cancelled update should not materialize chunks")
	}
	if _, primed := cs.Center(); primed {
		t.Error("cancelled update should not set a center")
	}
}

func TestStreamerRenderDistanceChange(t *testing.T) {
	cs := newTestStreamer(t, 3, nil)
	ctx := context.Background()
	if _, err := cs.Update(ctx, mgl64.Vec3{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if n := len(cs.Active()); n != 49 {
		t.Fatalf("expected 49 chunks, got %d", n)
	}
	cs.SetRenderDistance(1)
	diff, err := cs.Update(ctx, mgl64.Vec3{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(diff.Removed) != 40 || len(cs.Active()) != 9 {
		t.Errorf("shrinking radius: removed %d, active %d", len(diff.Removed), len(cs.Active()))
	}

	cs.SetRenderDistance(-5)
	if cs.RenderDistance() != 0 {
		t.Errorf("negative radius should clamp to 0, got %d", cs.RenderDistance())
	}
	cs.SetRenderDistance(1000)
	if cs.RenderDistance() != MaxRenderDistance {
		t.Errorf("radius should clamp to %d, got %d", MaxRenderDistance, cs.RenderDistance())
	}
}

func TestStreamerCloseDisposesEverything(t *testing.T) {
	sink := newRecordingSink()
	cs := newTestStreamer(t, 1, sink)
	if _, err := cs.Update(context.Background(), mgl64.Vec3{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	cs.Close()
	if len(sink.live) != 0 || len(cs.Active()) != 0 {
		t.Errorf("Close left %d sink chunks and %d active", len(sink.live), len(cs.Active()))
	}
}

func TestStreamerMatchesSequentialGeneration(t *testing.T) {
	cs := newTestStreamer(t, 1, nil)
	if _, err := cs.Update(context.Background(), mgl64.Vec3{-120, 0, 330}); err != nil {
		t.Fatal(err)
	}
	for _, k := range cs.Active() {
		want := GenerateChunk(cs.Field(), k, 100, 8)
		got := cs.Chunk(k)
		if !slices.Equal(got.Samples, want.Samples) {
			t.Fatalf("chunk %v differs from sequential generation", k)
		}
	}
}

func BenchmarkGenerateChunk(b *testing.B) {
	h := mustField(b, NewSimplexNoise(1), DefaultOctaves)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GenerateChunk(h, ChunkKey{i % 16, i / 16}, DefaultChunkSize, DefaultResolution)
	}
}

func BenchmarkElevation(b *testing.B) {
	h := mustField(b, NewSimplexNoise(1), DefaultOctaves)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Elevation(float64(i%1024), float64((i*31)%1024))
	}
}
