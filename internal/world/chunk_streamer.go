package world

import (
	"context"
	"flyover/internal/profiling"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// MaxRenderDistance caps the streaming radius, in chunks.
const MaxRenderDistance = 32

// ChunkSink is the rendering boundary. It turns records into drawable geometry
// and releases it again. Calls arrive on the goroutine that called Update.
type ChunkSink interface {
	Materialize(rec *ChunkRecord)
	Dispose(key ChunkKey)
}

// StreamerConfig sizes the streamed grid.
type StreamerConfig struct {
	ChunkSize      float64
	RenderDistance int
	Resolution     int
	Workers        int
}

// DefaultStreamerConfig returns the reference streaming parameters.
func DefaultStreamerConfig() StreamerConfig {
	return StreamerConfig{
		ChunkSize:      DefaultChunkSize,
		RenderDistance: DefaultRenderDistance,
		Resolution:     DefaultResolution,
		Workers:        runtime.NumCPU(),
	}
}

// Diff lists what a single Update changed.
type Diff struct {
	Center  ChunkKey
	Created []ChunkKey
	Removed []ChunkKey
}

// Empty reports whether the update changed nothing.
func (d Diff) Empty() bool {
	return len(d.Created) == 0 && len(d.Removed) == 0
}

// ChunkStreamer keeps exactly the chunks within the render distance of the
// viewer materialized. Load and evict share one radius.
type ChunkStreamer struct {
	mu     sync.Mutex // serializes Update and Close
	center ChunkKey
	primed bool

	radiusMu sync.RWMutex
	radius   int

	chunkSize  float64
	resolution int
	workers    int

	// Dependencies
	store *ChunkStore
	field *HeightField
	sink  ChunkSink
}

// NewChunkStreamer creates a streamer over field. sink may be nil for
// headless use. Zero config values fall back to the defaults.
func NewChunkStreamer(field *HeightField, cfg StreamerConfig, sink ChunkSink) *ChunkStreamer {
	def := DefaultStreamerConfig()
	if !(cfg.ChunkSize > 0) {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.Resolution <= 0 {
		cfg.Resolution = def.Resolution
	}
	if cfg.Workers <= 0 {
		cfg.Workers = max(def.Workers, 1)
	}
	return &ChunkStreamer{
		radius:     clampRadius(cfg.RenderDistance),
		chunkSize:  cfg.ChunkSize,
		resolution: cfg.Resolution,
		workers:    cfg.Workers,
		store:      NewChunkStore(),
		field:      field,
		sink:       sink,
	}
}

func clampRadius(r int) int {
	return min(max(r, 0), MaxRenderDistance)
}

// RenderDistance returns the current streaming radius in chunks.
func (cs *ChunkStreamer) RenderDistance() int {
	cs.radiusMu.RLock()
	defer cs.radiusMu.RUnlock()
	return cs.radius
}

// SetRenderDistance changes the radius; it applies on the next Update.
func (cs *ChunkStreamer) SetRenderDistance(r int) {
	cs.radiusMu.Lock()
	cs.radius = clampRadius(r)
	cs.radiusMu.Unlock()
}

// ChunkSize returns the world size of one chunk side.
func (cs *ChunkStreamer) ChunkSize() float64 {
	return cs.chunkSize
}

// Field returns the height field chunks are sampled from.
func (cs *ChunkStreamer) Field() *HeightField {
	return cs.field
}

// Active returns the keys of all materialized chunks, sorted.
func (cs *ChunkStreamer) Active() []ChunkKey {
	return cs.store.Keys()
}

// Chunk returns the active record for key, or nil.
func (cs *ChunkStreamer) Chunk(key ChunkKey) *ChunkRecord {
	return cs.store.Get(key)
}

// Center returns the chunk the last successful Update was centred on.
func (cs *ChunkStreamer) Center() (ChunkKey, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.center, cs.primed
}

// Update brings the active set in line with pos. Missing chunks are generated
// in parallel, far chunks are evicted, and the sink is notified in key order.
// A non-finite pos, or one so far out that grid indices lose precision,
// returns an *InvalidPositionError and leaves state untouched, as does a
// cancelled ctx.
func (cs *ChunkStreamer) Update(ctx context.Context, pos mgl64.Vec3) (Diff, error) {
	defer profiling.Track("world.StreamerUpdate")()
	if err := CheckGridRange(pos, cs.chunkSize, cs.resolution); err != nil {
		return Diff{}, err
	}
	if err := ctx.Err(); err != nil {
		return Diff{}, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	radius := cs.RenderDistance()
	center := ChunkOf(pos.X(), pos.Z(), cs.chunkSize)

	missing := cs.missingAround(center, radius)
	recs, err := cs.generate(ctx, missing)
	if err != nil {
		return Diff{}, err
	}

	diff := Diff{Center: center}
	created := recs[:0]
	for _, rec := range recs {
		if cs.store.Add(rec) {
			created = append(created, rec)
			diff.Created = append(diff.Created, rec.Key)
		}
	}
	diff.Removed = cs.store.EvictOutside(center, radius)
	cs.center = center
	cs.primed = true

	if cs.sink != nil {
		for _, rec := range created {
			cs.sink.Materialize(rec)
		}
		for _, key := range diff.Removed {
			cs.sink.Dispose(key)
		}
	}
	return diff, nil
}

// missingAround lists keys within radius of center that are not stored yet,
// sorted by X then Z.
func (cs *ChunkStreamer) missingAround(center ChunkKey, radius int) []ChunkKey {
	var missing []ChunkKey
	for x := center.X - radius; x <= center.X+radius; x++ {
		for z := center.Z - radius; z <= center.Z+radius; z++ {
			key := ChunkKey{X: x, Z: z}
			if !cs.store.Has(key) {
				missing = append(missing, key)
			}
		}
	}
	return missing
}

// generate samples every key on a bounded worker group. Results keep the
// order of keys.
func (cs *ChunkStreamer) generate(ctx context.Context, keys []ChunkKey) ([]*ChunkRecord, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	defer profiling.Track("world.GenerateChunks")()

	recs := make([]*ChunkRecord, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cs.workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs[i] = GenerateChunk(cs.field, key, cs.chunkSize, cs.resolution)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Close disposes every active chunk and empties the store.
func (cs *ChunkStreamer) Close() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, key := range cs.store.Keys() {
		cs.store.Remove(key)
		if cs.sink != nil {
			cs.sink.Dispose(key)
		}
	}
	cs.primed = false
}
