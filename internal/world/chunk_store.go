package world

import (
	"flyover/internal/profiling"
	"slices"
	"sync"
)

// ChunkStore holds the active chunk records keyed by grid cell.
type ChunkStore struct {
	chunks   map[ChunkKey]*ChunkRecord
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkKey]*ChunkRecord),
	}
}

// Has reports whether a chunk is stored for key.
func (cs *ChunkStore) Has(key ChunkKey) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[key]
	cs.mu.RUnlock()
	return ok
}

// Get returns the chunk stored for key, or nil.
func (cs *ChunkStore) Get(key ChunkKey) *ChunkRecord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[key]
}

// Add stores a pre-generated chunk. The first record for a key wins;
// Add reports whether rec was stored.
func (cs *ChunkStore) Add(rec *ChunkRecord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[rec.Key]; ok {
		return false
	}
	cs.chunks[rec.Key] = rec
	cs.modCount++
	return true
}

// Remove deletes the chunk for key and reports whether it was present.
func (cs *ChunkStore) Remove(key ChunkKey) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[key]; !ok {
		return false
	}
	delete(cs.chunks, key)
	cs.modCount++
	return true
}

// Len returns the number of stored chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Keys returns all stored keys sorted by X then Z.
func (cs *ChunkStore) Keys() []ChunkKey {
	cs.mu.RLock()
	keys := make([]ChunkKey, 0, len(cs.chunks))
	for k := range cs.chunks {
		keys = append(keys, k)
	}
	cs.mu.RUnlock()
	sortKeys(keys)
	return keys
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictOutside removes every chunk whose Chebyshev distance from center
// exceeds radius. Returns the removed keys, sorted.
func (cs *ChunkStore) EvictOutside(center ChunkKey, radius int) []ChunkKey {
	defer profiling.Track("world.EvictOutside")()
	var removed []ChunkKey
	cs.mu.Lock()
	for key := range cs.chunks {
		if Chebyshev(key, center) > radius {
			delete(cs.chunks, key)
			cs.modCount++
			removed = append(removed, key)
		}
	}
	cs.mu.Unlock()
	sortKeys(removed)
	return removed
}

func sortKeys(keys []ChunkKey) {
	slices.SortFunc(keys, func(a, b ChunkKey) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}
