package config

import "sync"

const (
	MinRenderDistance = 1
	MaxRenderDistance = 32
)

// RenderSettings holds render configuration changed at runtime by key bindings
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunks
	fpsLimit       int // 0 disables the limiter
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 2, // default value
	fpsLimit:       120,
}

// GetFPSLimit returns the frame cap; 0 means uncapped.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap; negative values disable it.
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fpsLimit = max(limit, 0)
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks and returns the
// clamped value that was stored.
func SetRenderDistance(distance int) int {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	distance = min(max(distance, MinRenderDistance), MaxRenderDistance)
	globalRenderSettings.renderDistance = distance
	return distance
}

// AdjustRenderDistance shifts the render distance by delta and returns the
// new clamped value.
func AdjustRenderDistance(delta int) int {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	d := min(max(globalRenderSettings.renderDistance+delta, MinRenderDistance), MaxRenderDistance)
	globalRenderSettings.renderDistance = d
	return d
}
