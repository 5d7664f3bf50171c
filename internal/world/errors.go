package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidPosition is matched by InvalidPositionError via errors.Is.
var ErrInvalidPosition = errors.New("invalid position")

// MaxGridIndex bounds the global vertex index a streamed position may reach.
// Past 2^53 grid coordinates are no longer exact in float64.
const MaxGridIndex = 1 << 53

// InvalidPositionError reports a position the core cannot stream around.
type InvalidPositionError struct {
	Pos    mgl64.Vec3
	Reason string
}

func (e *InvalidPositionError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "coordinates must be finite"
	}
	return fmt.Sprintf("invalid position (%v, %v, %v): %s", e.Pos[0], e.Pos[1], e.Pos[2], reason)
}

func (e *InvalidPositionError) Unwrap() error {
	return ErrInvalidPosition
}

// CheckPosition returns an *InvalidPositionError if any coordinate is NaN or Inf.
func CheckPosition(pos mgl64.Vec3) error {
	for _, v := range pos {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidPositionError{Pos: pos}
		}
	}
	return nil
}

// CheckGridRange extends CheckPosition: every chunk within MaxRenderDistance
// of pos must have vertex indices below MaxGridIndex.
func CheckGridRange(pos mgl64.Vec3, chunkSize float64, resolution int) error {
	if err := CheckPosition(pos); err != nil {
		return err
	}
	limit := float64(MaxGridIndex) / float64(max(resolution, 1))
	for _, v := range [2]float64{pos.X(), pos.Z()} {
		if math.Abs(v/chunkSize)+MaxRenderDistance+1 > limit {
			return &InvalidPositionError{Pos: pos, Reason: "outside the streamable grid"}
		}
	}
	return nil
}
