package input

import (
	"slices"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical game action, not a physical key
type Action int

// Action constants using iota
const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionPause
	ActionToggleWireframe
	ActionToggleProfiling
	ActionRenderDistanceUp
	ActionRenderDistanceDown
	ActionCount // Sentinel value for array sizing
)

// Direction is one logical movement direction.
type Direction uint8

const (
	Forward Direction = 1 << iota
	Back
	Left
	Right
)

// Directions is the set of movement directions held during a tick.
type Directions uint8

// Of builds a set from individual directions.
func Of(dirs ...Direction) Directions {
	var s Directions
	for _, d := range dirs {
		s |= Directions(d)
	}
	return s
}

// Has reports whether d is in the set.
func (s Directions) Has(d Direction) bool {
	return s&Directions(d) != 0
}

// InputManager maps physical keys to logical actions. Key events arrive from
// the window callback; the tick reads a snapshot.
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Bound keys currently down
	heldKeys map[glfw.Key]bool

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed flags (reset each frame)
	justPressed [ActionCount]bool
}

// NewInputManager creates a new InputManager with default key bindings.
// Both WASD and the arrow keys steer.
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[glfw.Key][]Action),
		heldKeys:     make(map[glfw.Key]bool),
	}

	im.BindKey(glfw.KeyW, ActionMoveForward)
	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.BindKey(glfw.KeyS, ActionMoveBackward)
	im.BindKey(glfw.KeyDown, ActionMoveBackward)
	im.BindKey(glfw.KeyA, ActionMoveLeft)
	im.BindKey(glfw.KeyLeft, ActionMoveLeft)
	im.BindKey(glfw.KeyD, ActionMoveRight)
	im.BindKey(glfw.KeyRight, ActionMoveRight)
	im.BindKey(glfw.KeyEscape, ActionPause)
	im.BindKey(glfw.KeyF, ActionToggleWireframe)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyEqual, ActionRenderDistanceUp)
	im.BindKey(glfw.KeyKPAdd, ActionRenderDistanceUp)
	im.BindKey(glfw.KeyMinus, ActionRenderDistanceDown)
	im.BindKey(glfw.KeyKPSubtract, ActionRenderDistanceDown)

	return im
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// HandleKeyEvent processes a key event and updates internal state.
// An action stays active while any key bound to it is held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	actions, exists := im.keyToActions[key]
	if !exists {
		return
	}

	if action == glfw.Press || action == glfw.Repeat {
		im.heldKeys[key] = true
	} else {
		delete(im.heldKeys, key)
	}
	for _, act := range actions {
		active := im.anyHeld(act)
		if active && !im.currentState[act] {
			im.justPressed[act] = true
		}
		im.currentState[act] = active
	}
}

func (im *InputManager) anyHeld(act Action) bool {
	for key := range im.heldKeys {
		if slices.Contains(im.keyToActions[key], act) {
			return true
		}
	}
	return false
}

// SetKeyCallback installs the GLFW key callback for this input manager.
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to reset edge flags
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()
	clear(im.justPressed[:])
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// Directions returns the movement directions held right now.
func (im *InputManager) Directions() Directions {
	im.mu.RLock()
	defer im.mu.RUnlock()

	var s Directions
	if im.currentState[ActionMoveForward] {
		s |= Directions(Forward)
	}
	if im.currentState[ActionMoveBackward] {
		s |= Directions(Back)
	}
	if im.currentState[ActionMoveLeft] {
		s |= Directions(Left)
	}
	if im.currentState[ActionMoveRight] {
		s |= Directions(Right)
	}
	return s
}
