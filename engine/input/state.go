package input

import "github.com/damyanp/dplife/common"

// State folds an event stream into the per-frame input the simulation loop
// consumes: the latest pointer position, the middle-button state, wheel motion
// accumulated since the last poll, and key presses not yet acted on.
type State struct {
	pointer    common.Vec2
	middleDown bool
	wheel      float32
	pressed    map[uint32]bool
}

// NewState creates an empty input State.
//
// Returns:
//   - *State: the state
func NewState() *State {
	return &State{
		pressed: make(map[uint32]bool),
	}
}

// Apply folds one event into the state.
//
// Parameters:
//   - e: the event to fold in
func (s *State) Apply(e Event) {
	switch ev := e.(type) {
	case MouseMove:
		s.pointer = ev.Position
	case MiddleMouseDown:
		s.pointer = ev.Position
		s.middleDown = true
	case MiddleMouseUp:
		s.pointer = ev.Position
		s.middleDown = false
	case Scroll:
		s.wheel += ev.Delta
	case KeyDown:
		s.pressed[ev.Key] = true
	case KeyUp:
		// Releases carry no folded state; presses are edge-triggered.
	}
}

// Pointer returns the last seen cursor position in window coordinates.
func (s *State) Pointer() common.Vec2 {
	return s.pointer
}

// MiddleDown returns whether the middle mouse button is currently held.
func (s *State) MiddleDown() bool {
	return s.middleDown
}

// ConsumeWheel returns the wheel motion accumulated since the last call and
// resets the accumulator, so multiple wheel events within one frame act as a
// single combined step.
//
// Returns:
//   - float32: the accumulated wheel delta
func (s *State) ConsumeWheel() float32 {
	w := s.wheel
	s.wheel = 0
	return w
}

// ConsumePress reports whether the key has been pressed since the last call
// for that key, clearing the press so each keystroke triggers exactly once.
//
// Parameters:
//   - key: the key code to check
//
// Returns:
//   - bool: true if a pending press was consumed
func (s *State) ConsumePress(key uint32) bool {
	if s.pressed[key] {
		delete(s.pressed, key)
		return true
	}
	return false
}
