package input

import "github.com/damyanp/dplife/common"

// Event is an immutable input sample forwarded from the window thread to the
// simulation goroutine. Events are plain values; the sender never retains or
// mutates them after delivery, so no locking is needed on either side.
type Event interface {
	isInputEvent()
}

// KeyDown reports a key press or repeat.
type KeyDown struct {
	Key uint32
}

// KeyUp reports a key release.
type KeyUp struct {
	Key uint32
}

// MouseMove reports the cursor position in window coordinates.
type MouseMove struct {
	Position common.Vec2
}

// MiddleMouseDown reports a middle-button press at the given cursor position.
type MiddleMouseDown struct {
	Position common.Vec2
}

// MiddleMouseUp reports a middle-button release at the given cursor position.
type MiddleMouseUp struct {
	Position common.Vec2
}

// Scroll reports vertical mouse wheel motion. Positive is away from the user.
type Scroll struct {
	Delta float32
}

func (KeyDown) isInputEvent()         {}
func (KeyUp) isInputEvent()           {}
func (MouseMove) isInputEvent()       {}
func (MiddleMouseDown) isInputEvent() {}
func (MiddleMouseUp) isInputEvent()   {}
func (Scroll) isInputEvent()          {}
