package engine

import (
	"github.com/damyanp/dplife/engine/camera"
	"github.com/damyanp/dplife/engine/input"
	"github.com/damyanp/dplife/engine/particlelife"
	"github.com/damyanp/dplife/engine/points"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/damyanp/dplife/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the
// engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose message loop the engine pumps and whose
// input events feed the frame loop.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer driving the per-frame begin/submit/present
// sequence.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithWorld sets the particle simulation updated every frame.
//
// Parameters:
//   - w: the simulation world
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorld(w particlelife.World) EngineBuilderOption {
	return func(e *engine) {
		e.world = w
	}
}

// WithPointsRenderer sets the renderer that draws the simulation's vertex
// buffer each frame.
//
// Parameters:
//   - p: the points renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPointsRenderer(p points.PointsRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.points = p
	}
}

// WithCamera sets the camera driven by mouse input and sampled for the view
// transform every frame.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithProfiling enables or disables the frame/memory profiler at startup.
// The P key toggles it at runtime either way.
//
// Parameters:
//   - enabled: if true, profiling output starts enabled
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithEventBufferSize sets the capacity of the input event channel between
// the window thread and the frame loop. Values <= 0 keep the default (64).
//
// Parameters:
//   - size: the channel capacity
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventBufferSize(size int) EngineBuilderOption {
	return func(e *engine) {
		if size <= 0 {
			return
		}
		e.events = make(chan input.Event, size)
	}
}
