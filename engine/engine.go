package engine

import (
	"log"
	"sync"

	"github.com/damyanp/dplife/common"
	"github.com/damyanp/dplife/engine/camera"
	"github.com/damyanp/dplife/engine/input"
	"github.com/damyanp/dplife/engine/particlelife"
	"github.com/damyanp/dplife/engine/points"
	"github.com/damyanp/dplife/engine/profiler"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/damyanp/dplife/engine/window"
)

// engine is the implementation of the Engine interface.
// Coordinates the window thread and the simulation/render goroutine.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	world    particlelife.World
	points   points.PointsRenderer
	camera   camera.Camera

	// events carries immutable input events from the window thread to the
	// frame loop. It is the only data path between the two threads besides
	// the quit channel.
	events chan input.Event

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	wg sync.WaitGroup

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Engine drives the application: it pumps the window message loop on the
// calling (main) OS thread while a dedicated goroutine runs the per-frame
// sequence of simulation update, render pass, and present. Input flows from
// the window thread to the frame loop over a buffered event channel.
type Engine interface {
	// Run starts the frame loop goroutine and blocks in the window message
	// loop until the window closes or the frame loop signals quit. All
	// goroutines have exited by the time Run returns; the caller still owns
	// teardown of the renderer, world, and window.
	Run()

	// Quit signals the frame loop to stop and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine wired to the given collaborators.
// Panics if any required collaborator is missing; there is nothing to drive
// without them.
//
// Parameters:
//   - options: functional options supplying the window, renderer, world,
//     points renderer, and camera, plus optional tuning
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		events:      make(chan input.Event, 64),
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	switch {
	case e.window == nil:
		panic("engine requires a window")
	case e.renderer == nil:
		panic("engine requires a renderer")
	case e.world == nil:
		panic("engine requires a world")
	case e.points == nil:
		panic("engine requires a points renderer")
	case e.camera == nil:
		panic("engine requires a camera")
	}

	return e
}

func (e *engine) Run() {
	e.window.SetInputCallback(e.submitEvent)

	// GLFW calls must stay on the locked main thread, so a quit signaled from
	// the frame loop closes the window here rather than from the goroutine.
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if err := e.window.Close(); err != nil {
				log.Printf("failed to close window: %v", err)
			}
		default:
		}
	})

	e.wg.Add(1)
	go e.runFrames()

	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to stop the frame loop; the window
// thread notices on its next message loop iteration and closes the window.
// Uses sync.Once so the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// submitEvent forwards an input event to the frame loop without blocking the
// window thread. If the channel is full the event is dropped; the frame loop
// folds events into a latest-state snapshot, so occasional drops only cost a
// stale pointer position for one frame.
func (e *engine) submitEvent(event input.Event) {
	select {
	case e.events <- event:
	default:
	}
}

// runFrames is the simulation/render goroutine: it drains input, updates the
// camera and world, and drives one renderer frame per iteration.
// Recovers from panics to avoid crashing the process and signals quit on
// recovery.
func (e *engine) runFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame loop recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	state := input.NewState()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		e.drainEvents(state)
		e.handleActions(state)

		e.camera.Update(camera.PointerState{
			Position:   state.Pointer(),
			MiddleDown: state.MiddleDown(),
			Wheel:      state.ConsumeWheel(),
		})

		if err := e.renderFrame(); err != nil {
			log.Printf("frame failed: %v", err)
			e.signalQuit()
			return
		}

		if e.profilingEnabled {
			e.profiler.Tick()
		}
	}
}

// drainEvents folds every queued input event into the state without blocking.
func (e *engine) drainEvents(state *input.State) {
	for {
		select {
		case event := <-e.events:
			state.Apply(event)
		default:
			return
		}
	}
}

// handleActions consumes the one-shot key presses: R regenerates the rule
// table, Space resets the particles, P toggles the profiler.
func (e *engine) handleActions(state *input.State) {
	if state.ConsumePress(common.KeyR) {
		e.world.RegenerateRules()
	}
	if state.ConsumePress(common.KeySpace) {
		e.world.ResetParticles()
	}
	if state.ConsumePress(common.KeyP) {
		e.profilingEnabled = !e.profilingEnabled
	}
}

// renderFrame runs one full frame: simulation compute and the point draw are
// recorded onto a single command list, submitted, presented, and fenced.
func (e *engine) renderFrame() error {
	if err := e.renderer.BeginFrame(); err != nil {
		// The slot is claimed even when the surface acquire fails; end the
		// frame to keep begin/end balanced, then drop the frame.
		log.Printf("failed to begin frame: %v", err)
		return e.renderer.EndFrame()
	}

	cl, err := e.renderer.AcquireCommandList()
	if err != nil {
		return err
	}

	if err := e.world.Update(cl); err != nil {
		return err
	}

	pass, err := e.renderer.BeginRenderPass(cl)
	if err != nil {
		return err
	}
	m := e.camera.Matrix()
	e.points.SetCamera(m[:])
	vertexBuffer, count := e.world.VertexBuffer()
	e.points.Render(pass, vertexBuffer, count)
	pass.End()

	if err := e.renderer.ExecuteCommandLists(cl); err != nil {
		return err
	}

	e.renderer.Present()
	return e.renderer.EndFrame()
}
