package engine

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/damyanp/dplife/common"
	"github.com/damyanp/dplife/engine/input"
	"github.com/damyanp/dplife/engine/particlelife"
	"github.com/damyanp/dplife/engine/profiler"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/stretchr/testify/assert"
)

// fakeWorld records the control operations the frame loop routes to it.
type fakeWorld struct {
	regenerated int
	resets      int
}

var _ particlelife.World = &fakeWorld{}

func (w *fakeWorld) Settings() *particlelife.ShaderGlobalConstants { return nil }
func (w *fakeWorld) Rules() *particlelife.Rules                    { return nil }
func (w *fakeWorld) ResetParticles()                               { w.resets++ }
func (w *fakeWorld) RegenerateRules()                              { w.regenerated++ }
func (w *fakeWorld) Update(cl *renderer.CommandList) error         { return nil }
func (w *fakeWorld) VertexBuffer() (*wgpu.Buffer, uint32)          { return nil, 0 }
func (w *fakeWorld) WorkgroupCount() uint32                        { return 0 }
func (w *fakeWorld) Release()                                      {}

func TestQuitIsIdempotent(t *testing.T) {
	e := &engine{quitChannel: make(chan struct{})}

	e.Quit()
	e.Quit()
	e.Quit()

	select {
	case <-e.quitChannel:
	default:
		t.Fatal("quit channel not closed")
	}
}

func TestSubmitEventNeverBlocksWindowThread(t *testing.T) {
	e := &engine{events: make(chan input.Event, 2)}

	// Overfilling the channel drops events instead of blocking.
	e.submitEvent(input.Scroll{Delta: 1})
	e.submitEvent(input.Scroll{Delta: 2})
	e.submitEvent(input.Scroll{Delta: 3})

	assert.Len(t, e.events, 2)
}

func TestDrainEventsFoldsAllPending(t *testing.T) {
	e := &engine{events: make(chan input.Event, 8)}
	e.submitEvent(input.MouseMove{Position: common.Vec2{X: 1, Y: 2}})
	e.submitEvent(input.Scroll{Delta: 1})
	e.submitEvent(input.Scroll{Delta: 2})
	e.submitEvent(input.MouseMove{Position: common.Vec2{X: 5, Y: 6}})

	state := input.NewState()
	e.drainEvents(state)

	assert.Empty(t, e.events)
	assert.Equal(t, common.Vec2{X: 5, Y: 6}, state.Pointer())
	assert.InDelta(t, 3.0, state.ConsumeWheel(), 1e-6)
}

func TestHandleActionsRoutesKeys(t *testing.T) {
	w := &fakeWorld{}
	e := &engine{world: w, profiler: profiler.NewProfiler()}
	state := input.NewState()

	state.Apply(input.KeyDown{Key: common.KeyR})
	state.Apply(input.KeyDown{Key: common.KeySpace})
	state.Apply(input.KeyDown{Key: common.KeyP})

	e.handleActions(state)
	assert.Equal(t, 1, w.regenerated)
	assert.Equal(t, 1, w.resets)
	assert.True(t, e.profilingEnabled)

	// A second pass with no new presses does nothing; presses are one-shot.
	e.handleActions(state)
	assert.Equal(t, 1, w.regenerated)
	assert.Equal(t, 1, w.resets)
	assert.True(t, e.profilingEnabled)

	state.Apply(input.KeyDown{Key: common.KeyP})
	e.handleActions(state)
	assert.False(t, e.profilingEnabled)
}
