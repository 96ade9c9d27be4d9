package input

import (
	"testing"

	"github.com/damyanp/dplife/common"
	"github.com/stretchr/testify/assert"
)

func TestStateTracksPointerAndMiddleButton(t *testing.T) {
	s := NewState()

	assert.False(t, s.MiddleDown())

	s.Apply(MouseMove{Position: common.Vec2{X: 10, Y: 20}})
	assert.Equal(t, common.Vec2{X: 10, Y: 20}, s.Pointer())

	s.Apply(MiddleMouseDown{Position: common.Vec2{X: 11, Y: 21}})
	assert.True(t, s.MiddleDown())
	assert.Equal(t, common.Vec2{X: 11, Y: 21}, s.Pointer())

	s.Apply(MiddleMouseUp{Position: common.Vec2{X: 12, Y: 22}})
	assert.False(t, s.MiddleDown())
	assert.Equal(t, common.Vec2{X: 12, Y: 22}, s.Pointer())
}

func TestStateAccumulatesWheelUntilConsumed(t *testing.T) {
	s := NewState()

	s.Apply(Scroll{Delta: 1})
	s.Apply(Scroll{Delta: 2})
	s.Apply(Scroll{Delta: -0.5})

	assert.InDelta(t, 2.5, s.ConsumeWheel(), 1e-6)
	assert.Zero(t, s.ConsumeWheel())
}

func TestStatePressesAreEdgeTriggered(t *testing.T) {
	s := NewState()

	assert.False(t, s.ConsumePress(common.KeyR))

	s.Apply(KeyDown{Key: common.KeyR})
	s.Apply(KeyDown{Key: common.KeyR})
	assert.True(t, s.ConsumePress(common.KeyR))
	assert.False(t, s.ConsumePress(common.KeyR))

	// A release does not register as a press.
	s.Apply(KeyUp{Key: common.KeySpace})
	assert.False(t, s.ConsumePress(common.KeySpace))
}
