package camera

import (
	"testing"

	"github.com/damyanp/dplife/common"
	"github.com/stretchr/testify/assert"
)

func newTestCamera(options ...CameraBuilderOption) Camera {
	return NewCamera(Viewport{Width: 1024, Height: 768}, options...)
}

func TestInitialCameraFramesViewport(t *testing.T) {
	c := newTestCamera()

	// The world center of the viewport sits at the view origin.
	center := c.ViewToWorld(common.Vec2{X: 0, Y: 0})
	assert.InDelta(t, 512.0, center.X, 1e-3)
	assert.InDelta(t, 384.0, center.Y, 1e-3)

	// The full viewport width spans clip-space X exactly.
	left := c.ViewToWorld(common.Vec2{X: -1, Y: 0})
	right := c.ViewToWorld(common.Vec2{X: 1, Y: 0})
	assert.InDelta(t, 0.0, left.X, 1e-3)
	assert.InDelta(t, 1024.0, right.X, 1e-3)
}

func TestWindowToViewFlipsYAndCenters(t *testing.T) {
	c := newTestCamera()

	center := c.WindowToView(common.Vec2{X: 512, Y: 384})
	assert.InDelta(t, 0.0, center.X, 1e-6)
	assert.InDelta(t, 0.0, center.Y, 1e-6)

	// Window origin is top-left; view space is Y-up, so it maps to (-1, +1).
	topLeft := c.WindowToView(common.Vec2{X: 0, Y: 0})
	assert.InDelta(t, -1.0, topLeft.X, 1e-6)
	assert.InDelta(t, 1.0, topLeft.Y, 1e-6)

	bottomRight := c.WindowToView(common.Vec2{X: 1024, Y: 768})
	assert.InDelta(t, 1.0, bottomRight.X, 1e-6)
	assert.InDelta(t, -1.0, bottomRight.Y, 1e-6)
}

func TestWindowViewWorldRoundTrip(t *testing.T) {
	c := newTestCamera()

	windowPos := common.Vec2{X: 100, Y: 200}
	world := c.ViewToWorld(c.WindowToView(windowPos))

	// Transform the world point back through the camera matrix and compare
	// against the view position.
	m := c.Matrix()
	view := common.TransformPoint2D(m[:], world)
	expected := c.WindowToView(windowPos)
	assert.InDelta(t, expected.X, view.X, 1e-4)
	assert.InDelta(t, expected.Y, view.Y, 1e-4)
}

func TestZoomKeepsWorldPointUnderCursor(t *testing.T) {
	c := newTestCamera()
	pointer := common.Vec2{X: 100, Y: 200}

	before := c.ViewToWorld(c.WindowToView(pointer))

	c.Update(PointerState{Position: pointer, Wheel: 3})
	after := c.ViewToWorld(c.WindowToView(pointer))

	assert.InDelta(t, before.X, after.X, 1e-2)
	assert.InDelta(t, before.Y, after.Y, 1e-2)

	// Several more steps in both directions stay anchored too.
	for _, wheel := range []float32{1, 1, -2, 5, -3} {
		c.Update(PointerState{Position: pointer, Wheel: wheel})
		after = c.ViewToWorld(c.WindowToView(pointer))
		assert.InDelta(t, before.X, after.X, 1e-2)
		assert.InDelta(t, before.Y, after.Y, 1e-2)
	}
}

func TestWheelZoomIsLogarithmic(t *testing.T) {
	c := newTestCamera()
	start := c.Zoom()

	c.Update(PointerState{Position: common.Vec2{X: 512, Y: 384}, Wheel: 1})
	assert.InDelta(t, start+0.1, c.Zoom(), 1e-6)

	c.Update(PointerState{Position: common.Vec2{X: 512, Y: 384}, Wheel: -1})
	assert.InDelta(t, start, c.Zoom(), 1e-6)
}

func TestZoomClampsAtMinimum(t *testing.T) {
	c := newTestCamera()

	c.Update(PointerState{Position: common.Vec2{X: 512, Y: 384}, Wheel: -10000})
	assert.Equal(t, float32(-11.0), c.Zoom())

	// The clamp is configurable.
	c = newTestCamera(WithMinZoom(-4))
	c.Update(PointerState{Position: common.Vec2{X: 512, Y: 384}, Wheel: -10000})
	assert.Equal(t, float32(-4.0), c.Zoom())
}

func TestMiddleDragPansCamera(t *testing.T) {
	c := newTestCamera()
	start := c.Position()

	// First middle-down update anchors the drag without moving anything.
	c.Update(PointerState{Position: common.Vec2{X: 400, Y: 300}, MiddleDown: true})
	assert.Equal(t, start, c.Position())

	// At the initial zoom one window pixel is one world unit, so a 64px drag
	// moves the camera 64 world units.
	c.Update(PointerState{Position: common.Vec2{X: 464, Y: 300}, MiddleDown: true})
	assert.InDelta(t, start.X+64.0, c.Position().X, 1e-2)
	assert.InDelta(t, start.Y, c.Position().Y, 1e-2)

	// Releasing the button ends the drag; further motion does not pan.
	moved := c.Position()
	c.Update(PointerState{Position: common.Vec2{X: 600, Y: 500}})
	assert.Equal(t, moved, c.Position())
}

func TestDragIsRelativeToAnchor(t *testing.T) {
	c := newTestCamera()
	start := c.Position()

	c.Update(PointerState{Position: common.Vec2{X: 100, Y: 100}, MiddleDown: true})
	c.Update(PointerState{Position: common.Vec2{X: 150, Y: 100}, MiddleDown: true})
	c.Update(PointerState{Position: common.Vec2{X: 120, Y: 100}, MiddleDown: true})

	// Net displacement follows the pointer's offset from the anchor, not the
	// sum of intermediate moves.
	assert.InDelta(t, start.X+20.0, c.Position().X, 1e-2)
}

func TestMatrixMapsWorldPositionThroughPanAndZoom(t *testing.T) {
	c := newTestCamera()

	// After zooming in, points away from the zoom anchor spread apart in
	// view space.
	p1 := common.Vec2{X: 200, Y: 384}
	p2 := common.Vec2{X: 800, Y: 384}

	m := c.Matrix()
	beforeSpan := common.TransformPoint2D(m[:], p2).X - common.TransformPoint2D(m[:], p1).X

	c.Update(PointerState{Position: common.Vec2{X: 512, Y: 384}, Wheel: 5})

	m = c.Matrix()
	afterSpan := common.TransformPoint2D(m[:], p2).X - common.TransformPoint2D(m[:], p1).X

	assert.Greater(t, afterSpan, beforeSpan)
}
