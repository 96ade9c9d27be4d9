package camera

import (
	"github.com/damyanp/dplife/common"
)

// Viewport describes the window region the camera projects into, in pixels.
type Viewport struct {
	TopLeftX, TopLeftY float32
	Width, Height      float32
}

// PointerState is a snapshot of the mouse state driving the camera: position
// in window coordinates, whether the middle button is held, and the wheel
// movement since the last update.
type PointerState struct {
	Position   common.Vec2
	MiddleDown bool
	Wheel      float32
}

// moveOperation tracks an in-progress middle-drag pan.
type moveOperation struct {
	mouseStart common.Vec2
	posStart   common.Vec2
}

// camera is the implementation of the Camera interface.
type camera struct {
	viewport Viewport
	pos      common.Vec2

	// zoom is the log2 of scale, so wheel steps feel uniform at any
	// magnification.
	zoom  float32
	scale float32

	minZoom          float32
	wheelSensitivity float32

	move *moveOperation
}

// Camera is a 2D pan/zoom camera over the simulation world. Panning follows a
// middle-button drag; zooming is logarithmic around the cursor, keeping the
// world point under the pointer fixed across a zoom step. Matrix produces the
// world-to-clip transform consumed by the points renderer.
type Camera interface {
	// Update advances the camera from a pointer snapshot: continues or starts
	// a middle-drag pan and applies wheel zoom around the cursor.
	//
	// Parameters:
	//   - pointer: the current pointer state
	Update(pointer PointerState)

	// Matrix returns the world-to-clip transform as a 4×4 column-major matrix.
	//
	// Returns:
	//   - [16]float32: the transform
	Matrix() [16]float32

	// WindowToView converts window pixel coordinates to view space, where the
	// viewport center is the origin and both axes span [-1, 1] with Y up.
	//
	// Parameters:
	//   - windowPos: the position in window coordinates (Y down)
	//
	// Returns:
	//   - common.Vec2: the position in view space
	WindowToView(windowPos common.Vec2) common.Vec2

	// ViewToWorld converts a view-space position to world coordinates by
	// inverting the camera transform.
	//
	// Parameters:
	//   - viewPos: the position in view space
	//
	// Returns:
	//   - common.Vec2: the position in world coordinates
	ViewToWorld(viewPos common.Vec2) common.Vec2

	// Position returns the camera's world-space translation.
	Position() common.Vec2

	// Zoom returns the camera's current log2 zoom level.
	Zoom() float32
}

var _ Camera = &camera{}

// NewCamera creates a camera framing the full viewport: the world region the
// viewport covers is centered and fit to the clip-space X range.
//
// Parameters:
//   - viewport: the window region to project into
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the camera
func NewCamera(viewport Viewport, options ...CameraBuilderOption) Camera {
	scale := 1.0 / (viewport.Width / 2.0)

	c := &camera{
		viewport: viewport,
		pos: common.Vec2{
			X: -viewport.Width/2.0 - viewport.TopLeftX,
			Y: -viewport.Height/2.0 - viewport.TopLeftY,
		},
		scale:            scale,
		zoom:             common.Log2(scale),
		minZoom:          -11.0,
		wheelSensitivity: 0.1,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *camera) Update(pointer PointerState) {
	mousePos := c.WindowToView(pointer.Position)

	if pointer.MiddleDown {
		if c.move != nil {
			delta := mousePos.Sub(c.move.mouseStart)
			c.pos = c.move.posStart.Add(delta.Scale(1.0 / c.scale))
		} else {
			c.move = &moveOperation{
				mouseStart: mousePos,
				posStart:   c.pos,
			}
		}
	} else {
		c.move = nil
	}

	worldMousePos := c.ViewToWorld(mousePos)

	if pointer.Wheel != 0 {
		c.zoom += pointer.Wheel * c.wheelSensitivity
		if c.zoom < c.minZoom {
			c.zoom = c.minZoom
		}
		c.scale = common.Exp2(c.zoom)

		// Shift so the world point under the cursor stays put across the
		// zoom step.
		newWorldMousePos := c.ViewToWorld(mousePos)
		c.pos = c.pos.Add(newWorldMousePos.Sub(worldMousePos))
	}
}

func (c *camera) Matrix() [16]float32 {
	var translate, scale, out [16]float32
	common.Translation2D(translate[:], c.pos)
	common.ScalingUniform(scale[:], c.scale)
	common.Mul4(out[:], scale[:], translate[:])
	return out
}

func (c *camera) WindowToView(windowPos common.Vec2) common.Vec2 {
	// Flip Y so view space is Y-up like the world.
	flipped := common.Vec2{
		X: windowPos.X,
		Y: c.viewport.Height - windowPos.Y,
	}

	center := common.Vec2{
		X: c.viewport.TopLeftX + c.viewport.Width/2.0,
		Y: c.viewport.TopLeftY + c.viewport.Height/2.0,
	}

	centered := flipped.Sub(center)
	return centered.Div(common.Vec2{
		X: c.viewport.Width / 2.0,
		Y: c.viewport.Height / 2.0,
	})
}

func (c *camera) ViewToWorld(viewPos common.Vec2) common.Vec2 {
	m := c.Matrix()
	var inv [16]float32
	if !common.Invert4(inv[:], m[:]) {
		return viewPos
	}
	return common.TransformPoint2D(inv[:], viewPos)
}

func (c *camera) Position() common.Vec2 {
	return c.pos
}

func (c *camera) Zoom() float32 {
	return c.zoom
}
