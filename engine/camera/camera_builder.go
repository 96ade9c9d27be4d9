package camera

// CameraBuilderOption is a functional option for configuring a camera.
type CameraBuilderOption func(*camera)

// WithMinZoom sets the lower bound on the log2 zoom level. Wheel zoom-out
// stops at this value.
//
// Parameters:
//   - minZoom: the minimum log2 zoom level
//
// Returns:
//   - CameraBuilderOption: the option function
func WithMinZoom(minZoom float32) CameraBuilderOption {
	return func(c *camera) {
		c.minZoom = minZoom
	}
}

// WithWheelSensitivity sets how far one wheel notch moves the log2 zoom
// level.
//
// Parameters:
//   - sensitivity: the zoom delta per wheel unit
//
// Returns:
//   - CameraBuilderOption: the option function
func WithWheelSensitivity(sensitivity float32) CameraBuilderOption {
	return func(c *camera) {
		c.wheelSensitivity = sensitivity
	}
}
