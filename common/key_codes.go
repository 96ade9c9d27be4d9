package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR     = 82  // R key (ASCII) — regenerate interaction rules
	KeySpace = 32  // Spacebar (ASCII) — reset particles
	KeyP     = 80  // P key (ASCII) — toggle profiler output
	KeyEsc   = 256 // Escape key (GLFW) — quit
)
