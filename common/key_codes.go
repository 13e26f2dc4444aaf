package common

// Key codes delivered to window key-down callbacks. Printable keys use their ASCII value,
// matching GLFW.
const (
	KeySpace = 32
	KeyQ     = 81
	KeyR     = 82
	KeyEsc   = 256
)
