package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// DragPhase is the stage of a left-button drag reported to the drag callback.
type DragPhase int

const (
	// DragBegan is reported when the left button is pressed.
	DragBegan DragPhase = iota

	// DragMoved is reported for every cursor move while the left button is held.
	DragMoved

	// DragEnded is reported when the left button is released.
	DragEnded
)

func (p DragPhase) String() string {
	switch p {
	case DragBegan:
		return "began"
	case DragMoved:
		return "moved"
	case DragEnded:
		return "ended"
	default:
		return fmt.Sprintf("DragPhase(%d)", int(p))
	}
}

// Window is a native window providing a WebGPU surface and input events.
//
// Callbacks run on the thread calling PollEvents, which must be the thread the window was
// created on.
type Window interface {
	// SetResizeCallback sets the callback invoked when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: receives the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback invoked on key press and repeat. Escape closes the
	// window and is not forwarded.
	//
	// Parameters:
	//   - callback: receives the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetDragCallback sets the callback invoked for left-button drags.
	//
	// Parameters:
	//   - callback: receives the cursor position in screen coordinates and the drag phase
	SetDragCallback(callback func(x, y float32, phase DragPhase))

	// CursorPosition polls the current cursor position in screen coordinates.
	CursorPosition() (x, y float32)

	// SetTitle changes the window title.
	SetTitle(title string)

	// SurfaceDescriptor returns the platform surface descriptor for WebGPU surface creation.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// Close destroys the window and terminates the platform layer.
	Close() error

	// PollEvents processes pending events, invoking callbacks, and reports whether the window
	// is still running.
	PollEvents() bool

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// Initial client size requested from the platform
	width, height int

	internalWindow any

	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onDrag    func(x, y float32, phase DragPhase)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a native window, panicking if the platform window cannot be
// created.
//
// Parameters:
//   - options: variadic list of WindowBuilderOption functions
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:  "oxy lessons",
		width:  800,
		height: 600,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetDragCallback(callback func(x, y float32, phase DragPhase)) {
	w.onDrag = callback
}

func (w *engineWindow) CursorPosition() (float32, float32) {
	return platformCursorPosition(w)
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
