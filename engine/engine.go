package engine

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/loov/hrtime"
)

// View describes the frame a delegate is asked to draw.
type View struct {
	// FrameDuration is the measured time since the previous frame, in seconds.
	FrameDuration float32
	// Width and Height are the drawable size in pixels. Either may be zero while the
	// window is minimized.
	Width  int
	Height int
}

// FrameDelegate draws one frame. DrawInView is called synchronously on the main thread once
// per loop iteration.
type FrameDelegate interface {
	DrawInView(view View)
}

// FrameDelegateFunc adapts a plain function to FrameDelegate.
type FrameDelegateFunc func(view View)

// DrawInView calls f(view).
func (f FrameDelegateFunc) DrawInView(view View) {
	f(view)
}

// Surface is the part of the renderer the engine drives directly.
type Surface interface {
	Resize(width, height int)
	DrawableSize() (int, int)
}

// engine implements the Engine interface.
type engine struct {
	window   window.Window
	surface  Surface
	delegate FrameDelegate
	profiler *profiler.Profiler

	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	clock func() time.Duration
	sleep func(time.Duration)

	frames int
}

// Engine is the main entry point for the lessons.
// It owns the frame loop and forwards window resizes to the renderer surface.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// SetDelegate replaces the frame delegate. A nil delegate leaves the loop polling events
	// without drawing.
	//
	// Parameters:
	//   - delegate: the delegate to call once per frame
	SetDelegate(delegate FrameDelegate)

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// Frames returns how many frames the loop has completed.
	//
	// Returns:
	//   - int: the completed frame count
	Frames() int

	// Run polls events and draws frames until the window closes. It must be called from the
	// main OS thread.
	Run()

	// Quit closes the window, which ends Run after the current iteration.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The resize callback of the window is wired to the surface when both are set.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, delegate, ...)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		clock: hrtime.Now,
		sleep: time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil && e.surface != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.surface.Resize(width, height)
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) SetDelegate(delegate FrameDelegate) {
	e.delegate = delegate
}

func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) Run() {
	if e.window == nil {
		return
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	last := e.clock()
	for e.window.IsRunning() {
		if !e.window.PollEvents() {
			return
		}

		start := e.clock()
		dt := start - last
		last = start

		e.drawFrame(float32(dt.Seconds()))

		if e.profiler != nil {
			e.profiler.Tick()
		}
		e.frames++

		if e.frameLimit > 0 {
			if remaining := e.frameLimit - (e.clock() - start); remaining > 0 {
				e.sleep(remaining)
			}
		}
	}
}

func (e *engine) Quit() {
	if e.window != nil && e.window.IsRunning() {
		_ = e.window.Close()
	}
}

// drawFrame hands the frame to the delegate with the current drawable size.
func (e *engine) drawFrame(dt float32) {
	if e.delegate == nil {
		return
	}
	view := View{FrameDuration: dt}
	if e.surface != nil {
		view.Width, view.Height = e.surface.DrawableSize()
	} else {
		view.Width, view.Height = e.window.Width(), e.window.Height()
	}
	e.delegate.DrawInView(view)
}
