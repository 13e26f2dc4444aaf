package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow sets the window whose events drive the loop.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the surface that is resized with the window and queried for the
// drawable size every frame. A renderer.Renderer satisfies Surface.
//
// Parameters:
//   - s: the render surface
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(s Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithDelegate sets the delegate that draws each frame.
//
// Parameters:
//   - d: the frame delegate
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDelegate(d FrameDelegate) EngineBuilderOption {
	return func(e *engine) {
		e.delegate = d
	}
}

// WithProfiler enables frame statistics using the provided profiler.
//
// Parameters:
//   - p: the profiler to tick once per frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithFrameLimit caps the loop at fps frames per second. Values <= 0 leave it uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetFrameLimit(fps)
	}
}

// WithClock replaces the monotonic frame clock and the sleep function used by the frame
// limiter.
func WithClock(clock func() time.Duration, sleep func(time.Duration)) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
		if sleep != nil {
			e.sleep = sleep
		}
	}
}
