package spin

import (
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// DragTracker converts a stream of pointer positions into a drag velocity in pixels per
// second, the way a pan gesture recognizer reports it.
type DragTracker struct {
	mu    sync.Mutex
	clock Clock

	active   bool
	lastX    float32
	lastY    float32
	lastTime time.Duration
}

// NewDragTracker creates a DragTracker. A nil clock selects the high-resolution monotonic clock.
//
// Parameters:
//   - clock: the clock used to time samples
//
// Returns:
//   - *DragTracker: the tracker
func NewDragTracker(clock Clock) *DragTracker {
	if clock == nil {
		clock = hrtime.Now
	}
	return &DragTracker{clock: clock}
}

// Begin starts a drag at the given position.
func (d *DragTracker) Begin(x, y float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = true
	d.lastX, d.lastY = x, y
	d.lastTime = d.clock()
}

// Move records a new position and returns the velocity since the previous sample.
// ok is false when no drag is active or no time has passed between samples.
func (d *DragTracker) Move(x, y float32) (vx, vy float32, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return 0, 0, false
	}

	now := d.clock()
	elapsed := float32((now - d.lastTime).Seconds())
	if elapsed <= 0 {
		return 0, 0, false
	}

	vx = (x - d.lastX) / elapsed
	vy = (y - d.lastY) / elapsed
	d.lastX, d.lastY = x, y
	d.lastTime = now
	return vx, vy, true
}

// End finishes the current drag.
func (d *DragTracker) End() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = false
}

// Active reports whether a drag is in progress.
func (d *DragTracker) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
