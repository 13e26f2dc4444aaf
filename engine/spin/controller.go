// Package spin turns pointer drags into a damped angular velocity and fires a one-shot
// cue when the object is spun fast enough.
package spin

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/loov/hrtime"
)

const (
	// DefaultVelocityScale converts drag velocity (pixels per second) into angular velocity.
	DefaultVelocityScale float32 = 0.01
	// DefaultDamping is the fraction of angular velocity removed on every stepped frame.
	DefaultDamping float32 = 0.05
	// DefaultCueThreshold is the angular speed above which the cue fires.
	DefaultCueThreshold float32 = 30
	// DefaultCueCooldown is the minimum time between two cues.
	DefaultCueCooldown = 3 * time.Second
)

// Cue is a one-shot effect fired when the spin speed crosses the threshold.
type Cue interface {
	Play()
}

// Clock returns a monotonic timestamp. Only differences between readings are meaningful.
type Clock func() time.Duration

type triggerState int

const (
	triggerArmed triggerState = iota
	triggerCooling
)

type controllerImpl struct {
	mu *sync.Mutex

	velocityScale float32
	damping       float32
	threshold     float32
	cooldown      time.Duration
	cue           Cue
	clock         Clock

	angleX, angleY       float32
	velocityX, velocityY float32

	state   triggerState
	lastCue time.Duration
}

// Controller integrates a damped angular velocity driven by pointer drags.
//
// The damping is applied once per stepped frame rather than per unit of time, so the decay
// rate depends on the frame rate.
type Controller interface {
	// SetDragVelocity replaces the angular velocity with the scaled drag velocity.
	//
	// Parameters:
	//   - vx, vy: drag velocity in pixels per second
	SetDragVelocity(vx, vy float32)

	// Step integrates the angle by the current velocity over dt, damps the velocity and fires
	// the cue if the resulting speed exceeds the threshold while the trigger is armed or its
	// cooldown has elapsed. Non-positive dt is a no-op.
	//
	// Parameters:
	//   - dt: elapsed time since the previous frame, in seconds
	//
	// Returns:
	//   - bool: true if the cue fired during this step
	Step(dt float32) bool

	// Reset returns the object to its rest pose. The cue trigger keeps its state.
	Reset()

	// Angle returns the accumulated rotation.
	//
	// Returns:
	//   - x, y: accumulated angles in radians
	Angle() (x, y float32)

	// AngularVelocity returns the current angular velocity.
	//
	// Returns:
	//   - x, y: angular velocity in radians per second
	AngularVelocity() (x, y float32)

	// Speed returns the magnitude of the angular velocity.
	//
	// Returns:
	//   - float32: hypot(vx, vy)
	Speed() float32

	// Armed reports whether the next over-threshold step fires the cue without waiting for
	// a cooldown.
	//
	// Returns:
	//   - bool: true until the cue fires for the first time
	Armed() bool

	// LastCue returns the clock reading of the most recent cue, or zero if none has fired.
	//
	// Returns:
	//   - time.Duration: the timestamp of the last cue
	LastCue() time.Duration
}

var _ Controller = &controllerImpl{}

// NewController creates a Controller with the default constants, a silent cue and the
// high-resolution monotonic clock, then applies the provided options.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the configured controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		mu:            &sync.Mutex{},
		velocityScale: DefaultVelocityScale,
		damping:       DefaultDamping,
		threshold:     DefaultCueThreshold,
		cooldown:      DefaultCueCooldown,
		cue:           nopCue{},
		clock:         hrtime.Now,
		state:         triggerArmed,
	}

	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controllerImpl) SetDragVelocity(vx, vy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.velocityX = vx * c.velocityScale
	c.velocityY = vy * c.velocityScale
}

func (c *controllerImpl) Step(dt float32) bool {
	if dt <= 0 {
		return false
	}

	c.mu.Lock()
	c.angleX += c.velocityX * dt
	c.angleY += c.velocityY * dt

	keep := 1 - c.damping
	c.velocityX *= keep
	c.velocityY *= keep

	fire := false
	if math32.Hypot(c.velocityX, c.velocityY) > c.threshold {
		now := c.clock()
		if c.state == triggerArmed || now > c.lastCue+c.cooldown {
			c.state = triggerCooling
			c.lastCue = now
			fire = true
		}
	}
	cue := c.cue
	c.mu.Unlock()

	if fire {
		cue.Play()
	}
	return fire
}

func (c *controllerImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.angleX, c.angleY = 0, 0
	c.velocityX, c.velocityY = 0, 0
}

func (c *controllerImpl) Angle() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.angleX, c.angleY
}

func (c *controllerImpl) AngularVelocity() (x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocityX, c.velocityY
}

func (c *controllerImpl) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return math32.Hypot(c.velocityX, c.velocityY)
}

func (c *controllerImpl) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == triggerArmed
}

func (c *controllerImpl) LastCue() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCue
}

type nopCue struct{}

func (nopCue) Play() {}
