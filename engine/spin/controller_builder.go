package spin

import "time"

// ControllerBuilderOption is a functional option applied to a Controller during construction via NewController.
type ControllerBuilderOption func(*controllerImpl)

// WithVelocityScale sets the factor converting drag velocity into angular velocity.
//
// Parameters:
//   - scale: radians per pixel
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithVelocityScale(scale float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.velocityScale = scale
	}
}

// WithDamping sets the fraction of velocity removed each stepped frame.
//
// Parameters:
//   - damping: a value in [0, 1]
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithDamping(damping float32) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.damping = damping
	}
}

// WithCue sets the effect fired when the spin speed crosses the threshold.
// A nil cue keeps the silent default.
//
// Parameters:
//   - cue: the cue to play
//   - threshold: angular speed above which the cue fires
//   - cooldown: minimum time between two cues
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithCue(cue Cue, threshold float32, cooldown time.Duration) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if cue != nil {
			c.cue = cue
		}
		c.threshold = threshold
		c.cooldown = cooldown
	}
}

// WithClock replaces the monotonic clock used to gate the cue cooldown.
//
// Parameters:
//   - clock: the clock to read
//
// Returns:
//   - ControllerBuilderOption: a function that applies the option to a controller
func WithClock(clock Clock) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.clock = clock
	}
}
