package transform

// UpdaterBuilderOption is a functional option applied to an Updater during construction via NewUpdater.
type UpdaterBuilderOption func(*updaterImpl)

// WithAngularRates sets the fixed angular velocities used while auto-rotating.
//
// Parameters:
//   - x: radians per second about the X axis
//   - y: radians per second about the Y axis
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the rates to an updater
func WithAngularRates(x, y float32) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.rateX = x
		u.rateY = y
	}
}

// WithAutoRotate enables or disables the fixed-rate rotation. When disabled the angles only
// change through SetRotation.
//
// Parameters:
//   - enabled: true to advance the angles every frame (default)
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the option to an updater
func WithAutoRotate(enabled bool) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.autoRotate = enabled
	}
}

// WithPulse enables the breathing scale animation, sin(5t)·0.25 + 1.
//
// Parameters:
//   - enabled: true to pulse the model scale
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the option to an updater
func WithPulse(enabled bool) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.pulse = enabled
	}
}

// WithCameraDistance sets how far the camera sits from the origin along +Z.
//
// Parameters:
//   - distance: the camera distance in world units
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the option to an updater
func WithCameraDistance(distance float32) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.cameraDistance = distance
	}
}

// WithFieldOfView sets the vertical field of view in radians.
//
// Parameters:
//   - fovY: the field of view in radians
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the option to an updater
func WithFieldOfView(fovY float32) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.fovY = fovY
	}
}

// WithDepthRange sets the near and far clipping planes.
//
// Parameters:
//   - near: near plane distance, must be > 0
//   - far: far plane distance, must be > near
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the option to an updater
func WithDepthRange(near, far float32) UpdaterBuilderOption {
	return func(u *updaterImpl) {
		u.near = near
		u.far = far
	}
}
