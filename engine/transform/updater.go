// Package transform advances the per-frame rotation state of a lesson and composes the
// model, view and projection matrices that make up its uniform record.
package transform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerateViewport is returned by Update when the viewport has no area, which would
// make the aspect ratio undefined.
var ErrDegenerateViewport = errors.New("degenerate viewport")

const (
	// DefaultRateX is the angular velocity about X in radians per second (one turn every 4s).
	DefaultRateX = math32.Pi / 2
	// DefaultRateY is the angular velocity about Y in radians per second (one turn every 6s).
	DefaultRateY = math32.Pi / 3
	// DefaultFieldOfView is the vertical field of view, 72 degrees.
	DefaultFieldOfView = 2 * math32.Pi / 5
	// DefaultCameraDistance is how far the static camera is pulled back along +Z.
	DefaultCameraDistance float32 = 5
	// DefaultNear is the default near clipping plane.
	DefaultNear float32 = 1
	// DefaultFar is the default far clipping plane.
	DefaultFar float32 = 100

	pulseFrequency float32 = 5
	pulseAmplitude float32 = 0.25
)

type updaterImpl struct {
	mu *sync.Mutex

	rateX, rateY float32
	autoRotate   bool
	pulse        bool

	cameraDistance float32
	fovY           float32
	near           float32
	far            float32

	rotationX   float32
	rotationY   float32
	time        float32
	scaleFactor float32
}

// Updater owns the transform state of a single lesson and produces its uniform record
// once per frame.
type Updater interface {
	// Advance integrates the transform state by dt seconds. Non-positive dt leaves every
	// accumulator untouched.
	//
	// Parameters:
	//   - dt: elapsed time since the previous frame, in seconds
	Advance(dt float32)

	// Update advances the state by dt and composes the uniform record for a viewport of the
	// given size. A viewport without area is rejected before any state changes.
	//
	// Parameters:
	//   - dt: elapsed time since the previous frame, in seconds
	//   - width: the drawable width in pixels
	//   - height: the drawable height in pixels
	//
	// Returns:
	//   - Uniforms: the composed matrices for this frame
	//   - error: ErrDegenerateViewport if width or height is not positive
	Update(dt float32, width, height int) (Uniforms, error)

	// SetRotation overrides both rotation accumulators. Used when the angles are driven by
	// user input rather than fixed angular rates.
	//
	// Parameters:
	//   - x: rotation about the X axis in radians
	//   - y: rotation about the Y axis in radians
	SetRotation(x, y float32)

	// Rotation returns the current rotation accumulators.
	//
	// Returns:
	//   - x, y: rotation about the X and Y axes in radians
	Rotation() (x, y float32)

	// Time returns the running clock in seconds.
	//
	// Returns:
	//   - float32: accumulated time
	Time() float32

	// ScaleFactor returns the current uniform model scale. Always 1 unless pulsing is enabled.
	//
	// Returns:
	//   - float32: the scale factor
	ScaleFactor() float32

	// Model returns Rx · Ry · S for the current state.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	Model() mgl32.Mat4

	// View returns the fixed camera translation.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	View() mgl32.Mat4

	// Projection returns the perspective matrix for the given aspect ratio.
	//
	// Parameters:
	//   - aspect: viewport width divided by height
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	Projection(aspect float32) mgl32.Mat4
}

var _ Updater = &updaterImpl{}

// NewUpdater creates an Updater with the default rates, camera and projection settings,
// then applies the provided options.
//
// Parameters:
//   - options: variadic list of UpdaterBuilderOption functions
//
// Returns:
//   - Updater: the configured updater
func NewUpdater(options ...UpdaterBuilderOption) Updater {
	u := &updaterImpl{
		mu:             &sync.Mutex{},
		rateX:          DefaultRateX,
		rateY:          DefaultRateY,
		autoRotate:     true,
		cameraDistance: DefaultCameraDistance,
		fovY:           DefaultFieldOfView,
		near:           DefaultNear,
		far:            DefaultFar,
		scaleFactor:    1,
	}

	for _, opt := range options {
		opt(u)
	}
	return u
}

func (u *updaterImpl) Advance(dt float32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.advance(dt)
}

func (u *updaterImpl) Update(dt float32, width, height int) (Uniforms, error) {
	if width <= 0 || height <= 0 {
		return Uniforms{}, fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, width, height)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.advance(dt)
	aspect := float32(width) / float32(height)
	return Compose(u.projection(aspect), u.view(), u.model()), nil
}

func (u *updaterImpl) SetRotation(x, y float32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rotationX = x
	u.rotationY = y
}

func (u *updaterImpl) Rotation() (x, y float32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rotationX, u.rotationY
}

func (u *updaterImpl) Time() float32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.time
}

func (u *updaterImpl) ScaleFactor() float32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.scaleFactor
}

func (u *updaterImpl) Model() mgl32.Mat4 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.model()
}

func (u *updaterImpl) View() mgl32.Mat4 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.view()
}

func (u *updaterImpl) Projection(aspect float32) mgl32.Mat4 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.projection(aspect)
}

// advance must be called with mu held.
func (u *updaterImpl) advance(dt float32) {
	if dt <= 0 {
		return
	}
	u.time += dt
	if u.autoRotate {
		u.rotationX += dt * u.rateX
		u.rotationY += dt * u.rateY
	}
	if u.pulse {
		u.scaleFactor = math32.Sin(pulseFrequency*u.time)*pulseAmplitude + 1
	}
}

func (u *updaterImpl) model() mgl32.Mat4 {
	rx := common.Rotation(common.AxisX, u.rotationX)
	ry := common.Rotation(common.AxisY, u.rotationY)
	return rx.Mul4(ry).Mul4(common.UniformScale(u.scaleFactor))
}

func (u *updaterImpl) view() mgl32.Mat4 {
	return common.Translation(mgl32.Vec3{0, 0, -u.cameraDistance})
}

func (u *updaterImpl) projection(aspect float32) mgl32.Mat4 {
	return common.Perspective(aspect, u.fovY, u.near, u.far)
}

// Compose combines the three transforms in the fixed order projection · (view · model) and
// derives the normal matrix from the linear part of the model-view matrix.
//
// Parameters:
//   - projection: the projection matrix
//   - view: the view matrix
//   - model: the model matrix
//
// Returns:
//   - Uniforms: the composed record
func Compose(projection, view, model mgl32.Mat4) Uniforms {
	modelView := view.Mul4(model)
	return Uniforms{
		ModelViewProjection: projection.Mul4(modelView),
		ModelView:           modelView,
		Normal:              common.ExtractLinear(modelView),
	}
}
