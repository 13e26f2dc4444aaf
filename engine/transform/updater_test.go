package transform

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-4

func TestAdvanceDefaultRates(t *testing.T) {
	u := NewUpdater()
	u.Advance(1)

	x, y := u.Rotation()
	assert.InDelta(t, math32.Pi/2, x, epsilon)
	assert.InDelta(t, math32.Pi/3, y, epsilon)
	assert.InDelta(t, 1, u.Time(), epsilon)
	assert.Equal(t, float32(1), u.ScaleFactor())
}

func TestAdvanceIsLinearInTime(t *testing.T) {
	for _, dt := range []float32{0, 0.001, 1.0 / 60, 0.02, 0.5, 3} {
		whole := NewUpdater(WithPulse(true))
		halves := NewUpdater(WithPulse(true))

		whole.Advance(dt)
		halves.Advance(dt / 2)
		halves.Advance(dt / 2)

		wx, wy := whole.Rotation()
		hx, hy := halves.Rotation()
		assert.InDelta(t, wx, hx, epsilon)
		assert.InDelta(t, wy, hy, epsilon)
		assert.InDelta(t, whole.Time(), halves.Time(), epsilon)
		assert.InDelta(t, whole.ScaleFactor(), halves.ScaleFactor(), epsilon)
	}
}

func TestAdvanceZeroLeavesStateUntouched(t *testing.T) {
	u := NewUpdater(WithPulse(true))
	u.Advance(0.3)
	x, y := u.Rotation()
	tm, s := u.Time(), u.ScaleFactor()

	u.Advance(0)
	u.Advance(-1)

	gx, gy := u.Rotation()
	assert.Equal(t, x, gx)
	assert.Equal(t, y, gy)
	assert.Equal(t, tm, u.Time())
	assert.Equal(t, s, u.ScaleFactor())
}

func TestPulseStaysWithinBounds(t *testing.T) {
	u := NewUpdater(WithPulse(true))
	for range 500 {
		u.Advance(0.013)
		assert.GreaterOrEqual(t, u.ScaleFactor(), float32(0.75)-epsilon)
		assert.LessOrEqual(t, u.ScaleFactor(), float32(1.25)+epsilon)
	}
	assert.InDelta(t, math32.Sin(5*u.Time())*0.25+1, u.ScaleFactor(), epsilon)
}

func TestAutoRotateDisabled(t *testing.T) {
	u := NewUpdater(WithAutoRotate(false))
	u.SetRotation(0.5, -0.25)
	u.Advance(2)

	x, y := u.Rotation()
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(-0.25), y)
	assert.InDelta(t, 2, u.Time(), epsilon)
}

func TestUpdateRejectsDegenerateViewport(t *testing.T) {
	u := NewUpdater()
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-1, 10}} {
		_, err := u.Update(1, size[0], size[1])
		assert.ErrorIs(t, err, ErrDegenerateViewport)
	}

	x, y := u.Rotation()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, u.Time())
}

func TestUpdateOriginClipDepth(t *testing.T) {
	// identity model: no rotation, no pulse, camera 5 units back
	u := NewUpdater(WithAutoRotate(false))
	uniforms, err := u.Update(0, 640, 640)
	require.NoError(t, err)

	clip := uniforms.ModelViewProjection.Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	// z_clip = zScale·(-5) + wzScale with zScale = -101/99 and wzScale = -200/99
	assert.InDelta(t, 0, clip[0], epsilon)
	assert.InDelta(t, 0, clip[1], epsilon)
	assert.InDelta(t, 305.0/99.0, clip[2], epsilon)
	assert.InDelta(t, 5, clip[3], epsilon)
}

func TestComposeOrder(t *testing.T) {
	projection := common.Perspective(1.5, DefaultFieldOfView, 0.1, 100)
	view := common.Translation(mgl32.Vec3{0, 0, -1.5})
	model := common.Rotation(common.AxisX, 0.7).Mul4(common.Rotation(common.AxisY, -1.1)).Mul4(common.UniformScale(1.2))

	got := Compose(projection, view, model)

	want := projection.Mul4(view.Mul4(model))
	assert.True(t, want.ApproxEqualThreshold(got.ModelViewProjection, 1e-6))
	assert.True(t, view.Mul4(model).ApproxEqualThreshold(got.ModelView, 1e-6))
	assert.Equal(t, common.ExtractLinear(got.ModelView), got.Normal)

	reversed := model.Mul4(view).Mul4(projection)
	assert.False(t, reversed.ApproxEqualThreshold(got.ModelViewProjection, 1e-3))
}

func TestUpdateMatchesCompose(t *testing.T) {
	u := NewUpdater(WithPulse(true), WithCameraDistance(1.5), WithDepthRange(0.1, 100))
	got, err := u.Update(0.02, 800, 600)
	require.NoError(t, err)

	want := Compose(u.Projection(800.0/600.0), u.View(), u.Model())
	assert.Equal(t, want, got)
}

func TestMarshalLayouts(t *testing.T) {
	var u Uniforms
	for i := range u.ModelViewProjection {
		u.ModelViewProjection[i] = float32(i)
		u.ModelView[i] = float32(100 + i)
	}
	for i := range u.Normal {
		u.Normal[i] = float32(200 + i)
	}

	readFloat := func(b []byte, off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}

	mvp := u.Marshal(LayoutMVP)
	require.Len(t, mvp, 64)
	assert.Equal(t, float32(15), readFloat(mvp, 60))

	lit := u.Marshal(LayoutLit)
	require.Len(t, lit, 176)
	assert.Equal(t, u.Size(LayoutLit), len(lit))
	assert.Equal(t, float32(100), readFloat(lit, 64))

	// each mat3 column starts on a 16-byte boundary with a zero pad lane
	for col := 0; col < 3; col++ {
		base := 128 + col*16
		for row := 0; row < 3; row++ {
			assert.Equal(t, u.Normal[col*3+row], readFloat(lit, base+row*4))
		}
		assert.Zero(t, readFloat(lit, base+12))
	}
}
