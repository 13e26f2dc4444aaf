package lesson

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	key        string
	mesh       bind_group_provider.BindGroupProvider
	index      bind_group_provider.BindGroupProvider
	bindGroups []bind_group_provider.BindGroupProvider
}

type fakeDevice struct {
	registerErr error
	beginErr    error

	pipelines  []pipeline.Pipeline
	bindGroups map[bind_group_provider.BindGroupProvider]wgpu.BindGroupLayoutDescriptor
	textures   map[int]common.TextureStagingData
	samplers   []int
	writes     []bind_group_provider.BufferWrite
	draws      []drawCall
	clear      wgpu.Color
	events     []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		bindGroups: make(map[bind_group_provider.BindGroupProvider]wgpu.BindGroupLayoutDescriptor),
		textures:   make(map[int]common.TextureStagingData),
	}
}

func (d *fakeDevice) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	if d.registerErr != nil {
		return d.registerErr
	}
	d.pipelines = append(d.pipelines, pipelines...)
	return nil
}

func (d *fakeDevice) InitVertexBuffer(p bind_group_provider.BindGroupProvider, data []byte, count int) error {
	p.SetVertexBuffer(nil, count)
	return nil
}

func (d *fakeDevice) InitIndexBuffer(p bind_group_provider.BindGroupProvider, data []byte, count int, format wgpu.IndexFormat) error {
	p.SetIndexBuffer(nil, count, format)
	return nil
}

func (d *fakeDevice) InitBindGroup(p bind_group_provider.BindGroupProvider, desc wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, _ map[int]uint64) error {
	d.bindGroups[p] = desc
	return nil
}

func (d *fakeDevice) InitTextureView(_ bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData) error {
	d.textures[binding] = staging
	return nil
}

func (d *fakeDevice) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, _ renderer.SamplerStagingData) error {
	d.samplers = append(d.samplers, binding)
	return nil
}

func (d *fakeDevice) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	d.writes = append(d.writes, writes...)
	d.events = append(d.events, "write")
}

func (d *fakeDevice) SetClearColor(c wgpu.Color) { d.clear = c }

func (d *fakeDevice) BeginFrame() error {
	if d.beginErr != nil {
		return d.beginErr
	}
	d.events = append(d.events, "begin")
	return nil
}

func (d *fakeDevice) Draw(key string, mesh, index bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	d.draws = append(d.draws, drawCall{key: key, mesh: mesh, index: index, bindGroups: bindGroups})
	d.events = append(d.events, "draw")
	return nil
}

func (d *fakeDevice) EndFrame() { d.events = append(d.events, "end") }
func (d *fakeDevice) Present()  { d.events = append(d.events, "present") }

type logSink struct {
	lines []string
}

func (s *logSink) Printf(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

type manualClock struct {
	now time.Duration
}

func (c *manualClock) Now() time.Duration { return c.now }

type countingCue struct {
	plays int
}

func (c *countingCue) Play() { c.plays++ }

func builtin(t *testing.T, name string) Config {
	t.Helper()
	cfg, ok := Lookup(Builtins(), name)
	require.True(t, ok, name)
	return cfg
}

var view = engine.View{FrameDuration: 1.0 / 60, Width: 800, Height: 600}

func TestClearLessonPresentsEmptyFrame(t *testing.T) {
	dev := newFakeDevice()
	l, err := New(builtin(t, "clear"), dev)
	require.NoError(t, err)

	l.DrawInView(view)

	assert.Equal(t, wgpu.Color{R: 1, G: 0, B: 0, A: 1}, dev.clear)
	assert.Equal(t, []string{"begin", "end", "present"}, dev.events)
	assert.Empty(t, dev.pipelines)
	assert.Zero(t, l.Skipped())
}

func TestTriangleLessonDrawsWithoutIndices(t *testing.T) {
	dev := newFakeDevice()
	l, err := New(builtin(t, "triangle"), dev)
	require.NoError(t, err)
	require.Len(t, dev.pipelines, 1)
	assert.Equal(t, "lesson:triangle", dev.pipelines[0].PipelineKey())
	assert.False(t, dev.pipelines[0].DepthTestEnabled())

	l.DrawInView(view)

	require.Len(t, dev.draws, 1)
	call := dev.draws[0]
	assert.Equal(t, "lesson:triangle", call.key)
	assert.Nil(t, call.index)
	assert.Empty(t, call.bindGroups)
	assert.Equal(t, 3, call.mesh.VertexCount())
	assert.Empty(t, dev.writes)
	assert.Equal(t, []string{"begin", "draw", "end", "present"}, dev.events)
}

func TestCubeLessonRotatesUniformSlots(t *testing.T) {
	dev := newFakeDevice()
	l, err := New(builtin(t, "cube"), dev)
	require.NoError(t, err)

	require.Len(t, dev.pipelines, 1)
	p := dev.pipelines[0]
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.Color{R: 0.85, G: 0.85, B: 0.85, A: 1}, dev.clear)
	assert.Len(t, dev.bindGroups, 3)

	for i := 0; i < 4; i++ {
		l.DrawInView(view)
	}

	require.Len(t, dev.draws, 4)
	first := dev.draws[0]
	require.NotNil(t, first.index)
	assert.Equal(t, 36, first.index.IndexCount())
	assert.Equal(t, wgpu.IndexFormatUint16, first.index.IndexFormat())
	assert.Equal(t, 8, first.mesh.VertexCount())

	require.Len(t, dev.writes, 4)
	for i, w := range dev.writes {
		assert.Len(t, w.Data, 64)
		assert.Same(t, w.Provider, dev.draws[i].bindGroups[0])
	}
	assert.NotSame(t, dev.draws[0].bindGroups[0], dev.draws[1].bindGroups[0])
	assert.NotSame(t, dev.draws[1].bindGroups[0], dev.draws[2].bindGroups[0])
	assert.Same(t, dev.draws[0].bindGroups[0], dev.draws[3].bindGroups[0])

	assert.Equal(t, []string{"begin", "write", "draw", "end", "present"}, dev.events[:5])
	assert.InDelta(t, 4.0/60, l.Updater().Time(), 1e-6)
	assert.NotEqual(t, float32(1), l.Updater().ScaleFactor())
}

func TestDegenerateViewportPresentsClearFrame(t *testing.T) {
	dev := newFakeDevice()
	sink := &logSink{}
	l, err := New(builtin(t, "cube"), dev, WithLogf(sink.Printf))
	require.NoError(t, err)

	l.DrawInView(engine.View{FrameDuration: 1.0 / 60, Width: 0, Height: 600})

	assert.Empty(t, dev.draws)
	assert.Empty(t, dev.writes)
	assert.Equal(t, []string{"begin", "end", "present"}, dev.events)
	assert.Equal(t, 1, l.Skipped())
	assert.Zero(t, l.Updater().Time())
	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "degenerate viewport")
}

func TestMissingPipelineSkipsAndRateLimitsLog(t *testing.T) {
	dev := newFakeDevice()
	dev.registerErr = errors.New("device lost")
	sink := &logSink{}
	clock := &manualClock{}
	skips := 0

	l, err := New(builtin(t, "cube"), dev,
		WithLogf(sink.Printf),
		WithClock(clock.Now),
		WithSkipHook(func() { skips++ }),
	)
	require.NoError(t, err)
	setupLines := len(sink.lines)
	require.Positive(t, setupLines)
	assert.Contains(t, sink.lines[0], "device lost")

	for i := 0; i < 5; i++ {
		l.DrawInView(view)
	}
	clock.now += 2 * time.Second
	l.DrawInView(view)

	assert.Equal(t, 6, l.Skipped())
	assert.Equal(t, 6, skips)
	assert.Empty(t, dev.events)

	frameLines := sink.lines[setupLines:]
	require.Len(t, frameLines, 2)
	assert.Equal(t, "lesson cube: pipeline not set", frameLines[0])
	assert.Contains(t, frameLines[1], "4 similar suppressed")
}

func TestMissingDrawableSkipsFrame(t *testing.T) {
	dev := newFakeDevice()
	sink := &logSink{}
	l, err := New(builtin(t, "cube"), dev, WithLogf(sink.Printf))
	require.NoError(t, err)

	dev.beginErr = fmt.Errorf("%w: surface outdated", renderer.ErrNoDrawable)
	l.DrawInView(view)

	assert.Equal(t, 1, l.Skipped())
	assert.Empty(t, dev.draws)
	assert.Empty(t, dev.writes)
	require.Len(t, sink.lines, 1)
	assert.Contains(t, sink.lines[0], "drawable not set")

	dev.beginErr = renderer.ErrNoCommandBuffer
	l.DrawInView(view)
	assert.Contains(t, sink.lines[len(sink.lines)-1], "command buffer not set")
}

func TestMissingMeshSkipsEveryFrame(t *testing.T) {
	cfg := builtin(t, "lighting")
	cfg.MeshPath = filepath.Join(t.TempDir(), "missing.obj")

	dev := newFakeDevice()
	sink := &logSink{}
	l, err := New(cfg, dev, WithLogf(sink.Printf))
	require.NoError(t, err)

	l.DrawInView(view)
	l.DrawInView(view)

	assert.Equal(t, 2, l.Skipped())
	assert.Empty(t, dev.events)
	assert.Contains(t, sink.lines[len(sink.lines)-1], "mesh not set")
}

const twoCubeFacesOBJ = `
o front
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
o back
v -1 -1 -1
v 1 1 -1
v 1 -1 -1
f 5/1 6/3 7/2
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLightingLessonDrawsEverySubmesh(t *testing.T) {
	cfg := builtin(t, "lighting")
	cfg.MeshPath = writeFile(t, "faces.obj", twoCubeFacesOBJ)

	dev := newFakeDevice()
	l, err := New(cfg, dev)
	require.NoError(t, err)

	l.DrawInView(engine.View{FrameDuration: 0.5, Width: 640, Height: 480})

	require.Len(t, dev.draws, 2)
	assert.Equal(t, 6, dev.draws[0].index.IndexCount())
	assert.Equal(t, 3, dev.draws[1].index.IndexCount())
	assert.Same(t, dev.draws[0].mesh, dev.draws[1].mesh)

	require.Len(t, dev.writes, 1)
	assert.Len(t, dev.writes[0].Data, 176)
	assert.InDelta(t, 0.02, l.Updater().Time(), 1e-6)
}

func TestTexturingLessonBindsTextureAndSpins(t *testing.T) {
	cfg := builtin(t, "texturing")
	cfg.MeshPath = writeFile(t, "faces.obj", twoCubeFacesOBJ)
	cfg.TexturePath = writePNG(t)

	dev := newFakeDevice()
	clock := &manualClock{}
	cue := &countingCue{}
	l, err := New(cfg, dev, WithClock(clock.Now), WithCue(cue))
	require.NoError(t, err)

	require.Contains(t, dev.textures, 0)
	assert.Equal(t, uint32(2), dev.textures[0].Width)
	assert.Equal(t, []int{1}, dev.samplers)
	assert.Len(t, dev.bindGroups, 4)

	l.HandleDrag(100, 100, window.DragBegan)
	clock.now += 100 * time.Millisecond
	l.HandleDrag(500, 100, window.DragMoved)
	l.HandleDrag(500, 100, window.DragEnded)

	vx, vy := l.Spin().AngularVelocity()
	assert.InDelta(t, 40, vx, 1e-3)
	assert.InDelta(t, 0, vy, 1e-6)

	clock.now += time.Second
	l.DrawInView(view)

	ax, ay := l.Spin().Angle()
	assert.InDelta(t, 40.0/60, ax, 1e-4)
	rx, ry := l.Updater().Rotation()
	assert.InDelta(t, ay, rx, 1e-6)
	assert.InDelta(t, ax, ry, 1e-6)
	assert.Equal(t, 1, cue.plays)

	require.Len(t, dev.draws, 2)
	require.Len(t, dev.draws[0].bindGroups, 2)
	assert.Len(t, dev.writes[0].Data, 176)
}

func TestHandleDragIgnoredWhenNotInteractive(t *testing.T) {
	l, err := New(builtin(t, "cube"), newFakeDevice())
	require.NoError(t, err)

	l.HandleDrag(0, 0, window.DragBegan)
	l.HandleDrag(10, 10, window.DragMoved)
	assert.Nil(t, l.Spin())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Name: "bad", Geometry: "sphere"}, newFakeDevice())
	assert.Error(t, err)

	_, err = New(builtin(t, "clear"), nil)
	assert.Error(t, err)
}

func TestEntryPointMismatchLeavesPipelineUnset(t *testing.T) {
	cfg := builtin(t, "cube")
	cfg.FragmentEntry = "fragment_missing"

	dev := newFakeDevice()
	sink := &logSink{}
	l, err := New(cfg, dev, WithLogf(sink.Printf))
	require.NoError(t, err)
	assert.Empty(t, dev.pipelines)

	l.DrawInView(view)
	assert.Equal(t, 1, l.Skipped())
	assert.Contains(t, sink.lines[len(sink.lines)-1], "pipeline not set")
}

func TestDragTurnsModelWithPointer(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
		check  func(t *testing.T, front mgl32.Vec4)
	}{
		{"right drag turns front to the right", 100, 0, func(t *testing.T, front mgl32.Vec4) {
			assert.Greater(t, front.X(), float32(0.5))
			assert.InDelta(t, 0, front.Y(), 1e-5)
		}},
		{"downward drag tips front down", 0, 100, func(t *testing.T, front mgl32.Vec4) {
			assert.InDelta(t, 0, front.X(), 1e-5)
			assert.Less(t, front.Y(), float32(-0.5))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := builtin(t, "texturing")
			cfg.MeshPath = writeFile(t, "faces.obj", twoCubeFacesOBJ)
			cfg.TexturePath = writePNG(t)

			clock := &manualClock{}
			l, err := New(cfg, newFakeDevice(), WithClock(clock.Now), WithCue(&countingCue{}))
			require.NoError(t, err)

			// 100px in 100ms is 1000 px/s.
			l.HandleDrag(400, 300, window.DragBegan)
			clock.now += 100 * time.Millisecond
			l.HandleDrag(400+tt.dx, 300+tt.dy, window.DragMoved)
			l.HandleDrag(400+tt.dx, 300+tt.dy, window.DragEnded)

			for i := 0; i < 10; i++ {
				l.DrawInView(view)
			}

			front := l.Updater().Model().Mul4x1(mgl32.Vec4{0, 0, 1, 0})
			tt.check(t, front)
		})
	}
}
