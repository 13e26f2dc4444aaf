// Package lesson builds the rendering exercises: a one-time setup of pipeline, mesh,
// uniform ring and texture on a borrowed device, and a per-frame draw that logs and skips
// the frame when any of those is missing.
package lesson

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/audio"
	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/model"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/uniform_ring"
	"github.com/Carmen-Shannon/oxy-lessons/engine/spin"
	"github.com/Carmen-Shannon/oxy-lessons/engine/transform"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/loov/hrtime"
)

//go:embed shaders/*.wgsl
var shaderFiles embed.FS

// bailInterval is the minimum time between two log lines for the same skip reason.
const bailInterval = time.Second

// Device is the GPU device a lesson borrows. It is owned by the caller and outlives the
// lesson. renderer.Renderer satisfies it.
type Device interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error
	InitIndexBuffer(provider bind_group_provider.BindGroupProvider, indexData []byte, indexCount int, format wgpu.IndexFormat) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData renderer.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	SetClearColor(color wgpu.Color)
	BeginFrame() error
	Draw(pipelineKey string, meshProvider, indexProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame()
	Present()
}

var _ Device = renderer.Renderer(nil)

// lessonImpl is the implementation of the Lesson interface.
type lessonImpl struct {
	cfg    Config
	device Device

	logf    func(format string, args ...any)
	bail    *bailLogger
	clock   spin.Clock
	shaders fs.FS
	loader  loader.Loader
	cue     spin.Cue
	onSkip  func()

	pipelineKey string
	pipe        pipeline.Pipeline
	layouts     map[int]wgpu.BindGroupLayoutDescriptor
	mesh        model.Mesh
	ring        uniform_ring.UniformRing
	texture     bind_group_provider.BindGroupProvider
	layout      transform.Layout

	updater transform.Updater
	spin    spin.Controller
	drag    *spin.DragTracker

	frames  int
	skipped int
}

// Lesson is one parameterized rendering exercise. It is driven by the engine through
// DrawInView and, for interactive lessons, by pointer drags through HandleDrag.
type Lesson interface {
	engine.FrameDelegate

	// Config returns the configuration the lesson was built from.
	Config() Config

	// HandleDrag feeds a pointer sample into the spin controller. Ignored unless the lesson
	// is interactive.
	//
	// Parameters:
	//   - x, y: cursor position in screen coordinates
	//   - phase: whether the drag began, moved or ended
	HandleDrag(x, y float32, phase window.DragPhase)

	// Updater returns the transform state of the lesson.
	Updater() transform.Updater

	// Spin returns the spin controller, or nil for lessons that are not interactive.
	Spin() spin.Controller

	// Frames returns how many times DrawInView has been called.
	Frames() int

	// Skipped returns how many frames were skipped because a resource was missing or the
	// frame could not be started.
	Skipped() int
}

var _ Lesson = &lessonImpl{}

// New builds a lesson on a borrowed device. Each resource is created once; a resource that
// fails is logged and left unset, and every frame that needs it is skipped. Only an invalid
// configuration is returned as an error.
//
// Parameters:
//   - cfg: the lesson configuration
//   - device: the GPU device to create resources on and draw with
//   - options: variadic list of LessonBuilderOption functions
//
// Returns:
//   - Lesson: the lesson, possibly with unset resources
//   - error: error if cfg is invalid
func New(cfg Config, device Device, options ...LessonBuilderOption) (Lesson, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if device == nil {
		return nil, errors.New("lesson: nil device")
	}

	l := &lessonImpl{
		cfg:         cfg,
		device:      device,
		logf:        log.Printf,
		clock:       hrtime.Now,
		pipelineKey: "lesson:" + cfg.Name,
		layout:      cfg.UniformLayout(),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.shaders == nil {
		l.shaders = embeddedShaders()
	}
	l.bail = newBailLogger(l.logf, l.clock, bailInterval)

	device.SetClearColor(cfg.Clear())
	l.updater = transform.NewUpdater(cfg.updaterOptions()...)

	if cfg.Interactive {
		if l.cue == nil {
			l.cue = audio.LoadCue(cfg.CuePath)
		}
		l.spin = spin.NewController(
			spin.WithCue(l.cue, spin.DefaultCueThreshold, spin.DefaultCueCooldown),
			spin.WithClock(l.clock),
		)
		l.drag = spin.NewDragTracker(l.clock)
	}

	if cfg.Geometry == GeometryNone {
		return l, nil
	}

	l.initPipeline()
	l.initMesh()
	if cfg.UsesUniforms() {
		l.initUniforms()
	}
	if cfg.Textured() {
		l.initTexture()
	}
	return l, nil
}

func (l *lessonImpl) Config() Config {
	return l.cfg
}

func (l *lessonImpl) Updater() transform.Updater {
	return l.updater
}

func (l *lessonImpl) Spin() spin.Controller {
	return l.spin
}

func (l *lessonImpl) Frames() int {
	return l.frames
}

func (l *lessonImpl) Skipped() int {
	return l.skipped
}

func (l *lessonImpl) HandleDrag(x, y float32, phase window.DragPhase) {
	if l.spin == nil {
		return
	}
	switch phase {
	case window.DragBegan:
		l.drag.Begin(x, y)
	case window.DragMoved:
		if vx, vy, ok := l.drag.Move(x, y); ok {
			l.spin.SetDragVelocity(vx, vy)
		}
	case window.DragEnded:
		l.drag.End()
	}
}

func (l *lessonImpl) DrawInView(view engine.View) {
	l.frames++

	dt := view.FrameDuration
	if l.cfg.FixedTimestep > 0 {
		dt = l.cfg.FixedTimestep
	}

	if l.spin != nil {
		l.spin.Step(dt)
		ax, ay := l.spin.Angle()
		// Horizontal drags turn about Y, vertical drags about X.
		l.updater.SetRotation(ay, ax)
	}

	if l.cfg.Geometry == GeometryNone {
		l.clearFrame()
		return
	}

	switch {
	case l.pipe == nil:
		l.skip("pipeline")
		return
	case l.mesh == nil:
		l.skip("mesh")
		return
	case l.cfg.UsesUniforms() && l.ring == nil:
		l.skip("uniform buffer")
		return
	case l.cfg.Textured() && l.texture == nil:
		l.skip("texture")
		return
	}

	if !l.beginFrame() {
		return
	}

	var bindGroups []bind_group_provider.BindGroupProvider
	if l.ring != nil {
		uniforms, err := l.updater.Update(dt, view.Width, view.Height)
		if err != nil {
			l.skipped++
			if l.onSkip != nil {
				l.onSkip()
			}
			l.bail.Printf("viewport", "lesson %s: %v, presenting clear frame", l.cfg.Name, err)
			l.device.EndFrame()
			l.device.Present()
			return
		}

		_, slot := l.ring.Next()
		l.device.WriteBuffers([]bind_group_provider.BufferWrite{l.ring.Write(uniforms.Marshal(l.layout))})
		bindGroups = append(bindGroups, slot)
		if l.texture != nil {
			bindGroups = append(bindGroups, l.texture)
		}
	}

	l.drawMesh(bindGroups)
	l.device.EndFrame()
	l.device.Present()
}

// clearFrame encodes a pass with no draws so only the clear color reaches the drawable.
func (l *lessonImpl) clearFrame() {
	if !l.beginFrame() {
		return
	}
	l.device.EndFrame()
	l.device.Present()
}

func (l *lessonImpl) beginFrame() bool {
	err := l.device.BeginFrame()
	switch {
	case err == nil:
		return true
	case errors.Is(err, renderer.ErrNoDrawable):
		l.skipErr("drawable", err)
	case errors.Is(err, renderer.ErrNoCommandBuffer):
		l.skipErr("command buffer", err)
	default:
		l.skipErr("frame", err)
	}
	return false
}

func (l *lessonImpl) drawMesh(bindGroups []bind_group_provider.BindGroupProvider) {
	submeshes := l.mesh.Submeshes()
	if len(submeshes) == 0 {
		if err := l.device.Draw(l.pipelineKey, l.mesh.MeshProvider(), nil, bindGroups); err != nil {
			l.bail.Printf("draw", "lesson %s: draw: %v", l.cfg.Name, err)
		}
		return
	}
	for _, s := range submeshes {
		if s.Provider == nil {
			continue
		}
		if err := l.device.Draw(l.pipelineKey, l.mesh.MeshProvider(), s.Provider, bindGroups); err != nil {
			l.bail.Printf("draw", "lesson %s: draw %s: %v", l.cfg.Name, s.Name, err)
		}
	}
}

func (l *lessonImpl) skip(what string) {
	l.skipped++
	if l.onSkip != nil {
		l.onSkip()
	}
	l.bail.Printf(what, "lesson %s: %s not set", l.cfg.Name, what)
}

func (l *lessonImpl) skipErr(what string, err error) {
	l.skipped++
	if l.onSkip != nil {
		l.onSkip()
	}
	l.bail.Printf(what, "lesson %s: %s not set: %v", l.cfg.Name, what, err)
}

func (l *lessonImpl) initPipeline() {
	vs, err := shader.NewShaderFromFS(l.shaders, l.cfg.Shader, l.cfg.Name, shader.ShaderTypeVertex, entryPoint(l.cfg.VertexEntry)...)
	if err != nil {
		l.logf("lesson %s: pipeline: %v", l.cfg.Name, err)
		return
	}
	frag, err := shader.NewShaderFromFS(l.shaders, l.cfg.Shader, l.cfg.Name, shader.ShaderTypeFragment, entryPoint(l.cfg.FragmentEntry)...)
	if err != nil {
		l.logf("lesson %s: pipeline: %v", l.cfg.Name, err)
		return
	}

	depth := l.cfg.NeedsDepth()
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(frag),
		pipeline.WithDepthTestEnabled(depth),
		pipeline.WithDepthWriteEnabled(depth),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
	}
	if l.cfg.CullBack {
		opts = append(opts, pipeline.WithCullMode(wgpu.CullModeBack))
	}

	p := pipeline.NewPipeline(l.pipelineKey, opts...)
	if err := l.device.RegisterPipelines(p); err != nil {
		l.logf("lesson %s: pipeline: %v", l.cfg.Name, err)
		return
	}
	l.pipe = p
	l.layouts = renderer.PipelineBindGroupLayouts(p)
}

func (l *lessonImpl) initMesh() {
	m, err := l.buildMesh()
	if err != nil {
		l.logf("lesson %s: mesh: %v", l.cfg.Name, err)
		return
	}

	if l.pipe != nil {
		if vl := l.pipe.Shader(shader.ShaderTypeVertex).VertexLayout(); vl != nil && vl.ArrayStride != uint64(m.Stride()) {
			l.logf("lesson %s: mesh: stride %d does not match shader input stride %d", l.cfg.Name, m.Stride(), vl.ArrayStride)
			return
		}
	}

	meshProvider := bind_group_provider.NewBindGroupProvider(m.Name() + " Vertices")
	if err := l.device.InitVertexBuffer(meshProvider, m.VertexData(), m.VertexCount()); err != nil {
		l.logf("lesson %s: mesh: %v", l.cfg.Name, err)
		return
	}
	m.SetMeshProvider(meshProvider)

	for _, s := range m.Submeshes() {
		if len(s.Indices) == 0 {
			continue
		}
		ip := bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("%s %s Indices", m.Name(), s.Name),
			bind_group_provider.WithIndexFormat(m.IndexFormat()),
		)
		if err := l.device.InitIndexBuffer(ip, m.IndexData(s), len(s.Indices), m.IndexFormat()); err != nil {
			l.logf("lesson %s: mesh: submesh %s: %v", l.cfg.Name, s.Name, err)
			return
		}
		s.Provider = ip
	}
	l.mesh = m
}

func (l *lessonImpl) buildMesh() (model.Mesh, error) {
	switch l.cfg.Geometry {
	case GeometryTriangle:
		return triangleMesh()
	case GeometryCube:
		return cubeMesh()
	default:
		if l.loader == nil {
			l.loader = loader.NewLoader()
		}
		return l.loader.Load(l.cfg.MeshPath, l.cfg.VertexLayout())
	}
}

func (l *lessonImpl) initUniforms() {
	if l.pipe == nil {
		l.logf("lesson %s: uniform buffer: no pipeline layout", l.cfg.Name)
		return
	}
	desc, ok := l.layouts[0]
	if !ok || len(desc.Entries) == 0 {
		l.logf("lesson %s: uniform buffer: shader declares no group 0", l.cfg.Name)
		return
	}
	var u transform.Uniforms
	if got, want := desc.Entries[0].Buffer.MinBindingSize, uint64(u.Size(l.layout)); got != want {
		l.logf("lesson %s: uniform buffer: shader expects %d bytes, record is %d", l.cfg.Name, got, want)
		return
	}

	ring := uniform_ring.NewUniformRing(l.cfg.Name, l.cfg.UniformSlots)
	for i, slot := range ring.Slots() {
		if err := l.device.InitBindGroup(slot, desc, nil, nil); err != nil {
			l.logf("lesson %s: uniform buffer: slot %d: %v", l.cfg.Name, i, err)
			ring.Release()
			return
		}
	}
	l.ring = ring
}

func (l *lessonImpl) initTexture() {
	if l.pipe == nil {
		l.logf("lesson %s: texture: no pipeline layout", l.cfg.Name)
		return
	}
	desc, ok := l.layouts[1]
	if !ok {
		l.logf("lesson %s: texture: shader declares no group 1", l.cfg.Name)
		return
	}

	img := common.ImportedTexture{Name: filepath.Base(l.cfg.TexturePath), Path: l.cfg.TexturePath}
	staging, err := img.Decode()
	if err != nil {
		l.logf("lesson %s: texture: %v", l.cfg.Name, err)
		return
	}

	provider := bind_group_provider.NewBindGroupProvider(l.cfg.Name + " Texture")
	for _, entry := range desc.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			err = l.device.InitTextureView(provider, binding, staging)
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			err = l.device.InitSampler(provider, binding, renderer.SamplerStagingData{})
		}
		if err != nil {
			l.logf("lesson %s: texture: binding %d: %v", l.cfg.Name, binding, err)
			return
		}
	}
	if err := l.device.InitBindGroup(provider, desc, nil, nil); err != nil {
		l.logf("lesson %s: texture: %v", l.cfg.Name, err)
		return
	}
	l.texture = provider
}

func entryPoint(name string) []shader.ShaderBuilderOption {
	if name == "" {
		return nil
	}
	return []shader.ShaderBuilderOption{shader.WithEntryPoint(name)}
}

func embeddedShaders() fs.FS {
	sub, err := fs.Sub(shaderFiles, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}
