package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	depthEnabled         bool
	clearColor           wgpu.Color
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer is the GPU device, surface and frame encoder used by the lessons.
//
// A frame is encoded with BeginFrame, one Draw per submesh, EndFrame and Present.
// Pipelines are created once with RegisterPipelines and looked up by key when drawing.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline and caches it by
	// PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and its attachments for a new drawable size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// DrawableSize returns the size the surface was last configured with.
	//
	// Returns:
	//   - int: the drawable width in pixels
	//   - int: the drawable height in pixels
	DrawableSize() (int, int)

	// SetPresentMode sets the surface present mode. A call to Resize is required for the new
	// mode to take effect.
	//
	// Parameters:
	//   - mode: PresentModeVSync or PresentModeUncapped
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the render target is cleared to at the start of each frame.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// InitVertexBuffer uploads vertex data into a new vertex buffer stored on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - vertexData: the packed vertex bytes
	//   - vertexCount: the number of vertices, used for non-indexed draws
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitVertexBuffer(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error

	// InitIndexBuffer uploads index data into a new index buffer stored on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the buffer on
	//   - indexData: the packed index bytes
	//   - indexCount: the number of indices
	//   - format: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitIndexBuffer(provider bind_group_provider.BindGroupProvider, indexData []byte, indexCount int, format wgpu.IndexFormat) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler before calling this method.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags keyed by binding index (nil safe)
	//   - bufferSizeOverrides: buffer sizes to use instead of MinBindingSize keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates an RGBA8 sRGB texture from staging data and stores its view on
	// the provider at the binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider at the binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error

	// WriteBuffers queues each BufferWrite on the GPU queue. Writes whose target buffer does not
	// exist are skipped.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture, creates the frame's command encoder and begins
	// the render pass that clears to the clear color.
	//
	// Returns:
	//   - error: wraps ErrNoDrawable or ErrNoCommandBuffer
	BeginFrame() error

	// Draw encodes one draw within the current render pass. When indexProvider is nil the draw
	// is non-indexed over meshProvider's vertex count.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered Pipeline
	//   - meshProvider: the provider holding the vertex buffer
	//   - indexProvider: the provider holding the index buffer, or nil
	//   - bindGroups: providers whose bind groups are set at group indices 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not registered or no frame is in progress
	Draw(pipelineKey string, meshProvider, indexProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the command buffer. Call Present afterwards.
	EndFrame()

	// Present presents the surface and releases the frame's surface texture.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the window's surface and configures the surface to the
// window size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		depthEnabled:  true,
		clearColor:    DefaultClearColor,
	}

	// Options run first so adapter selection sees forceFallbackAdapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), wgpuBackendConfig{
			forceFallbackAdapter: r.forceFallbackAdapter,
			sampleCount:          msaa,
			depthEnabled:         r.depthEnabled,
			clearColor:           r.clearColor,
		})
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) DrawableSize() (int, int) {
	return r.backend.DrawableSize()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color wgpu.Color) {
	r.backend.SetClearColor(color)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitVertexBuffer(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int) error {
	return r.backend.InitVertexBuffer(provider, vertexData, vertexCount)
}

func (r *renderer) InitIndexBuffer(provider bind_group_provider.BindGroupProvider, indexData []byte, indexCount int, format wgpu.IndexFormat) error {
	return r.backend.InitIndexBuffer(provider, indexData, indexCount, format)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(pipelineKey string, meshProvider, indexProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.Draw(p, meshProvider, indexProvider, bindGroups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

// PipelineBindGroupLayouts returns the bind group layouts a pipeline is created with: the
// vertex and fragment shader layouts merged per group. Bind groups drawn with the pipeline
// must be initialized from these descriptors.
//
// Parameters:
//   - p: the pipeline description
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged layouts keyed by group index
func PipelineBindGroupLayouts(p pipeline.Pipeline) map[int]wgpu.BindGroupLayoutDescriptor {
	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if s := p.Shader(shader.ShaderTypeVertex); s != nil {
		vertexLayouts = s.BindGroupLayoutDescriptors()
	}
	if s := p.Shader(shader.ShaderTypeFragment); s != nil {
		fragmentLayouts = s.BindGroupLayoutDescriptors()
	}
	return mergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
}
