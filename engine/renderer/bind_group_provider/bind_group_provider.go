package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label prefixed to every GPU object created for this provider.
	label string

	// GPU resources below are populated by the Renderer and must be released when no longer needed.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler

	vertexBuffer *wgpu.Buffer
	vertexCount  int
	indexBuffer  *wgpu.Buffer
	indexCount   int
	indexFormat  wgpu.IndexFormat
}

// BindGroupProvider bundles the GPU resources one draw input needs: a bind group with its
// buffers, texture views and samplers, or the vertex and index buffers of a mesh.
//
// Usage pattern:
//  1. Create a provider with NewBindGroupProvider and a unique label
//  2. Call Renderer.InitBindGroup, InitVertexBuffer or InitIndexBuffer to allocate GPU resources
//  3. Queue uniform updates with Renderer.WriteBuffers using a BufferWrite
//  4. Pass the provider to Renderer.Draw
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at the binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view at the binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at the binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the vertex buffer, or nil if this provider carries no mesh.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	VertexBuffer() *wgpu.Buffer

	// VertexCount returns the number of vertices, used for non-indexed draws.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexBuffer returns the index buffer, or nil if the mesh is drawn without indices.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for indexed draws.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// IndexFormat returns the element format of the index buffer. Defaults to Uint32.
	//
	// Returns:
	//   - wgpu.IndexFormat: Uint16 or Uint32
	IndexFormat() wgpu.IndexFormat

	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, tv *wgpu.TextureView)
	SetSampler(binding int, s *wgpu.Sampler)
	SetVertexBuffer(buf *wgpu.Buffer, count int)
	SetIndexBuffer(buf *wgpu.Buffer, count int, format wgpu.IndexFormat)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		indexFormat:  wgpu.IndexFormatUint32,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat {
	return p.indexFormat
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, count int) {
	p.vertexBuffer = buf
	p.vertexCount = count
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, count int, format wgpu.IndexFormat) {
	p.indexBuffer = buf
	p.indexCount = count
	p.indexFormat = format
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.vertexCount = 0
	p.indexCount = 0
}
