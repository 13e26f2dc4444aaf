package shader

import (
	"testing"
	"testing/fstest"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litSource = `
// lighting
struct Uniforms {
    modelViewProjection: mat4x4f,
    modelView: mat4x4f,
    normal: mat3x3f,
}

struct VertexIn {
    @location(0) position: vec4f,
    @location(1) normal: vec4f,
}

struct VertexOut {
    @builtin(position) position: vec4f,
    @location(0) normal: vec3f,
}

/* the /* nested */ block is ignored: @vertex fn commented_out() {} */

@group(0) @binding(0) var<uniform> uniforms: Uniforms;

@vertex
fn vertex_project(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.position = uniforms.modelViewProjection * in.position;
    out.normal = uniforms.normal * in.normal.xyz;
    return out;
}

@fragment
fn fragment_flatColor(in: VertexOut) -> @location(0) vec4f {
    return vec4f(1.0);
}

@fragment
fn fragment_light(in: VertexOut) -> @location(0) vec4f {
    return vec4f(normalize(in.normal), 1.0);
}
`

const texturedSource = `
struct Uniforms { modelViewProjection: mat4x4f, }

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(1) @binding(1) var diffuseSampler: sampler;
@group(1) @binding(0) var diffuseTexture: texture_2d<f32>;

@vertex
fn vertex_main(@builtin(vertex_index) index: u32, @location(0) position: vec4f, @location(2) uv: vec2f) -> @builtin(position) vec4f {
    return uniforms.modelViewProjection * position;
}

@fragment
fn fragment_main() -> @location(0) vec4f {
    return textureSample(diffuseTexture, diffuseSampler, vec2f(0.5));
}
`

func TestNewShaderNamedEntryPoints(t *testing.T) {
	vs, err := NewShader("lit", ShaderTypeVertex, litSource, WithEntryPoint("vertex_project"))
	require.NoError(t, err)
	assert.Equal(t, "vertex_project", vs.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, vs.ShaderType())

	fs, err := NewShader("lit", ShaderTypeFragment, litSource, WithEntryPoint("fragment_light"))
	require.NoError(t, err)
	assert.Equal(t, "fragment_light", fs.EntryPoint())
}

func TestNewShaderDefaultsToFirstEntryPoint(t *testing.T) {
	fs, err := NewShader("lit", ShaderTypeFragment, litSource)
	require.NoError(t, err)
	assert.Equal(t, "fragment_flatColor", fs.EntryPoint())
}

func TestNewShaderRejectsUnknownEntryPoint(t *testing.T) {
	tests := []struct {
		name       string
		shaderType ShaderType
		entry      string
	}{
		{"missing function", ShaderTypeVertex, "vertex_missing"},
		{"wrong stage", ShaderTypeVertex, "fragment_light"},
		{"commented out", ShaderTypeVertex, "commented_out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("lit", tt.shaderType, litSource, WithEntryPoint(tt.entry))
			assert.ErrorIs(t, err, ErrEntryPointNotFound)
		})
	}

	_, err := NewShader("empty", ShaderTypeFragment, "@vertex fn v() -> @builtin(position) vec4f { return vec4f(); }")
	assert.ErrorIs(t, err, ErrEntryPointNotFound)
}

func TestUniformBindingSize(t *testing.T) {
	vs, err := NewShader("lit", ShaderTypeVertex, litSource)
	require.NoError(t, err)

	desc := vs.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(176), entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
	assert.Equal(t, "uniforms", vs.BindGroupVarName(0, 0))
	assert.Empty(t, vs.BindGroupVarName(3, 0))
}

func TestVertexLayoutFromStructInput(t *testing.T) {
	vs, err := NewShader("lit", ShaderTypeVertex, litSource)
	require.NoError(t, err)

	layout := vs.VertexLayout()
	require.NotNil(t, layout)
	assert.Equal(t, uint64(32), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0}, layout.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, layout.Attributes[1])

	fs, err := NewShader("lit", ShaderTypeFragment, litSource)
	require.NoError(t, err)
	assert.Nil(t, fs.VertexLayout())
}

func TestVertexLayoutFromParameters(t *testing.T) {
	vs, err := NewShader("textured", ShaderTypeVertex, texturedSource)
	require.NoError(t, err)

	layout := vs.VertexLayout()
	require.NotNil(t, layout)
	assert.Equal(t, uint64(24), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, uint32(2), layout.Attributes[1].ShaderLocation)
	assert.Equal(t, uint64(16), layout.Attributes[1].Offset)
}

func TestTextureAndSamplerBindings(t *testing.T) {
	fs, err := NewShader("textured", ShaderTypeFragment, texturedSource)
	require.NoError(t, err)

	desc := fs.BindGroupLayoutDescriptor(1)
	require.Len(t, desc.Entries, 2)

	tex, samp := desc.Entries[0], desc.Entries[1]
	assert.Equal(t, uint32(0), tex.Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, tex.Texture.ViewDimension)
	assert.Equal(t, uint32(1), samp.Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samp.Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, samp.Visibility)
}

func TestNewShaderFromFS(t *testing.T) {
	fsys := fstest.MapFS{"shaders/lit.wgsl": {Data: []byte(litSource)}}

	s, err := NewShaderFromFS(fsys, "shaders/lit.wgsl", "lit", ShaderTypeFragment, WithEntryPoint("fragment_light"))
	require.NoError(t, err)
	assert.Equal(t, litSource, s.Source())
	assert.Equal(t, "lit", s.Module().Label)

	_, err = NewShaderFromFS(fsys, "shaders/missing.wgsl", "missing", ShaderTypeVertex)
	assert.Error(t, err)
}

func TestStructLayouts(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Outer { inner: Inner, scale: f32, }
struct Inner { a: vec3f, b: f32, c: vec2f, }
struct Arrays { values: array<vec3f, 4>, tail: u32, }
struct Runtime { values: array<f32>, }
`))
	sizes := computeStructSizes(structs)

	assert.Equal(t, wgslTypeLayout{32, 16}, sizes["Inner"])
	assert.Equal(t, wgslTypeLayout{48, 16}, sizes["Outer"])
	assert.Equal(t, wgslTypeLayout{80, 16}, sizes["Arrays"])
	assert.NotContains(t, sizes, "Runtime")
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(9)", ShaderType(9).String())
}
