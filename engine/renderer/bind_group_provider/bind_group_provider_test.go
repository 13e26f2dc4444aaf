package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("cube Uniforms 0")

	assert.Equal(t, "cube Uniforms 0", p.Label())
	assert.Equal(t, wgpu.IndexFormatUint32, p.IndexFormat())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.VertexBuffer())
	assert.Zero(t, p.IndexCount())
}

func TestWithIndexFormat(t *testing.T) {
	p := NewBindGroupProvider("cube Indices", WithIndexFormat(wgpu.IndexFormatUint16))
	assert.Equal(t, wgpu.IndexFormatUint16, p.IndexFormat())
}

func TestReleaseClearsCounts(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetVertexBuffer(nil, 24)
	p.SetIndexBuffer(nil, 36, wgpu.IndexFormatUint16)
	assert.Equal(t, 24, p.VertexCount())
	assert.Equal(t, 36, p.IndexCount())

	p.Release()
	assert.Zero(t, p.VertexCount())
	assert.Zero(t, p.IndexCount())
	assert.Equal(t, wgpu.IndexFormatUint16, p.IndexFormat())
}
