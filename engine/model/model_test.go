package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestVertexMarshalLayouts(t *testing.T) {
	color := ColorVertex{Position: mgl32.Vec4{1, 2, 3, 1}, Color: mgl32.Vec4{0.5, 0.25, 0, 1}}
	buf := color.Marshal()
	require.Len(t, buf, color.Size())
	assert.Equal(t, 32, color.Size())
	assert.Equal(t, float32(3), floatAt(buf, 8))
	assert.Equal(t, float32(0.25), floatAt(buf, 20))

	lit := NormalVertex{Position: mgl32.Vec4{0, 0, 0, 1}, Normal: mgl32.Vec4{0, 1, 0, 0}}
	buf = lit.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, float32(1), floatAt(buf, 12))
	assert.Equal(t, float32(1), floatAt(buf, 20))

	textured := TexturedVertex{Normal: mgl32.Vec4{0, 0, 1, 0}, TexCoord: mgl32.Vec2{0.75, 0.125}}
	buf = textured.Marshal()
	require.Len(t, buf, 40)
	assert.Equal(t, 40, textured.Size())
	assert.Equal(t, float32(1), floatAt(buf, 24))
	assert.Equal(t, float32(0.75), floatAt(buf, 32))
	assert.Equal(t, float32(0.125), floatAt(buf, 36))
}

func TestMarshalVertices(t *testing.T) {
	vertices := []ColorVertex{
		{Position: mgl32.Vec4{1, 0, 0, 1}},
		{Position: mgl32.Vec4{2, 0, 0, 1}},
	}
	buf := MarshalVertices(vertices)
	require.Len(t, buf, 64)
	assert.Equal(t, float32(2), floatAt(buf, 32))
	assert.Nil(t, MarshalVertices([]NormalVertex{}))
}

func TestMarshalIndices(t *testing.T) {
	indices := []uint32{0, 1, 65535}

	buf16 := MarshalIndices16(indices)
	require.Len(t, buf16, 6)
	assert.Equal(t, uint16(65535), binary.LittleEndian.Uint16(buf16[4:]))

	buf32 := MarshalIndices32([]uint32{7, 70000})
	require.Len(t, buf32, 8)
	assert.Equal(t, uint32(70000), binary.LittleEndian.Uint32(buf32[4:]))
}

func TestNewMesh(t *testing.T) {
	data := make([]byte, 4*32)
	m, err := NewMesh("quad", data, 32,
		WithSubmesh("front", []uint32{0, 1, 2}),
		WithSubmesh("back", []uint32{0, 2, 3}),
		WithIndexFormat(wgpu.IndexFormatUint16),
	)
	require.NoError(t, err)

	assert.Equal(t, "quad", m.Name())
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 32, m.Stride())
	assert.Equal(t, 6, m.IndexCount())
	require.Len(t, m.Submeshes(), 2)
	assert.Equal(t, "back", m.Submeshes()[1].Name)
	assert.Equal(t, wgpu.IndexFormatUint16, m.IndexFormat())
	assert.Len(t, m.IndexData(m.Submeshes()[0]), 6)
	assert.Nil(t, m.MeshProvider())
}

func TestNewMeshDefaultsToUint32(t *testing.T) {
	m, err := NewMesh("tri", make([]byte, 3*40), 40, WithSubmesh("tri", []uint32{0, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, wgpu.IndexFormatUint32, m.IndexFormat())
	assert.Len(t, m.IndexData(m.Submeshes()[0]), 12)
}

func TestNewMeshRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		stride  int
		options []MeshBuilderOption
	}{
		{"partial vertex", make([]byte, 33), 32, nil},
		{"zero stride", make([]byte, 32), 0, nil},
		{"index out of range", make([]byte, 96), 32, []MeshBuilderOption{WithSubmesh("s", []uint32{0, 1, 3})}},
		{"not a triangle list", make([]byte, 96), 32, []MeshBuilderOption{WithSubmesh("s", []uint32{0, 1})}},
		{"too many vertices for uint16", make([]byte, 65537*4), 4, []MeshBuilderOption{WithIndexFormat(wgpu.IndexFormatUint16)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh("bad", tt.data, tt.stride, tt.options...)
			assert.Error(t, err)
		})
	}
}
