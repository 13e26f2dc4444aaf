package model

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a GPU vertex with a fixed packed layout.
type Vertex interface {
	// Size returns the packed size of the vertex in bytes, which is the vertex buffer stride.
	Size() int

	// Marshal packs the vertex little-endian in attribute order.
	Marshal() []byte
}

// ColorVertex is an unlit vertex with a per-vertex color.
// Matches a WGSL input of two vec4f attributes (32 bytes).
type ColorVertex struct {
	Position mgl32.Vec4 // offset  0
	Color    mgl32.Vec4 // offset 16
}

// NormalVertex is a lit vertex. Normal.W is zero.
// Matches a WGSL input of two vec4f attributes (32 bytes).
type NormalVertex struct {
	Position mgl32.Vec4 // offset  0
	Normal   mgl32.Vec4 // offset 16
}

// TexturedVertex is a lit, textured vertex.
// Matches a WGSL input of vec4f, vec4f and vec2f attributes (40 bytes).
type TexturedVertex struct {
	Position mgl32.Vec4 // offset  0
	Normal   mgl32.Vec4 // offset 16
	TexCoord mgl32.Vec2 // offset 32
}

var (
	_ Vertex = ColorVertex{}
	_ Vertex = NormalVertex{}
	_ Vertex = TexturedVertex{}
)

// Size returns 32.
func (v ColorVertex) Size() int {
	return 32
}

// Marshal serializes the vertex into a 32-byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the packed vertex
func (v ColorVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:]...)
	putFloats(buf[16:], v.Color[:]...)
	return buf
}

// Size returns 32.
func (v NormalVertex) Size() int {
	return 32
}

// Marshal serializes the vertex into a 32-byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the packed vertex
func (v NormalVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:]...)
	putFloats(buf[16:], v.Normal[:]...)
	return buf
}

// Size returns 40.
func (v TexturedVertex) Size() int {
	return 40
}

// Marshal serializes the vertex into a 40-byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the packed vertex
func (v TexturedVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:]...)
	putFloats(buf[16:], v.Normal[:]...)
	putFloats(buf[32:], v.TexCoord[:]...)
	return buf
}

// MarshalVertices packs vertices back to back.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices) * stride bytes
func MarshalVertices[V Vertex](vertices []V) []byte {
	if len(vertices) == 0 {
		return nil
	}
	buf := make([]byte, 0, len(vertices)*vertices[0].Size())
	for _, v := range vertices {
		buf = append(buf, v.Marshal()...)
	}
	return buf
}

// MarshalIndices16 packs indices as little-endian uint16. Callers must ensure every index
// fits in 16 bits.
func MarshalIndices16(indices []uint32) []byte {
	buf := make([]byte, 2*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(idx))
	}
	return buf
}

// MarshalIndices32 packs indices as little-endian uint32.
func MarshalIndices32(indices []uint32) []byte {
	buf := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[4*i:], idx)
	}
	return buf
}

func putFloats(buf []byte, values ...float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
}
