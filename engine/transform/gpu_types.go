package transform

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Layout selects which fields of Uniforms are uploaded, matching the uniform struct
// declared by the lesson's vertex shader.
type Layout int

const (
	// LayoutMVP uploads only the model-view-projection matrix (64 bytes):
	//
	//	struct Uniforms { modelViewProjection: mat4x4f }
	LayoutMVP Layout = iota

	// LayoutLit uploads the matrices needed for per-vertex lighting (176 bytes):
	//
	//	struct Uniforms { modelViewProjection: mat4x4f, modelView: mat4x4f, normal: mat3x3f }
	LayoutLit
)

const (
	mat4Size = 64
	// mat3x3f columns are vec3f padded to 16 bytes
	mat3Size = 48
)

// Uniforms is the per-frame record consumed by the vertex stage.
type Uniforms struct {
	ModelViewProjection mgl32.Mat4
	ModelView           mgl32.Mat4
	Normal              mgl32.Mat3
}

// Size returns the number of bytes Marshal produces for the layout.
//
// Parameters:
//   - layout: the uniform layout
//
// Returns:
//   - int: the encoded size in bytes
func (u *Uniforms) Size(layout Layout) int {
	if layout == LayoutLit {
		return mat4Size*2 + mat3Size
	}
	return mat4Size
}

// Marshal serializes the record into a little-endian byte buffer following WGSL uniform
// layout rules for the selected layout.
//
// Parameters:
//   - layout: the uniform layout
//
// Returns:
//   - []byte: the serialized byte buffer
func (u *Uniforms) Marshal(layout Layout) []byte {
	buf := make([]byte, u.Size(layout))
	putFloats(buf, u.ModelViewProjection[:])
	if layout != LayoutLit {
		return buf
	}
	putFloats(buf[mat4Size:], u.ModelView[:])
	for col := 0; col < 3; col++ {
		putFloats(buf[mat4Size*2+col*16:], u.Normal[col*3:col*3+3])
	}
	return buf
}

func putFloats(dst []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
