package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// AxisX is the unit vector along +X.
	AxisX = mgl32.Vec3{1, 0, 0}
	// AxisY is the unit vector along +Y.
	AxisY = mgl32.Vec3{0, 1, 0}
	// AxisZ is the unit vector along +Z.
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Rotation builds a 4x4 rotation matrix about an arbitrary axis using Rodrigues' formula:
//
//	R = cos(a)·I + sin(a)·[k]x + (1 - cos(a))·k·kᵀ
//
// The axis is normalized before use. Positive angles rotate counter-clockwise when looking
// down the axis towards the origin. A zero-length axis yields the identity.
//
// Parameters:
//   - axis: the axis of rotation
//   - angle: the rotation angle in radians
//
// Returns:
//   - mgl32.Mat4: the column-major rotation matrix
func Rotation(axis mgl32.Vec3, angle float32) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	k := axis.Normalize()
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	t := 1 - c

	// cross-product matrix [k]x, row-major for readability
	cross := [3][3]float32{
		{0, -k[2], k[1]},
		{k[2], 0, -k[0]},
		{-k[1], k[0], 0},
	}

	m := mgl32.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			v := t*k[row]*k[col] + s*cross[row][col]
			if row == col {
				v += c
			}
			m.Set(row, col, v)
		}
	}
	return m
}

// Translation builds a pure translation matrix.
//
// Parameters:
//   - v: the translation offset
//
// Returns:
//   - mgl32.Mat4: the column-major translation matrix
func Translation(v mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Ident4()
	m[12], m[13], m[14] = v[0], v[1], v[2]
	return m
}

// UniformScale builds a matrix scaling all three axes by s.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - mgl32.Mat4: the column-major scale matrix
func UniformScale(s float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	m[0], m[5], m[10] = s, s, s
	return m
}

// Perspective creates a right-handed perspective projection matrix with the z row mapping
// view depth into [-w, w] clip space. WebGPU clips z < 0 rather than z < -w, so geometry
// is visible only from depth 2·far·near/(far+near), about 2·near when far >> near:
//
//	yScale  = 1 / tan(fovY/2)
//	xScale  = yScale / aspect
//	zScale  = -(far + near) / (far - near)
//	wzScale = -2·far·near / (far - near)
//
// Parameters:
//   - aspect: viewport aspect ratio (width/height), must be > 0
//   - fovY: vertical field of view in radians
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(aspect, fovY, near, far float32) mgl32.Mat4 {
	yScale := 1 / math32.Tan(fovY*0.5)
	xScale := yScale / aspect
	zRange := far - near
	zScale := -(far + near) / zRange
	wzScale := -2 * far * near / zRange

	return mgl32.Mat4{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, zScale, -1,
		0, 0, wzScale, 0,
	}
}

// ExtractLinear returns the upper-left 3x3 block of m, discarding translation and the
// projective row.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - mgl32.Mat3: the linear part of m
func ExtractLinear(m mgl32.Mat4) mgl32.Mat3 {
	return mgl32.Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}
