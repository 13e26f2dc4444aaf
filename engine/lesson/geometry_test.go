package lesson

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeFacesWindOutward(t *testing.T) {
	require.Len(t, cubeIndices, 36)
	for i := 0; i < len(cubeIndices); i += 3 {
		a := cubeVertices[cubeIndices[i]].Position.Vec3()
		b := cubeVertices[cubeIndices[i+1]].Position.Vec3()
		c := cubeVertices[cubeIndices[i+2]].Position.Vec3()
		normal := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Positive(t, normal.Dot(center), "triangle %d", i/3)
	}
}

func TestStaticMeshes(t *testing.T) {
	tri, err := triangleMesh()
	require.NoError(t, err)
	assert.Equal(t, 3, tri.VertexCount())
	assert.Empty(t, tri.Submeshes())

	cube, err := cubeMesh()
	require.NoError(t, err)
	assert.Equal(t, 8, cube.VertexCount())
	assert.Equal(t, 32, cube.Stride())
	assert.Equal(t, wgpu.IndexFormatUint16, cube.IndexFormat())
	require.Len(t, cube.Submeshes(), 1)
	assert.Len(t, cube.IndexData(cube.Submeshes()[0]), 72)
}

func TestTriangleIsCounterClockwise(t *testing.T) {
	a := triangleVertices[0].Position.Vec2()
	b := triangleVertices[1].Position.Vec2()
	c := triangleVertices[2].Position.Vec2()
	ab, ac := b.Sub(a), c.Sub(a)
	assert.Positive(t, ab.X()*ac.Y()-ab.Y()*ac.X())
}
