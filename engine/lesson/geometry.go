package lesson

import (
	"github.com/Carmen-Shannon/oxy-lessons/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// triangleVertices are already in clip space.
var triangleVertices = []model.ColorVertex{
	{Position: mgl32.Vec4{0, 0.5, 0, 1}, Color: mgl32.Vec4{1, 0, 0, 1}},
	{Position: mgl32.Vec4{-0.5, -0.5, 0, 1}, Color: mgl32.Vec4{0, 1, 0, 1}},
	{Position: mgl32.Vec4{0.5, -0.5, 0, 1}, Color: mgl32.Vec4{0, 0, 1, 1}},
}

// cubeVertices are the corners of a 2-unit cube, colored by position.
var cubeVertices = []model.ColorVertex{
	{Position: mgl32.Vec4{-1, 1, 1, 1}, Color: mgl32.Vec4{0, 1, 1, 1}},
	{Position: mgl32.Vec4{-1, -1, 1, 1}, Color: mgl32.Vec4{0, 0, 1, 1}},
	{Position: mgl32.Vec4{1, -1, 1, 1}, Color: mgl32.Vec4{1, 0, 1, 1}},
	{Position: mgl32.Vec4{1, 1, 1, 1}, Color: mgl32.Vec4{1, 1, 1, 1}},
	{Position: mgl32.Vec4{-1, 1, -1, 1}, Color: mgl32.Vec4{0, 1, 0, 1}},
	{Position: mgl32.Vec4{-1, -1, -1, 1}, Color: mgl32.Vec4{0, 0, 0, 1}},
	{Position: mgl32.Vec4{1, -1, -1, 1}, Color: mgl32.Vec4{1, 0, 0, 1}},
	{Position: mgl32.Vec4{1, 1, -1, 1}, Color: mgl32.Vec4{1, 1, 0, 1}},
}

// cubeIndices wind every face counter-clockwise seen from outside.
var cubeIndices = []uint32{
	3, 2, 6, 6, 7, 3,
	4, 5, 1, 1, 0, 4,
	4, 0, 3, 3, 7, 4,
	1, 5, 6, 6, 2, 1,
	0, 1, 2, 2, 3, 0,
	7, 6, 5, 5, 4, 7,
}

func triangleMesh() (model.Mesh, error) {
	return model.NewMesh("triangle", model.MarshalVertices(triangleVertices), model.ColorVertex{}.Size())
}

func cubeMesh() (model.Mesh, error) {
	return model.NewMesh("cube", model.MarshalVertices(cubeVertices), model.ColorVertex{}.Size(),
		model.WithSubmesh("cube", cubeIndices),
		model.WithIndexFormat(wgpu.IndexFormatUint16),
	)
}
