package model

import "github.com/cogentcore/webgpu/wgpu"

// MeshBuilderOption is a functional option applied to a mesh during construction via NewMesh.
type MeshBuilderOption func(*mesh)

// WithSubmesh appends a submesh with the given triangle-list indices.
//
// Parameters:
//   - name: the submesh name
//   - indices: triangle-list indices into the mesh vertices
//
// Returns:
//   - MeshBuilderOption: a function that appends the submesh to a mesh
func WithSubmesh(name string, indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.submeshes = append(m.submeshes, &Submesh{Name: name, Indices: indices})
	}
}

// WithSubmeshes appends already built submeshes.
func WithSubmeshes(submeshes ...*Submesh) MeshBuilderOption {
	return func(m *mesh) {
		m.submeshes = append(m.submeshes, submeshes...)
	}
}

// WithIndexFormat selects the format indices are packed in for upload.
//
// Parameters:
//   - format: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32
//
// Returns:
//   - MeshBuilderOption: a function that applies the index format to a mesh
func WithIndexFormat(format wgpu.IndexFormat) MeshBuilderOption {
	return func(m *mesh) {
		m.indexFormat = format
	}
}
