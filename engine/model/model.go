package model

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Submesh is a range of triangles sharing its mesh's vertex buffer, one per OBJ object or group.
type Submesh struct {
	// Name is the object or group name.
	Name string

	// Indices are triangle-list indices into the mesh vertices.
	Indices []uint32

	// Provider holds the index buffer once uploaded.
	Provider bind_group_provider.BindGroupProvider
}

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name         string
	vertexData   []byte
	vertexCount  int
	stride       int
	submeshes    []*Submesh
	indexFormat  wgpu.IndexFormat
	meshProvider bind_group_provider.BindGroupProvider
}

// Mesh is CPU-side geometry: packed vertex bytes and the submeshes indexing into them.
// A mesh without submeshes is drawn non-indexed over all of its vertices.
//
// GPU buffers are created by the renderer and stored on MeshProvider and each
// Submesh.Provider.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// VertexData returns the packed vertex bytes.
	VertexData() []byte

	// VertexCount returns the number of packed vertices.
	VertexCount() int

	// Stride returns the size of one packed vertex in bytes.
	Stride() int

	// Submeshes returns the submeshes in declaration order.
	Submeshes() []*Submesh

	// IndexCount returns the total number of indices across all submeshes.
	IndexCount() int

	// IndexFormat returns the format submesh indices are packed in for upload.
	//
	// Returns:
	//   - wgpu.IndexFormat: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32
	IndexFormat() wgpu.IndexFormat

	// IndexData packs a submesh's indices in the mesh index format.
	//
	// Parameters:
	//   - s: a submesh of this mesh
	//
	// Returns:
	//   - []byte: the packed indices
	IndexData(s *Submesh) []byte

	// MeshProvider retrieves the provider holding the vertex buffer, or nil before upload.
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider stores the provider holding the vertex buffer.
	//
	// Parameters:
	//   - provider: the provider the vertex buffer was created on
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from packed vertices. The index format defaults to Uint32.
//
// Parameters:
//   - name: the mesh name
//   - vertexData: packed vertices, a multiple of stride bytes
//   - stride: the size of one vertex in bytes
//   - options: variadic list of MeshBuilderOption functions
//
// Returns:
//   - Mesh: the mesh
//   - error: an error if the data is not a whole number of vertices, an index is out of range,
//     or Uint16 was requested for indices that do not fit
func NewMesh(name string, vertexData []byte, stride int, options ...MeshBuilderOption) (Mesh, error) {
	if stride <= 0 || len(vertexData)%stride != 0 {
		return nil, fmt.Errorf("mesh %s: %d bytes is not a multiple of stride %d", name, len(vertexData), stride)
	}

	m := &mesh{
		name:        name,
		vertexData:  vertexData,
		vertexCount: len(vertexData) / stride,
		stride:      stride,
		indexFormat: wgpu.IndexFormatUint32,
	}
	for _, opt := range options {
		opt(m)
	}

	for _, s := range m.submeshes {
		if len(s.Indices)%3 != 0 {
			return nil, fmt.Errorf("mesh %s: submesh %s has %d indices, not a triangle list", name, s.Name, len(s.Indices))
		}
		for _, idx := range s.Indices {
			if int(idx) >= m.vertexCount {
				return nil, fmt.Errorf("mesh %s: submesh %s index %d out of range (%d vertices)", name, s.Name, idx, m.vertexCount)
			}
		}
	}
	if m.indexFormat == wgpu.IndexFormatUint16 && m.vertexCount > math.MaxUint16+1 {
		return nil, fmt.Errorf("mesh %s: %d vertices do not fit 16-bit indices", name, m.vertexCount)
	}
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) Stride() int {
	return m.stride
}

func (m *mesh) Submeshes() []*Submesh {
	return m.submeshes
}

func (m *mesh) IndexCount() int {
	n := 0
	for _, s := range m.submeshes {
		n += len(s.Indices)
	}
	return n
}

func (m *mesh) IndexFormat() wgpu.IndexFormat {
	return m.indexFormat
}

func (m *mesh) IndexData(s *Submesh) []byte {
	if m.indexFormat == wgpu.IndexFormatUint16 {
		return MarshalIndices16(s.Indices)
	}
	return MarshalIndices32(s.Indices)
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *mesh) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}
