package loader

import (
	"errors"
	"io"
)

// ErrUnsupportedFormat is returned when no backend handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// VertexLayout selects the packed vertex format a mesh is loaded into.
type VertexLayout int

const (
	// LayoutPositionNormal packs model.NormalVertex (32 bytes).
	LayoutPositionNormal VertexLayout = iota

	// LayoutPositionNormalUV packs model.TexturedVertex (40 bytes).
	LayoutPositionNormalUV
)

// Stride returns the packed vertex size of the layout in bytes.
func (l VertexLayout) Stride() int {
	if l == LayoutPositionNormalUV {
		return 40
	}
	return 32
}

func (l VertexLayout) String() string {
	if l == LayoutPositionNormalUV {
		return "position+normal+uv"
	}
	return "position+normal"
}

// importedVertex is a de-indexed vertex before it is packed into a layout.
type importedVertex struct {
	position [3]float32
	normal   [3]float32
	uv       [2]float32
}

// importedObject is one named object with indices into its own vertex list.
type importedObject struct {
	name     string
	vertices []importedVertex
	indices  []uint32
}

// loaderBackend decodes one model file format into per-object geometry.
type loaderBackend interface {
	// Decode reads a model and returns its non-empty objects in declaration order.
	Decode(r io.Reader) ([]importedObject, error)
}
