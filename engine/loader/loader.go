package loader

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-lessons/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// LoaderBackendType identifies a model file format.
type LoaderBackendType int

const (
	// BackendTypeOBJ decodes Wavefront OBJ files.
	BackendTypeOBJ LoaderBackendType = iota
)

// backendExtensions maps lower-case file extensions to the backend that decodes them.
var backendExtensions = map[string]LoaderBackendType{
	".obj": BackendTypeOBJ,
}

type cacheKey struct {
	name   string
	layout VertexLayout
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[cacheKey]model.Mesh
	backends  map[LoaderBackendType]loaderBackend
	pool      worker.DynamicWorkerPool
	workers   int
}

// Loader reads model files into packed meshes and caches them by path and vertex layout.
type Loader interface {
	// Load reads a model file, choosing the backend from its extension. Meshes are cached, so
	// loading the same path and layout again returns the same Mesh.
	//
	// Parameters:
	//   - path: the model file path
	//   - layout: the vertex layout to pack into
	//
	// Returns:
	//   - model.Mesh: the mesh with one submesh per object
	//   - error: ErrUnsupportedFormat for unknown extensions, or a read or decode error
	Load(path string, layout VertexLayout) (model.Mesh, error)

	// LoadReader decodes a model from a reader and caches it under name. The format comes
	// from name's extension.
	//
	// Parameters:
	//   - name: the cache key and format hint, e.g. "teapot.obj"
	//   - r: the model source
	//   - layout: the vertex layout to pack into
	//
	// Returns:
	//   - model.Mesh: the mesh with one submesh per object
	//   - error: ErrUnsupportedFormat for unknown extensions, or a decode error
	LoadReader(name string, r io.Reader, layout VertexLayout) (model.Mesh, error)

	// Get returns a cached mesh, or nil.
	Get(name string, layout VertexLayout) model.Mesh
}

var _ Loader = &loader{}

// NewLoader creates a Loader with every known backend.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[cacheKey]model.Mesh),
		workers:   4,
	}
	for _, option := range options {
		option(l)
	}

	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	}
	l.backends = map[LoaderBackendType]loaderBackend{
		BackendTypeOBJ: newOBJLoaderBackend(l.pool),
	}
	return l
}

func (l *loader) Load(path string, layout VertexLayout) (model.Mesh, error) {
	if m := l.Get(path, layout); m != nil {
		return m, nil
	}
	if _, err := l.resolveBackend(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer f.Close()

	return l.LoadReader(path, f, layout)
}

func (l *loader) LoadReader(name string, r io.Reader, layout VertexLayout) (model.Mesh, error) {
	if m := l.Get(name, layout); m != nil {
		return m, nil
	}

	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	objects, err := backend.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	m, err := buildMesh(filepath.Base(name), objects, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	log.Printf("loader: %s: %d vertices, %d indices in %d submeshes (%s)", name, m.VertexCount(), m.IndexCount(), len(m.Submeshes()), time.Since(start).Round(time.Millisecond))

	l.mu.Lock()
	if cached, ok := l.meshCache[cacheKey{name, layout}]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.meshCache[cacheKey{name, layout}] = m
	l.mu.Unlock()
	return m, nil
}

func (l *loader) Get(name string, layout VertexLayout) model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[cacheKey{name, layout}]
}

func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	backendType, ok := backendExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	return l.backends[backendType], nil
}

// buildMesh concatenates the objects' vertices into one buffer packed in the layout and
// rebases each object's indices into a submesh.
func buildMesh(name string, objects []importedObject, layout VertexLayout) (model.Mesh, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("%s contains no faces", name)
	}

	total := 0
	for _, o := range objects {
		total += len(o.vertices)
	}
	data := make([]byte, 0, total*layout.Stride())
	submeshes := make([]*model.Submesh, 0, len(objects))

	base := uint32(0)
	for _, o := range objects {
		for _, v := range o.vertices {
			data = append(data, packVertex(v, layout)...)
		}
		indices := make([]uint32, len(o.indices))
		for i, idx := range o.indices {
			indices[i] = base + idx
		}
		submeshes = append(submeshes, &model.Submesh{Name: o.name, Indices: indices})
		base += uint32(len(o.vertices))
	}

	return model.NewMesh(name, data, layout.Stride(), model.WithSubmeshes(submeshes...))
}

func packVertex(v importedVertex, layout VertexLayout) []byte {
	position := mgl32.Vec3(v.position).Vec4(1)
	normal := mgl32.Vec3(v.normal).Vec4(0)
	if layout == LayoutPositionNormalUV {
		return model.TexturedVertex{Position: position, Normal: normal, TexCoord: mgl32.Vec2(v.uv)}.Marshal()
	}
	return model.NormalVertex{Position: position, Normal: normal}.Marshal()
}
