package loader

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// missingIndex is what the OBJ decoder stores for an absent normal or texture coordinate.
const missingIndex = math.MaxUint32

type objLoaderBackend struct {
	pool worker.DynamicWorkerPool
}

var _ loaderBackend = &objLoaderBackend{}

func newOBJLoaderBackend(pool worker.DynamicWorkerPool) loaderBackend {
	return &objLoaderBackend{pool: pool}
}

// Decode parses Wavefront OBJ geometry and packs each object on the worker pool. Material
// libraries are ignored.
func (b *objLoaderBackend) Decode(r io.Reader) ([]importedObject, error) {
	dec, err := obj.DecodeReader(r, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("decode obj: %w", err)
	}

	objects := make([]importedObject, len(dec.Objects))
	errs := make([]error, len(dec.Objects))

	var wg sync.WaitGroup
	for i := range dec.Objects {
		wg.Add(1)
		idx := i
		b.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				objects[idx], errs[idx] = packObject(dec, &dec.Objects[idx])
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	result := make([]importedObject, 0, len(objects))
	for i, o := range objects {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if len(o.indices) > 0 {
			result = append(result, o)
		}
	}
	return result, nil
}

// cornerKey identifies a unique vertex within an object. flat is -1 unless the corner has no
// normal, in which case it holds the triangle number so flat normals are not shared.
type cornerKey struct {
	position, normal, uv int
	flat                 int
}

// packObject fan-triangulates an object's faces and de-duplicates corners by their
// position, normal and texture coordinate indices.
func packObject(dec *obj.Decoder, o *obj.Object) (importedObject, error) {
	out := importedObject{name: o.Name}
	seen := make(map[cornerKey]uint32)
	triangle := 0

	for f := range o.Faces {
		face := &o.Faces[f]
		if len(face.Vertices) < 3 {
			return importedObject{}, fmt.Errorf("object %q face %d has %d vertices", o.Name, f, len(face.Vertices))
		}

		for i := 2; i < len(face.Vertices); i++ {
			corners := [3]int{0, i - 1, i}

			var positions [3][3]float32
			for c, fi := range corners {
				p, err := position(dec, face.Vertices[fi])
				if err != nil {
					return importedObject{}, fmt.Errorf("object %q face %d: %w", o.Name, f, err)
				}
				positions[c] = p
			}
			flatNormal := faceNormal(positions)

			for c, fi := range corners {
				key := cornerKey{position: face.Vertices[fi], normal: missingIndex, uv: missingIndex, flat: -1}
				v := importedVertex{position: positions[c]}

				n, ok, err := normal(dec, face, fi)
				if err != nil {
					return importedObject{}, fmt.Errorf("object %q face %d: %w", o.Name, f, err)
				}
				if ok {
					key.normal = face.Normals[fi]
					v.normal = n
				} else {
					key.flat = triangle
					v.normal = flatNormal
				}

				uv, ok, err := texCoord(dec, face, fi)
				if err != nil {
					return importedObject{}, fmt.Errorf("object %q face %d: %w", o.Name, f, err)
				}
				if ok {
					key.uv = face.Uvs[fi]
					v.uv = uv
				}

				index, exists := seen[key]
				if !exists {
					index = uint32(len(out.vertices))
					out.vertices = append(out.vertices, v)
					seen[key] = index
				}
				out.indices = append(out.indices, index)
			}
			triangle++
		}
	}
	return out, nil
}

func position(dec *obj.Decoder, idx int) ([3]float32, error) {
	if idx < 0 || idx*3+2 >= len(dec.Vertices) {
		return [3]float32{}, fmt.Errorf("position index %d out of range", idx)
	}
	return [3]float32{dec.Vertices[idx*3], dec.Vertices[idx*3+1], dec.Vertices[idx*3+2]}, nil
}

func normal(dec *obj.Decoder, face *obj.Face, corner int) ([3]float32, bool, error) {
	if corner >= len(face.Normals) || face.Normals[corner] == missingIndex {
		return [3]float32{}, false, nil
	}
	idx := face.Normals[corner]
	if idx < 0 || idx*3+2 >= len(dec.Normals) {
		return [3]float32{}, false, fmt.Errorf("normal index %d out of range", idx)
	}
	n := mgl32.Vec3{dec.Normals[idx*3], dec.Normals[idx*3+1], dec.Normals[idx*3+2]}
	if n.Len() > 0 {
		n = n.Normalize()
	}
	return n, true, nil
}

// texCoord returns the corner's texture coordinate with v flipped to a top-left origin.
func texCoord(dec *obj.Decoder, face *obj.Face, corner int) ([2]float32, bool, error) {
	if corner >= len(face.Uvs) || face.Uvs[corner] == missingIndex {
		return [2]float32{}, false, nil
	}
	idx := face.Uvs[corner]
	if idx < 0 || idx*2+1 >= len(dec.Uvs) {
		return [2]float32{}, false, fmt.Errorf("texture coordinate index %d out of range", idx)
	}
	return [2]float32{dec.Uvs[idx*2], 1 - dec.Uvs[idx*2+1]}, true, nil
}

// faceNormal is the counter-clockwise unit normal of a triangle, or zero when degenerate.
func faceNormal(p [3][3]float32) [3]float32 {
	a, b, c := mgl32.Vec3(p[0]), mgl32.Vec3(p[1]), mgl32.Vec3(p[2])
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return [3]float32{}
	}
	return n.Normalize()
}
