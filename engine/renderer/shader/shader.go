package shader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrEntryPointNotFound is returned when the requested entry point is not declared with the
// stage attribute matching the shader type.
var ErrEntryPointNotFound = errors.New("entry point not found")

// ShaderType identifies the pipeline stage a shader is bound to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayout               *wgpu.VertexBufferLayout
}

// Shader is a WGSL module bound to one named entry point, together with the resource
// layouts reflected from its source.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage this shader is bound to.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vertex_project")
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not declared
	BindGroupVarName(group, binding int) string

	// VertexLayout returns the vertex buffer layout of the entry point's input struct.
	// Fragment shaders and vertex shaders without a struct input return nil.
	//
	// Returns:
	//   - *wgpu.VertexBufferLayout: the layout for vertex buffer slot 0
	VertexLayout() *wgpu.VertexBufferLayout

	// Module returns a shader module descriptor for this shader's source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader parses WGSL source and binds the shader to an entry point of the given stage.
// Without WithEntryPoint the first entry point declared for the stage is used.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is bound to
//   - source: the WGSL source code
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the parsed shader
//   - error: ErrEntryPointNotFound if the entry point is missing for the stage
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
	}
	for _, opt := range options {
		opt(s)
	}

	cleaned := stripComments(source)
	entries := parseEntryPoints(cleaned, shaderType)
	if s.entryPoint == "" {
		if len(entries) == 0 {
			return nil, fmt.Errorf("shader %s: no %s entry point: %w", key, shaderType, ErrEntryPointNotFound)
		}
		s.entryPoint = entries[0]
	} else if !contains(entries, s.entryPoint) {
		return nil, fmt.Errorf("shader %s: %s entry point %q: %w", key, shaderType, s.entryPoint, ErrEntryPointNotFound)
	}

	visibility := wgpu.ShaderStageVertex
	if shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(cleaned, visibility)

	if shaderType == ShaderTypeVertex {
		s.vertexLayout = parseVertexLayout(cleaned, s.entryPoint)
	}
	return s, nil
}

// NewShaderFromFS reads WGSL source from a file system and parses it with NewShader.
//
// Parameters:
//   - fsys: the file system holding the source, typically an embed.FS
//   - path: the path of the source within fsys
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader is bound to
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the file cannot be read or the entry point is missing
func NewShaderFromFS(fsys fs.FS, path, key string, shaderType ShaderType, options ...ShaderBuilderOption) (Shader, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayout() *wgpu.VertexBufferLayout {
	return s.vertexLayout
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
