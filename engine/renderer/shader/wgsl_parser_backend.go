package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and matrix types to their byte size and
// alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = map[string]wgslTypeLayout{
	"f32": {4, 4},
	"i32": {4, 4},
	"u32": {4, 4},

	"vec2f": {8, 8}, "vec2<f32>": {8, 8},
	"vec3f": {12, 16}, "vec3<f32>": {12, 16},
	"vec4f": {16, 16}, "vec4<f32>": {16, 16},
	"vec2u": {8, 8}, "vec4u": {16, 16},
	"vec2i": {8, 8}, "vec4i": {16, 16},

	// matCxR: C columns of vecR, each column padded to the vecR alignment
	"mat2x2f": {16, 8}, "mat2x2<f32>": {16, 8},
	"mat3x3f": {48, 16}, "mat3x3<f32>": {48, 16},
	"mat4x4f": {64, 16}, "mat4x4<f32>": {64, 16},
}

// roundUpAlign rounds value up to the next multiple of a power-of-two alignment.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a type name against primitives, already computed structs and
// fixed-size arrays of either.
//
// Parameters:
//   - typeName: the WGSL type name, e.g. "mat4x4f", "Uniforms", "array<vec4f, 4>"
//   - knownTypes: layouts of structs resolved so far
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false for runtime-sized arrays or unknown types
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	base, params := splitTypeParams(typeName)
	if base != "array" {
		return wgslTypeLayout{}, false
	}
	elemType, countStr, ok := strings.Cut(params, ",")
	if !ok {
		return wgslTypeLayout{}, false
	}
	elem, ok := resolveTypeLayout(strings.TrimSpace(elemType), knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{count * roundUpAlign(elem.align, elem.size), elem.align}, true
}

// computeStructSizes resolves the layout of every struct whose members are all resolvable.
// Structs are resolved repeatedly until no progress is made so declaration order does not matter.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	known := make(map[string]wgslTypeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, ps := range structs {
			if _, done := known[ps.name]; done {
				continue
			}
			if layout, ok := computeStructLayout(ps, known); ok {
				known[ps.name] = layout
				progress = true
			}
		}
	}
	return known
}

// computeStructLayout places each member at the next offset aligned to its type and rounds the
// total size up to the struct alignment, the largest member alignment.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	var offset, align uint64
	for _, f := range ps.fields {
		layout, ok := resolveTypeLayout(f.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		align = max(align, layout.align)
	}
	if align == 0 {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{roundUpAlign(align, offset), align}, true
}

// classifyResource builds a bind group layout entry for a declared resource from its address
// space (buffers) or its type name (textures and samplers).
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier, empty for handle types
//   - typeName: the WGSL type string (e.g. "Uniforms", "texture_2d<f32>", "sampler")
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: a populated layout entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(typeName, "texture_"):
		base, param := splitTypeParams(typeName)
		entry.Texture.ViewDimension = wgslTextureDimensionMap[base]
		entry.Texture.SampleType = wgslSampleTypeMap[param]
	}
	return entry
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32"). Types without
// parameters return an empty params string.
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes line comments and (possibly nested) block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// isVertexInputStruct reports whether a struct has at least one @location member and no
// @builtin members, which separates vertex inputs from vertex outputs.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// buildVertexBufferLayout packs @location fields tightly in declaration order.
//
// Parameters:
//   - fields: the vertex input fields
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with ArrayStride equal to the packed size
//   - bool: false if a field type has no vertex format
func buildVertexBufferLayout(fields []parsedField) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(fields))
	var offset uint64

	for _, f := range fields {
		if f.location < 0 {
			continue
		}
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitAtTopLevelCommas splits at commas that are not nested inside angle brackets or parentheses,
// so array<T, N> and @builtin(...) stay intact.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
