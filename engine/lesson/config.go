package lesson

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/transform"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// Geometry selects what a lesson draws.
type Geometry string

const (
	// GeometryNone draws nothing; the frame is only cleared.
	GeometryNone Geometry = "none"
	// GeometryTriangle draws a static 2D triangle with per-vertex colors.
	GeometryTriangle Geometry = "triangle"
	// GeometryCube draws a static indexed cube with per-vertex colors.
	GeometryCube Geometry = "cube"
	// GeometryMesh draws a model loaded from Config.MeshPath.
	GeometryMesh Geometry = "mesh"
)

// Config parameterizes a lesson. Zero camera values select the transform defaults.
type Config struct {
	Name       string    `yaml:"name"`
	Title      string    `yaml:"title"`
	ClearColor []float64 `yaml:"clear_color,omitempty"`
	Geometry   Geometry  `yaml:"geometry"`

	// Shader is the WGSL file name, looked up in the lesson shader file system.
	Shader        string `yaml:"shader,omitempty"`
	VertexEntry   string `yaml:"vertex_entry,omitempty"`
	FragmentEntry string `yaml:"fragment_entry,omitempty"`

	MeshPath    string `yaml:"mesh,omitempty"`
	TexturePath string `yaml:"texture,omitempty"`
	CuePath     string `yaml:"cue,omitempty"`

	Lighting    bool `yaml:"lighting"`
	Pulse       bool `yaml:"pulse"`
	Interactive bool `yaml:"interactive"`
	CullBack    bool `yaml:"cull_back"`

	CameraDistance float32 `yaml:"camera_distance,omitempty"`
	FieldOfView    float32 `yaml:"field_of_view,omitempty"`
	Near           float32 `yaml:"near,omitempty"`
	Far            float32 `yaml:"far,omitempty"`

	// FixedTimestep replaces the measured frame duration when positive.
	FixedTimestep float32 `yaml:"fixed_timestep,omitempty"`
	UniformSlots  int     `yaml:"uniform_slots,omitempty"`
}

// Builtins returns the built-in lessons in presentation order.
//
// Returns:
//   - []Config: a fresh copy of every built-in lesson
func Builtins() []Config {
	return []Config{
		{
			Name:       "clear",
			Title:      "Clearing the Screen",
			ClearColor: []float64{1, 0, 0, 1},
			Geometry:   GeometryNone,
		},
		{
			Name:          "triangle",
			Title:         "Drawing in 2D",
			ClearColor:    []float64{0.1, 0.1, 0.1, 1},
			Geometry:      GeometryTriangle,
			Shader:        "color.wgsl",
			VertexEntry:   "vertex_main",
			FragmentEntry: "fragment_main",
		},
		{
			Name:           "cube",
			Title:          "Drawing in 3D",
			ClearColor:     []float64{0.85, 0.85, 0.85, 1},
			Geometry:       GeometryCube,
			Shader:         "project.wgsl",
			VertexEntry:    "vertex_project",
			FragmentEntry:  "fragment_flatColor",
			Pulse:          true,
			CullBack:       true,
			CameraDistance: 5,
			Near:           1,
			Far:            100,
		},
		{
			Name:           "lighting",
			Title:          "Lighting",
			ClearColor:     []float64{0.85, 0.85, 0.85, 1},
			Geometry:       GeometryMesh,
			Shader:         "light.wgsl",
			VertexEntry:    "vertex_project",
			FragmentEntry:  "fragment_light",
			MeshPath:       "assets/models/teapot.obj",
			Lighting:       true,
			CameraDistance: 1.5,
			Near:           0.1,
			Far:            100,
			FixedTimestep:  0.02,
		},
		{
			Name:           "texturing",
			Title:          "Texturing",
			ClearColor:     []float64{0.85, 0.85, 0.85, 1},
			Geometry:       GeometryMesh,
			Shader:         "texture.wgsl",
			VertexEntry:    "vertex_project",
			FragmentEntry:  "fragment_texture",
			MeshPath:       "assets/models/spot.obj",
			TexturePath:    "assets/textures/spot.png",
			CuePath:        "assets/sounds/moo.wav",
			Lighting:       true,
			Interactive:    true,
			CullBack:       true,
			CameraDistance: 1.5,
			Near:           0.1,
			Far:            100,
			FixedTimestep:  1.0 / 60,
		},
	}
}

// Lookup finds a lesson by name.
//
// Parameters:
//   - configs: the lessons to search
//   - name: the lesson name
//
// Returns:
//   - Config: the lesson
//   - bool: false if no lesson has that name
func Lookup(configs []Config, name string) (Config, bool) {
	if i := indexOf(configs, name); i >= 0 {
		return configs[i], true
	}
	return Config{}, false
}

// LoadConfigs reads a YAML file of lessons and merges it over the built-ins.
// See ParseConfigs for the file format.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - []Config: the built-ins with overrides applied, followed by any new lessons
//   - error: error if the file cannot be read or a lesson is invalid
func LoadConfigs(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lesson config: %w", err)
	}
	configs, err := ParseConfigs(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return configs, nil
}

// ParseConfigs merges YAML lesson definitions over the built-ins. The document holds a
// top-level "lessons" list. An entry whose name matches a built-in overrides only the fields
// it sets; any other name adds a lesson.
//
//	lessons:
//	  - name: cube
//	    pulse: false
//	  - name: bunny
//	    geometry: mesh
//	    mesh: assets/models/bunny.obj
//	    shader: light.wgsl
//	    lighting: true
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - []Config: the merged lessons
//   - error: error if the document cannot be parsed or a lesson is invalid
func ParseConfigs(data []byte) ([]Config, error) {
	var doc struct {
		Lessons []yaml.Node `yaml:"lessons"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lessons: %w", err)
	}

	configs := Builtins()
	for i := range doc.Lessons {
		node := &doc.Lessons[i]

		var id struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&id); err != nil {
			return nil, fmt.Errorf("lesson %d: %w", i, err)
		}
		if id.Name == "" {
			return nil, fmt.Errorf("lesson %d: missing name", i)
		}

		idx := indexOf(configs, id.Name)
		if idx < 0 {
			configs = append(configs, Config{Geometry: GeometryNone})
			idx = len(configs) - 1
		}
		if err := node.Decode(&configs[idx]); err != nil {
			return nil, fmt.Errorf("lesson %s: %w", id.Name, err)
		}
		if err := configs[idx].Validate(); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// Validate reports the first inconsistency in the lesson.
//
// Returns:
//   - error: nil if the lesson can be built
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("lesson has no name")
	}
	switch c.Geometry {
	case GeometryNone, GeometryTriangle, GeometryCube, GeometryMesh:
	default:
		return fmt.Errorf("lesson %s: unknown geometry %q", c.Name, c.Geometry)
	}
	if c.Geometry != GeometryNone && c.Shader == "" {
		return fmt.Errorf("lesson %s: geometry %s needs a shader", c.Name, c.Geometry)
	}
	if c.Geometry == GeometryMesh && c.MeshPath == "" {
		return fmt.Errorf("lesson %s: mesh geometry needs a mesh path", c.Name)
	}
	if c.TexturePath != "" && c.Geometry != GeometryMesh {
		return fmt.Errorf("lesson %s: textures need mesh geometry", c.Name)
	}
	if n := len(c.ClearColor); n != 0 && n != 3 && n != 4 {
		return fmt.Errorf("lesson %s: clear color needs 3 or 4 components, got %d", c.Name, n)
	}
	near := c.Near
	if near == 0 {
		near = transform.DefaultNear
	}
	if c.Near < 0 || (c.Far != 0 && c.Far <= near) {
		return fmt.Errorf("lesson %s: bad depth range [%g, %g]", c.Name, c.Near, c.Far)
	}
	if c.FixedTimestep < 0 {
		return fmt.Errorf("lesson %s: negative fixed timestep", c.Name)
	}
	if c.UniformSlots < 0 {
		return fmt.Errorf("lesson %s: negative uniform slot count", c.Name)
	}
	return nil
}

// Clear returns the clear color, falling back to the renderer default.
func (c Config) Clear() wgpu.Color {
	switch len(c.ClearColor) {
	case 3:
		return wgpu.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: 1}
	case 4:
		return wgpu.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
	default:
		return renderer.DefaultClearColor
	}
}

// NeedsDepth reports whether the lesson draws 3D geometry that needs a depth attachment.
func (c Config) NeedsDepth() bool {
	return c.Geometry == GeometryCube || c.Geometry == GeometryMesh
}

// UsesUniforms reports whether the lesson uploads a transform uniform record each frame.
func (c Config) UsesUniforms() bool {
	return c.NeedsDepth()
}

// Textured reports whether the lesson binds a diffuse texture.
func (c Config) Textured() bool {
	return c.TexturePath != ""
}

// UniformLayout returns the uniform record layout the lesson's shader expects.
func (c Config) UniformLayout() transform.Layout {
	if c.Lighting || c.Textured() {
		return transform.LayoutLit
	}
	return transform.LayoutMVP
}

// VertexLayout returns the layout loaded meshes are packed into.
func (c Config) VertexLayout() loader.VertexLayout {
	if c.Textured() {
		return loader.LayoutPositionNormalUV
	}
	return loader.LayoutPositionNormal
}

func (c Config) updaterOptions() []transform.UpdaterBuilderOption {
	opts := []transform.UpdaterBuilderOption{
		transform.WithPulse(c.Pulse),
		transform.WithAutoRotate(!c.Interactive),
	}
	if c.CameraDistance != 0 {
		opts = append(opts, transform.WithCameraDistance(c.CameraDistance))
	}
	if c.FieldOfView != 0 {
		opts = append(opts, transform.WithFieldOfView(c.FieldOfView))
	}
	if c.Near != 0 || c.Far != 0 {
		near := c.Near
		if near == 0 {
			near = transform.DefaultNear
		}
		far := c.Far
		if far == 0 {
			far = math32.Max(transform.DefaultFar, near*2)
		}
		opts = append(opts, transform.WithDepthRange(near, far))
	}
	return opts
}

func indexOf(configs []Config, name string) int {
	for i := range configs {
		if configs[i].Name == name {
			return i
		}
	}
	return -1
}
