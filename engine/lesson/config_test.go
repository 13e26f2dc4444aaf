package lesson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsAreValid(t *testing.T) {
	configs := Builtins()
	names := make([]string, 0, len(configs))
	for _, c := range configs {
		assert.NoError(t, c.Validate(), c.Name)
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"clear", "triangle", "cube", "lighting", "texturing"}, names)
}

func TestBuiltinDerivedSettings(t *testing.T) {
	tests := []struct {
		name     string
		depth    bool
		uniforms bool
		layout   transform.Layout
		vertex   loader.VertexLayout
	}{
		{"clear", false, false, transform.LayoutMVP, loader.LayoutPositionNormal},
		{"triangle", false, false, transform.LayoutMVP, loader.LayoutPositionNormal},
		{"cube", true, true, transform.LayoutMVP, loader.LayoutPositionNormal},
		{"lighting", true, true, transform.LayoutLit, loader.LayoutPositionNormal},
		{"texturing", true, true, transform.LayoutLit, loader.LayoutPositionNormalUV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := Lookup(Builtins(), tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.depth, cfg.NeedsDepth())
			assert.Equal(t, tt.uniforms, cfg.UsesUniforms())
			assert.Equal(t, tt.layout, cfg.UniformLayout())
			assert.Equal(t, tt.vertex, cfg.VertexLayout())
		})
	}
}

func TestClearColor(t *testing.T) {
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, Config{ClearColor: []float64{0.2, 0.3, 0.4}}.Clear())
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 0.5}, Config{ClearColor: []float64{0.2, 0.3, 0.4, 0.5}}.Clear())
	assert.Equal(t, renderer.DefaultClearColor, Config{}.Clear())
}

func TestParseConfigsOverridesByName(t *testing.T) {
	configs, err := ParseConfigs([]byte(`
lessons:
  - name: cube
    pulse: false
    clear_color: [0, 0, 0]
  - name: bunny
    title: Bunny
    geometry: mesh
    shader: light.wgsl
    mesh: assets/models/bunny.obj
    lighting: true
    camera_distance: 3
`))
	require.NoError(t, err)
	require.Len(t, configs, 6)

	cube, ok := Lookup(configs, "cube")
	require.True(t, ok)
	assert.False(t, cube.Pulse)
	assert.Equal(t, []float64{0, 0, 0}, cube.ClearColor)
	assert.True(t, cube.CullBack)
	assert.Equal(t, "project.wgsl", cube.Shader)
	assert.Equal(t, "fragment_flatColor", cube.FragmentEntry)
	assert.Equal(t, float32(5), cube.CameraDistance)

	bunny, ok := Lookup(configs, "bunny")
	require.True(t, ok)
	assert.Equal(t, GeometryMesh, bunny.Geometry)
	assert.Equal(t, "assets/models/bunny.obj", bunny.MeshPath)
	assert.Equal(t, float32(3), bunny.CameraDistance)
	assert.Equal(t, transform.LayoutLit, bunny.UniformLayout())

	builtinCube, _ := Lookup(Builtins(), "cube")
	assert.True(t, builtinCube.Pulse)
}

func TestParseConfigsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", "lessons:\n  - geometry: cube\n"},
		{"unknown geometry", "lessons:\n  - name: x\n    geometry: sphere\n"},
		{"mesh without path", "lessons:\n  - name: x\n    geometry: mesh\n    shader: light.wgsl\n"},
		{"geometry without shader", "lessons:\n  - name: x\n    geometry: triangle\n"},
		{"texture without mesh", "lessons:\n  - name: cube\n    texture: a.png\n"},
		{"far inside default near", "lessons:\n  - name: x\n    geometry: cube\n    shader: project.wgsl\n    far: 0.5\n"},
		{"bad clear color", "lessons:\n  - name: clear\n    clear_color: [1, 0]\n"},
		{"bad depth range", "lessons:\n  - name: cube\n    near: 10\n    far: 1\n"},
		{"not yaml", "lessons: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigs([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lessons:\n  - name: lighting\n    fixed_timestep: 0.01\n"), 0o644))

	configs, err := LoadConfigs(path)
	require.NoError(t, err)
	lighting, ok := Lookup(configs, "lighting")
	require.True(t, ok)
	assert.Equal(t, float32(0.01), lighting.FixedTimestep)
	assert.Equal(t, "assets/models/teapot.obj", lighting.MeshPath)

	_, err = LoadConfigs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestUpdaterOptionsApplyCamera(t *testing.T) {
	cfg, _ := Lookup(Builtins(), "lighting")
	u := transform.NewUpdater(cfg.updaterOptions()...)

	assert.Equal(t, common.Translation(mgl32.Vec3{0, 0, -1.5}), u.View())
	assert.Equal(t, common.Perspective(1, transform.DefaultFieldOfView, 0.1, 100), u.Projection(1))

	interactive, _ := Lookup(Builtins(), "texturing")
	u = transform.NewUpdater(interactive.updaterOptions()...)
	u.Advance(1)
	x, y := u.Rotation()
	assert.Zero(t, x)
	assert.Zero(t, y)
}
