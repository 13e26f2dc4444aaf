package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoDrawable is returned by BeginFrame when the surface has no texture to render into,
	// e.g. while the window is minimized or the surface is outdated.
	ErrNoDrawable = errors.New("no drawable available")

	// ErrNoCommandBuffer is returned by BeginFrame when a command encoder cannot be created.
	ErrNoCommandBuffer = errors.New("no command buffer available")

	// ErrNoFrame is returned by Draw when no frame was started with BeginFrame.
	ErrNoFrame = errors.New("no frame in progress")
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// DefaultClearColor is the clear color used when none is configured.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

// SamplerStagingData describes a sampler to create with InitSampler. Zero-valued fields fall
// back to repeat addressing, linear filtering, an LOD range of [0, 32] and no anisotropy.
type SamplerStagingData struct {
	AddressModeU  wgpu.AddressMode
	AddressModeV  wgpu.AddressMode
	AddressModeW  wgpu.AddressMode
	MagFilter     wgpu.FilterMode
	MinFilter     wgpu.FilterMode
	MipmapFilter  wgpu.MipmapFilterMode
	LodMinClamp   float32
	LodMaxClamp   float32
	MaxAnisotropy uint16
	Compare       wgpu.CompareFunction
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
