package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option applied to a provider during construction via NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexFormat sets the index element format expected by InitIndexBuffer.
//
// Parameters:
//   - format: wgpu.IndexFormatUint16 or wgpu.IndexFormatUint32
//
// Returns:
//   - BindGroupProviderOption: a function that applies the format to a provider
func WithIndexFormat(format wgpu.IndexFormat) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexFormat = format
	}
}
