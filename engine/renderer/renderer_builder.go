package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithDepthPipeline replaces the default depth pipeline description, e.g. to enable culling.
//
// Parameters:
//   - p: the pipeline description to register; see NewDepthPipeline
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithDepthPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.depthPipeline = p
	}
}

// WithBackend supplies a ready-made backend instead of constructing one for the backend type.
//
// Parameters:
//   - b: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithDeviceLabel sets the label of the WebGPU device requested by the WGPU backend.
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - RendererBuilderOption: a function that applies the label option to a renderer
func WithDeviceLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		r.deviceLabel = label
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). It has no effect on BackendTypeSoftware.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
