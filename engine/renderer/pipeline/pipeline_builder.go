package pipeline

import (
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a depth pipeline description in NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader supplies the vertex stage.
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader supplies the fragment stage.
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithDepthTestEnabled toggles the depth test. With the test off every fragment passes, so the
// last draw wins instead of the nearest surface.
//
// Parameters:
//   - enabled: false to disable the depth test
//
// Returns:
//   - PipelineBuilderOption: the option
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled toggles depth buffer writes.
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthCompare replaces the default Less comparison.
//
// Parameters:
//   - compare: the comparison function, e.g. wgpu.CompareFunctionLessEqual
//
// Returns:
//   - PipelineBuilderOption: the option
func WithDepthCompare(compare wgpu.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = compare
	}
}

// WithCullMode culls front or back faces. Picks see both sides of a surface by default.
//
// Parameters:
//   - mode: wgpu.CullModeNone, wgpu.CullModeFront or wgpu.CullModeBack
//
// Returns:
//   - PipelineBuilderOption: the option
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace picks which winding counts as front facing for culling.
func WithFrontFace(face wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = face
	}
}

// WithWriteMask limits which color channels draws write. Masking red out leaves only depth.
//
// Parameters:
//   - mask: the channels to write, e.g. wgpu.ColorWriteMaskRed
//
// Returns:
//   - PipelineBuilderOption: the option
func WithWriteMask(mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}

// WithFormats overrides the R32Float color and Depth32Float depth attachment formats.
//
// Parameters:
//   - color: the color attachment format
//   - depth: the depth attachment format
//
// Returns:
//   - PipelineBuilderOption: the option
func WithFormats(color, depth wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = color
		p.depthFormat = depth
	}
}
