package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

const stageSource = `
@vertex
fn vs_main(@location(0) p: vec3<f32>) -> @builtin(position) vec4<f32> { return vec4<f32>(p, 1.0); }

@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("depth")

	assert.Equal(t, "depth", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Equal(t, wgpu.TextureFormatR32Float, p.ColorFormat())
	assert.Equal(t, wgpu.TextureFormatDepth32Float, p.DepthFormat())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
	assert.Nil(t, p.RenderPipeline())
	p.Release()
}

func TestPipelineOptions(t *testing.T) {
	vs := shader.NewShader("vs", shader.ShaderTypeVertex, stageSource)
	fs := shader.NewShader("fs", shader.ShaderTypeFragment, stageSource)
	p := NewPipeline("custom",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepthWriteEnabled(false),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithFormats(wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatDepth24Plus),
	)

	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))
	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Equal(t, wgpu.TextureFormatRGBA32Float, p.ColorFormat())
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, p.DepthFormat())
}

func TestDisabledDepthTestAlwaysPasses(t *testing.T) {
	p := NewPipeline("overlay", WithDepthTestEnabled(false), WithDepthCompare(wgpu.CompareFunctionGreater))
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
}
