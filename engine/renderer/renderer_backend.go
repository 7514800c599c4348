package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the headless WebGPU backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeSoftware selects the CPU rasteriser. It needs no graphics driver.
	BackendTypeSoftware
)

// String returns a human-readable name for the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// RendererBackend is the API-specific half of the Renderer. The Renderer owns binding state and
// validation; a backend only creates targets and executes the depth pipeline.
type RendererBackend interface {
	// RegisterPipeline prepares the depth pipeline for drawing.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if the pipeline cannot be created
	RegisterPipeline(p pipeline.Pipeline) error

	// CreateTarget allocates a color plus depth target of the given size.
	//
	// Parameters:
	//   - width: target width in pixels
	//   - height: target height in pixels
	//
	// Returns:
	//   - TargetBackend: the backend half of the new target
	//   - error: an error if allocation fails
	CreateTarget(width, height int) (TargetBackend, error)

	// Release frees every resource held by the backend.
	Release()
}

// TargetBackend is the API-specific half of a RenderTarget.
type TargetBackend interface {
	// Begin clears the color and depth attachments and opens the target for drawing.
	Begin(clear ClearState) error

	// DrawDepth rasterises the mesh into the open target with the camera uniform.
	DrawDepth(uniform camera.GPUCameraUniform, mesh *DepthMesh) error

	// End closes the target and makes its contents readable.
	End() error

	// ReadRed returns the red channel of the color attachment, row-major from the top row.
	ReadRed() ([]float32, error)

	// Release frees the target's resources.
	Release()
}
