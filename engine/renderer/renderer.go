package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// DepthPipelineKey is the key of the pipeline every renderer registers for depth draws.
const DepthPipelineKey = "Depth To Red"

var (
	// ErrNoBoundTarget is returned by DrawDepth when called outside RenderTarget.Write.
	ErrNoBoundTarget = errors.New("renderer: no render target bound")

	// ErrInvalidTargetSize is returned when a target is requested with a non-positive size.
	ErrInvalidTargetSize = errors.New("renderer: invalid render target size")

	// ErrTargetReleased is returned when a released target is written or read.
	ErrTargetReleased = errors.New("renderer: render target released")

	// ErrRendererReleased is returned when a released renderer is used.
	ErrRendererReleased = errors.New("renderer: renderer released")

	// ErrInvalidMesh is returned when a DepthMesh has out-of-range or incomplete indices.
	ErrInvalidMesh = errors.New("renderer: invalid depth mesh")

	// ErrInvalidDepthRange is returned when DrawDepth is called with a non-positive max depth.
	ErrInvalidDepthRange = errors.New("renderer: max depth must be positive")

	// ErrReadback is returned when a target's contents cannot be read back to the CPU.
	ErrReadback = errors.New("renderer: readback failed")
)

// ClearState holds the values a target's attachments are cleared to when it is written.
type ClearState struct {
	Red, Green, Blue, Alpha float32
	Depth                   float32
}

// DepthMesh is an indexed triangle list in model space.
// Key identifies the mesh across draws so GPU backends can cache its buffers; leave it empty for
// one-off meshes.
type DepthMesh struct {
	Key       string
	Positions []mgl32.Vec3
	Indices   []uint32
	Model     mgl32.Mat4
}

// Validate checks that the indices form whole triangles within the position range.
//
// Returns:
//   - error: ErrInvalidMesh wrapped with the offending detail, nil if valid
func (m *DepthMesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices do not form whole triangles", ErrInvalidMesh, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: index %d out of range for %d positions", ErrInvalidMesh, idx, len(m.Positions))
		}
	}
	return nil
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType   RendererBackendType
	backend       RendererBackend
	depthPipeline pipeline.Pipeline

	// bound is the stack of targets currently inside Write, innermost last
	bound    []*renderTarget
	released bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	deviceLabel          string
}

// Renderer is the graphics context used for depth picking. It creates offscreen render targets
// and draws meshes into whichever target is currently bound, writing the camera-relative depth
// of every covered pixel into the red channel.
type Renderer interface {
	// BackendType returns the backend this renderer runs on.
	BackendType() RendererBackendType

	// NewRenderTarget allocates an offscreen target with a single float color channel and a
	// depth attachment.
	//
	// Parameters:
	//   - width: target width in pixels
	//   - height: target height in pixels
	//
	// Returns:
	//   - RenderTarget: the new target, released by the caller
	//   - error: ErrInvalidTargetSize, ErrRendererReleased or a backend error
	NewRenderTarget(width, height int) (RenderTarget, error)

	// DrawDepth draws the mesh into the bound target as seen from cam. Each covered pixel whose
	// depth passes the depth test receives, in red, the distance from the camera plane along the
	// view direction divided by maxDepth.
	//
	// Parameters:
	//   - cam: the camera supplying the view-projection, position and view direction
	//   - mesh: the mesh to draw
	//   - maxDepth: the distance encoded as 1.0
	//
	// Returns:
	//   - error: ErrNoBoundTarget outside Write, ErrInvalidMesh, ErrInvalidDepthRange or a backend error
	DrawDepth(cam camera.Camera, mesh *DepthMesh, maxDepth float32) error

	// BoundTarget returns the innermost target currently inside Write, nil if none.
	BoundTarget() RenderTarget

	// DepthPipeline returns the pipeline description used for depth draws.
	DepthPipeline() pipeline.Pipeline

	// Release frees the backend. Targets must be released first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer on the requested backend. The WebGPU backend requests a
// headless device and panics if none is available, like every other GPU constructor here.
//
// Parameters:
//   - backendType: the backend to create
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		deviceLabel: "Picking Device",
	}
	for _, option := range options {
		option(r)
	}
	if r.depthPipeline == nil {
		r.depthPipeline = NewDepthPipeline()
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			r.backend = newWGPURendererBackend(r.deviceLabel, r.forceFallbackAdapter)
		case BackendTypeSoftware:
			r.backend = newSoftwareRendererBackend()
		default:
			panic(fmt.Sprintf("renderer: unknown backend type %d", backendType))
		}
	}

	if err := r.backend.RegisterPipeline(r.depthPipeline); err != nil {
		panic(fmt.Sprintf("failed to register depth pipeline: %v", err))
	}
	slog.Debug("renderer created", "component", "Renderer", "backend", backendType.String())
	return r
}

// NewDepthPipeline builds the default depth-to-red pipeline description: depth test Less with
// writes enabled, no culling, R32Float color and Depth32Float depth.
//
// Parameters:
//   - opts: pipeline options overriding the defaults
//
// Returns:
//   - pipeline.Pipeline: the pipeline description
func NewDepthPipeline(opts ...pipeline.PipelineBuilderOption) pipeline.Pipeline {
	include := shader.WithInclude("mesh_transform", GPUMeshTransformSource)
	base := []pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(shader.NewShader(DepthPipelineKey+" VS", shader.ShaderTypeVertex, depthShaderSource, include)),
		pipeline.WithFragmentShader(shader.NewShader(DepthPipelineKey+" FS", shader.ShaderTypeFragment, depthShaderSource, include)),
	}
	return pipeline.NewPipeline(DepthPipelineKey, append(base, opts...)...)
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) DepthPipeline() pipeline.Pipeline {
	return r.depthPipeline
}

func (r *renderer) NewRenderTarget(width, height int) (RenderTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return nil, ErrRendererReleased
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTargetSize, width, height)
	}
	tb, err := r.backend.CreateTarget(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create render target: %w", err)
	}
	return &renderTarget{
		owner:   r,
		backend: tb,
		width:   width,
		height:  height,
	}, nil
}

func (r *renderer) DrawDepth(cam camera.Camera, mesh *DepthMesh, maxDepth float32) error {
	if maxDepth <= 0 {
		return ErrInvalidDepthRange
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	uniform := cam.Uniform(maxDepth)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.bound) == 0 {
		return ErrNoBoundTarget
	}
	if len(mesh.Indices) == 0 {
		return nil
	}
	return r.bound[len(r.bound)-1].backend.DrawDepth(uniform, mesh)
}

func (r *renderer) BoundTarget() RenderTarget {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.bound) == 0 {
		return nil
	}
	return r.bound[len(r.bound)-1]
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.depthPipeline.Release()
	r.backend.Release()
}

// unbind removes t from the binding stack, restoring whichever target was bound before it.
func (r *renderer) unbind(t *renderTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.bound) - 1; i >= 0; i-- {
		if r.bound[i] == t {
			r.bound = append(r.bound[:i], r.bound[i+1:]...)
			return
		}
	}
}

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	owner   *renderer
	backend TargetBackend

	width, height int
	released      bool
}

// RenderTarget is an offscreen color plus depth target.
type RenderTarget interface {
	// Size returns the target's width and height in pixels.
	Size() (int, int)

	// Write clears the target, binds it for the duration of draw and unbinds it afterwards,
	// restoring the previously bound target even if draw fails or panics. Writes may nest.
	//
	// Parameters:
	//   - clear: the values the attachments are cleared to
	//   - draw: issues DrawDepth calls against the owning renderer; may be nil
	//
	// Returns:
	//   - error: the error returned by draw, or a backend error
	Write(clear ClearState, draw func() error) error

	// ReadRed copies the red channel back to the CPU, row-major from the top row.
	//
	// Returns:
	//   - []float32: width*height red values
	//   - error: ErrTargetReleased or ErrReadback wrapping the backend error
	ReadRed() ([]float32, error)

	// Release frees the target. It is safe to call more than once.
	Release()
}

var _ RenderTarget = &renderTarget{}

func (t *renderTarget) Size() (int, int) {
	return t.width, t.height
}

func (t *renderTarget) Write(clear ClearState, draw func() error) error {
	r := t.owner
	r.mu.Lock()
	if t.released {
		r.mu.Unlock()
		return ErrTargetReleased
	}
	if err := t.backend.Begin(clear); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to begin render target: %w", err)
	}
	r.bound = append(r.bound, t)
	r.mu.Unlock()
	defer r.unbind(t)

	var drawErr error
	if draw != nil {
		drawErr = draw()
	}

	r.mu.Lock()
	endErr := t.backend.End()
	r.mu.Unlock()

	if drawErr != nil {
		return drawErr
	}
	if endErr != nil {
		return fmt.Errorf("failed to submit render target: %w", endErr)
	}
	return nil
}

func (t *renderTarget) ReadRed() ([]float32, error) {
	r := t.owner
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.released {
		return nil, ErrTargetReleased
	}
	red, err := t.backend.ReadRed()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadback, err)
	}
	return red, nil
}

func (t *renderTarget) Release() {
	r := t.owner
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.released {
		return
	}
	t.released = true
	t.backend.Release()
}
