package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// minClipW is the smallest clip-space w a vertex may have. Triangles with a vertex at or behind
// the eye of a perspective camera are skipped rather than clipped.
const minClipW = 1e-6

var errTargetOpen = errors.New("software target is still being written")
var errTargetClosed = errors.New("software target is not being written")

// softwareRendererBackendImpl rasterises depth meshes on the CPU. It follows the GPU pipeline's
// conventions: pixel centres at +0.5, clip-space depth in [0, 1], top-left pixel origin.
type softwareRendererBackendImpl struct {
	mu       *sync.Mutex
	pipeline pipeline.Pipeline
}

var _ RendererBackend = &softwareRendererBackendImpl{}

func newSoftwareRendererBackend() RendererBackend {
	return &softwareRendererBackendImpl{
		mu: &sync.Mutex{},
	}
}

func (b *softwareRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		return errors.New("software backend only rasterises triangle lists")
	}
	b.pipeline = p
	return nil
}

func (b *softwareRendererBackendImpl) CreateTarget(width, height int) (TargetBackend, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline == nil {
		return nil, errors.New("software backend has no registered pipeline")
	}
	return &softwareTarget{
		width:    width,
		height:   height,
		red:      make([]float32, width*height),
		depth:    make([]float32, width*height),
		pipeline: b.pipeline,
	}, nil
}

func (b *softwareRendererBackendImpl) Release() {}

// softwareTarget is a red channel plus depth buffer in CPU memory.
type softwareTarget struct {
	width, height int
	red           []float32
	depth         []float32
	open          bool
	pipeline      pipeline.Pipeline
}

// rasterVertex is a vertex after projection: screen position, clip depth, 1/w for
// perspective-correct interpolation and the world position it came from.
type rasterVertex struct {
	x, y, z float32
	invW    float32
	world   mgl32.Vec3
}

func (t *softwareTarget) Begin(clear ClearState) error {
	for i := range t.red {
		t.red[i] = clear.Red
		t.depth[i] = clear.Depth
	}
	t.open = true
	return nil
}

func (t *softwareTarget) DrawDepth(uniform camera.GPUCameraUniform, mesh *DepthMesh) error {
	if !t.open {
		return errTargetClosed
	}
	viewProj := mgl32.Mat4(uniform.ViewProj)
	w, h := float32(t.width), float32(t.height)

	verts := make([]rasterVertex, len(mesh.Positions))
	valid := make([]bool, len(mesh.Positions))
	for i, p := range mesh.Positions {
		world := mesh.Model.Mul4x1(p.Vec4(1))
		if world.W() != 0 && world.W() != 1 {
			world = world.Mul(1 / world.W())
		}
		clip := viewProj.Mul4x1(world)
		if clip.W() <= minClipW {
			continue
		}
		invW := 1 / clip.W()
		verts[i] = rasterVertex{
			x:     (clip.X()*invW + 1) * 0.5 * w,
			y:     (1 - clip.Y()*invW) * 0.5 * h,
			z:     clip.Z() * invW,
			invW:  invW,
			world: world.Vec3(),
		}
		valid[i] = true
	}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if !valid[a] || !valid[b] || !valid[c] {
			continue
		}
		t.drawTriangle([3]rasterVertex{verts[a], verts[b], verts[c]}, &uniform)
	}
	return nil
}

// drawTriangle fills the pixels whose centres lie inside the triangle, depth testing each
// fragment and writing its encoded view depth to red.
func (t *softwareTarget) drawTriangle(v [3]rasterVertex, uniform *camera.GPUCameraUniform) {
	area := edge(v[0], v[1], v[2].x, v[2].y)
	if area == 0 || t.culled(area) {
		return
	}

	minX := max(0, int(math32.Floor(min(v[0].x, v[1].x, v[2].x))))
	maxX := min(t.width-1, int(math32.Ceil(max(v[0].x, v[1].x, v[2].x))))
	minY := max(0, int(math32.Floor(min(v[0].y, v[1].y, v[2].y))))
	maxY := min(t.height-1, int(math32.Ceil(max(v[0].y, v[1].y, v[2].y))))

	compare := t.pipeline.DepthCompare()
	depthWrite := t.pipeline.DepthWriteEnabled()
	writeRed := t.pipeline.WriteMask()&wgpu.ColorWriteMaskRed != 0

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5

			b0 := edge(v[1], v[2], px, py) / area
			b1 := edge(v[2], v[0], px, py) / area
			b2 := edge(v[0], v[1], px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*v[0].z + b1*v[1].z + b2*v[2].z
			if z < 0 || z > 1 {
				continue
			}
			idx := y*t.width + x
			if !depthPasses(compare, z, t.depth[idx]) {
				continue
			}
			if depthWrite {
				t.depth[idx] = z
			}
			if !writeRed {
				continue
			}

			p0, p1, p2 := b0*v[0].invW, b1*v[1].invW, b2*v[2].invW
			world := v[0].world.Mul(p0).Add(v[1].world.Mul(p1)).Add(v[2].world.Mul(p2)).Mul(1 / (p0 + p1 + p2))
			t.red[idx] = uniform.EncodeDepth(world)
		}
	}
}

// culled reports whether the pipeline's cull mode discards a triangle with the given screen
// space signed area. Screen y points down, so counter-clockwise triangles have negative area.
func (t *softwareTarget) culled(area float32) bool {
	ccw := area < 0
	front := ccw == (t.pipeline.FrontFace() == wgpu.FrontFaceCCW)
	switch t.pipeline.CullMode() {
	case wgpu.CullModeBack:
		return !front
	case wgpu.CullModeFront:
		return front
	default:
		return false
	}
}

func (t *softwareTarget) End() error {
	if !t.open {
		return errTargetClosed
	}
	t.open = false
	return nil
}

func (t *softwareTarget) ReadRed() ([]float32, error) {
	if t.open {
		return nil, errTargetOpen
	}
	out := make([]float32, len(t.red))
	copy(out, t.red)
	return out, nil
}

func (t *softwareTarget) Release() {
	t.red = nil
	t.depth = nil
}

// edge is the signed parallelogram area spanned by a->b and a->p. The endpoints are put in a fixed
// order first so triangles sharing an edge get exactly opposite values and leave no gaps.
func edge(a, b rasterVertex, px, py float32) float32 {
	if b.x < a.x || (b.x == a.x && b.y < a.y) {
		return -((a.x-b.x)*(py-b.y) - (a.y-b.y)*(px-b.x))
	}
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func depthPasses(compare wgpu.CompareFunction, fragment, stored float32) bool {
	switch compare {
	case wgpu.CompareFunctionNever:
		return false
	case wgpu.CompareFunctionLess:
		return fragment < stored
	case wgpu.CompareFunctionLessEqual:
		return fragment <= stored
	case wgpu.CompareFunctionGreater:
		return fragment > stored
	case wgpu.CompareFunctionGreaterEqual:
		return fragment >= stored
	case wgpu.CompareFunctionEqual:
		return fragment == stored
	case wgpu.CompareFunctionNotEqual:
		return fragment != stored
	default:
		return true
	}
}
