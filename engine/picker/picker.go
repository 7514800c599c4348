package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ParallelCullThreshold is the number of geometries above which frustum culling is spread
	// across the cull worker pool.
	ParallelCullThreshold = 64

	// rayHeight is the world-space height of the temporary orthographic camera's view volume.
	rayHeight float32 = 0.01

	minDirectionLength float32 = 1e-6

	// cullChunk is the number of geometries a single cull task tests.
	cullChunk = 32
)

// ErrInvalidQuery is returned when a pick is requested with a non-positive max depth, a
// zero-length direction, or a ray too short to resolve at the origin's float32 precision.
var ErrInvalidQuery = errors.New("picker: invalid query")

// PickError reports a rendering failure during a pick. Op names the step that failed.
type PickError struct {
	Op  string
	Err error
}

func (e *PickError) Error() string {
	return fmt.Sprintf("picker: %s: %v", e.Op, e.Err)
}

func (e *PickError) Unwrap() error {
	return e.Err
}

// Geometry is anything the picker can intersect: it exposes world-space bounds and can draw its
// depth into the renderer's bound target.
type Geometry interface {
	// AABB returns the geometry's world-space bounds. An empty box is never drawn.
	AABB() common.AABB

	// RenderDepth draws the geometry's depth as seen from cam, normalised over maxDepth.
	RenderDepth(r renderer.Renderer, cam camera.Camera, maxDepth float32) error
}

var (
	cullPoolOnce sync.Once
	cullPool     worker.DynamicWorkerPool
)

func pool() worker.DynamicWorkerPool {
	cullPoolOnce.Do(func() {
		cullPool = worker.NewDynamicWorkerPool(runtime.NumCPU(), 256, 1*time.Second)
	})
	return cullPool
}

// Pick returns the world-space point under pixel, if any geometry covers it within maxDepth of the
// camera. The camera is not modified.
//
// Parameters:
//   - r: the renderer used for the depth pass
//   - cam: the camera the pixel belongs to
//   - pixel: the pixel in physical coordinates, top-left origin
//   - maxDepth: the furthest distance along the ray considered
//   - geometries: the candidates to intersect
//
// Returns:
//   - mgl32.Vec3: the hit point, zero on a miss
//   - bool: true if something was hit
//   - error: ErrInvalidQuery or a *PickError
func Pick(r renderer.Renderer, cam camera.Camera, pixel mgl32.Vec2, maxDepth float32, geometries []Geometry) (mgl32.Vec3, bool, error) {
	return RayIntersect(r, cam.PositionAtPixel(pixel), cam.ViewDirectionAtPixel(pixel), maxDepth, geometries)
}

// RayIntersect finds the nearest point along the ray where it meets one of the geometries. It
// renders the geometries' depth into a 1x1 target from an orthographic camera whose view axis is
// the ray and reads the single pixel back.
//
// Parameters:
//   - r: the renderer used for the depth pass
//   - origin: the ray origin
//   - direction: the ray direction; it is normalised
//   - maxDepth: the furthest distance along the ray considered
//   - geometries: the candidates to intersect
//
// Returns:
//   - mgl32.Vec3: origin + direction * distance on a hit, zero on a miss
//   - bool: true if something was hit
//   - error: ErrInvalidQuery or a *PickError
func RayIntersect(r renderer.Renderer, origin, direction mgl32.Vec3, maxDepth float32, geometries []Geometry) (mgl32.Vec3, bool, error) {
	if !(maxDepth > 0) || math32.IsInf(maxDepth, 1) || !(direction.Len() >= minDirectionLength) || !finite(origin) {
		return mgl32.Vec3{}, false, fmt.Errorf("%w: max depth %v, direction %v", ErrInvalidQuery, maxDepth, direction)
	}
	dir := direction.Normalize()

	rayCam, err := rayCamera(origin, dir, maxDepth)
	if err != nil {
		return mgl32.Vec3{}, false, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	candidates := cull(rayCam, geometries)
	if len(candidates) == 0 {
		slog.Debug("pick missed, no candidates in frustum", "component", "Picker", "geometries", len(geometries))
		return mgl32.Vec3{}, false, nil
	}

	target, err := r.NewRenderTarget(1, 1)
	if err != nil {
		return mgl32.Vec3{}, false, &PickError{Op: "create target", Err: err}
	}
	defer target.Release()

	err = target.Write(renderer.ClearState{Red: 1, Depth: 1}, func() error {
		for _, g := range candidates {
			if err := g.RenderDepth(r, rayCam, maxDepth); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mgl32.Vec3{}, false, &PickError{Op: "render depth", Err: err}
	}

	red, err := target.ReadRed()
	if err != nil {
		return mgl32.Vec3{}, false, &PickError{Op: "read back", Err: err}
	}

	d := red[0]
	slog.Debug("pick resolved", "component", "Picker", "candidates", len(candidates), "depth", d)
	if !(d < 1) {
		return mgl32.Vec3{}, false, nil
	}
	return origin.Add(dir.Mul(d * maxDepth)), true, nil
}

// rayCamera builds the 1x1 orthographic camera looking down the ray. The view and projection go
// through the setters so a ray whose end rounds onto its origin is reported instead of panicking.
func rayCamera(origin, dir mgl32.Vec3, maxDepth float32) (camera.Camera, error) {
	cam := camera.NewCamera(camera.WithViewport(common.NewViewportAtOrigin(1, 1)))
	if err := cam.SetOrthographicProjection(rayHeight, 0, maxDepth); err != nil {
		return nil, err
	}
	if err := cam.SetView(origin, origin.Add(dir.Mul(maxDepth)), common.PerpendicularAxis(dir)); err != nil {
		return nil, err
	}
	return cam, nil
}

// cull returns the geometries whose bounds meet the camera's frustum, in input order.
func cull(cam camera.Camera, geometries []Geometry) []Geometry {
	keep := make([]bool, len(geometries))
	test := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			box := geometries[i].AABB()
			keep[i] = !box.IsEmpty() && cam.InFrustum(box)
		}
	}

	if len(geometries) > ParallelCullThreshold {
		var wg sync.WaitGroup
		p := pool()
		for lo := 0; lo < len(geometries); lo += cullChunk {
			hi := min(lo+cullChunk, len(geometries))
			wg.Add(1)
			p.SubmitTask(worker.Task{
				ID: lo,
				Do: func() (any, error) {
					defer wg.Done()
					test(lo, hi)
					return nil, nil
				},
			})
		}
		wg.Wait()
	} else {
		test(0, len(geometries))
	}

	out := make([]Geometry, 0, len(geometries))
	for i, g := range geometries {
		if keep[i] {
			out = append(out, g)
		}
	}
	return out
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
