package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/go-gl/mathgl/mgl32"
)

// mapControllerImpl pans and zooms an orthographic camera. The map kind moves in the camera's
// own screen plane; the bev kind restricts every translation to the world XY plane.
type mapControllerImpl struct {
	mu *sync.Mutex
	controllerConfig

	kind ControllerKind

	// ratio is world units per pixel, height / viewport height.
	ratio float32
}

var _ CameraController = &mapControllerImpl{}

// NewMapController creates a pan/zoom controller for orthographic cameras.
// Right drag pans the view, the wheel zooms about the cursor by 0.8 or 1.2.
// Without WithDistanceBounds the camera's own near and far planes are kept when zooming.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewMapController(options ...CameraControllerOption) CameraController {
	return newMapController(ControllerKindMap, options)
}

// NewBevController creates a bird's-eye pan/zoom controller for orthographic cameras.
// It behaves like the map controller but only ever moves the camera parallel to the ground.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewBevController(options ...CameraControllerOption) CameraController {
	return newMapController(ControllerKindBev, options)
}

func newMapController(kind ControllerKind, options []CameraControllerOption) *mapControllerImpl {
	m := &mapControllerImpl{
		mu:               &sync.Mutex{},
		controllerConfig: defaultControllerConfig(0.8, 1.2),
		kind:             kind,
	}
	for _, option := range options {
		option(&m.controllerConfig)
	}
	return m
}

func (m *mapControllerImpl) Kind() ControllerKind {
	return m.kind
}

func (m *mapControllerImpl) HandleEvents(cam Camera, events []event.Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cam.Projection().Type != ProjectionOrthographic {
		return false
	}
	m.update(cam)

	for _, e := range events {
		switch ev := e.(type) {
		case *event.MouseMotion:
			if ev.Dragging(event.MouseButtonRight) {
				m.move(cam, ev.Delta[0], ev.Delta[1])
				ev.Handled = true
			}
		case *event.MouseWheel:
			if ev.Delta[1] == 0 {
				continue
			}
			m.zoom(cam, ev.Position, zoomScale(ev.Delta[1], m.zoomIn, m.zoomOut))
			ev.Handled = true
		}
	}
	return true
}

func (m *mapControllerImpl) update(cam Camera) {
	m.ratio = cam.Projection().Height / float32(cam.Viewport().Height)
}

// axes returns the world vectors that one pixel of rightward and upward screen motion map to,
// before scaling by the ratio.
func (m *mapControllerImpl) axes(cam Camera) (right, up mgl32.Vec3) {
	if m.kind == ControllerKindBev {
		return groundAxes(cam.Direction(), cam.Up())
	}
	return cam.ScreenRight(), cam.ScreenUp()
}

// move drags the view by a pixel delta: the scene follows the pointer.
func (m *mapControllerImpl) move(cam Camera, dx, dy float32) {
	right, up := m.axes(cam)
	m.translate(cam, right.Mul(-dx*m.ratio).Add(up.Mul(dy*m.ratio)), "move")
}

// zoom scales the orthographic height about the cursor: the world point under the cursor
// stays under it. The projection is set first; a rejected projection leaves the view alone and
// a rejected pan restores the previous projection.
func (m *mapControllerImpl) zoom(cam Camera, cursor mgl32.Vec2, scale float32) {
	newRatio := m.ratio * scale
	offset := cursor.Sub(cam.Viewport().Center())
	right, up := m.axes(cam)
	delta := right.Mul(offset[0]).Sub(up.Mul(offset[1])).Mul(m.ratio - newRatio)

	prevHeight, prevNear, prevFar := cam.Projection().Height, cam.Near(), cam.Far()
	near, far := prevNear, prevFar
	if m.boundsSet {
		near, far = m.minDistance, m.maxDistance
	}
	if err := cam.SetOrthographicProjection(prevHeight*scale, near, far); err != nil {
		logRejected(m.kind, "zoom", err)
		return
	}
	if !m.translate(cam, delta, "zoom") {
		_ = cam.SetOrthographicProjection(prevHeight, prevNear, prevFar)
	}
	m.update(cam)
}

func (m *mapControllerImpl) translate(cam Camera, delta mgl32.Vec3, op string) bool {
	if err := cam.SetView(cam.Position().Add(delta), cam.Target().Add(delta), cam.Up()); err != nil {
		logRejected(m.kind, op, err)
		return false
	}
	return true
}

// groundAxes projects the screen's right and up directions onto the z = 0 plane.
// When the screen's horizontal axis is vertical in the world, the view heading on the ground
// is used as up instead.
func groundAxes(dir, up mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	right := common.CrossWithFallback(dir, up, common.PerpendicularAxis(dir))
	right[2] = 0
	if right.Len() < minViewLength {
		heading := mgl32.Vec3{dir[0], dir[1], 0}
		if heading.Len() < minViewLength {
			heading = common.AxisY
		}
		heading = heading.Normalize()
		return heading.Cross(common.AxisZ).Normalize(), heading
	}
	right = right.Normalize()
	return right, common.AxisZ.Cross(right)
}
