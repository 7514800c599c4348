package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// flyControllerImpl flies the camera over the z = 0 ground plane.
// Right drag pans, wheel and W/S move towards or away from the ground point under the view
// centre, arrow keys pan in steps proportional to the height above ground, A/D turn in place.
type flyControllerImpl struct {
	mu *sync.Mutex
	controllerConfig

	direction        mgl32.Vec3
	distanceToGround float32
}

var _ CameraController = &flyControllerImpl{}

// NewFlyController creates a fly controller. Defaults: speed 0.1, zoom factors 0.9 and 1/0.9,
// yaw step 5 degrees.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewFlyController(options ...CameraControllerOption) CameraController {
	f := &flyControllerImpl{
		mu:               &sync.Mutex{},
		controllerConfig: defaultControllerConfig(0.9, 1/0.9),
	}
	for _, option := range options {
		option(&f.controllerConfig)
	}
	return f
}

func (f *flyControllerImpl) Kind() ControllerKind {
	return ControllerKindFly
}

func (f *flyControllerImpl) HandleEvents(cam Camera, events []event.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range events {
		f.update(cam)
		switch ev := e.(type) {
		case *event.MouseMotion:
			if ev.Dragging(event.MouseButtonRight) {
				f.pan(cam, ev.Delta[0], ev.Delta[1])
				ev.Handled = true
			}
		case *event.MouseWheel:
			if ev.Delta[1] == 0 {
				continue
			}
			f.zoom(cam, zoomScale(ev.Delta[1], f.zoomIn, f.zoomOut))
			ev.Handled = true
		case *event.KeyPress:
			if f.key(cam, ev.Key) {
				ev.Handled = true
			}
		}
	}
	return true
}

// key applies one key press. Returns false for keys the fly controller ignores.
func (f *flyControllerImpl) key(cam Camera, key event.Key) bool {
	step := f.speed * f.distanceToGround
	switch key {
	case common.KeyArrowUp:
		f.pan(cam, 0, step)
	case common.KeyArrowDown:
		f.pan(cam, 0, -step)
	case common.KeyArrowLeft:
		f.pan(cam, step, 0)
	case common.KeyArrowRight:
		f.pan(cam, -step, 0)
	case common.KeyA:
		cam.Yaw(f.yawStep, PivotPosition)
	case common.KeyD:
		cam.Yaw(-f.yawStep, PivotPosition)
	case common.KeyW:
		f.zoom(cam, f.zoomIn)
	case common.KeyS:
		f.zoom(cam, f.zoomOut)
	default:
		return false
	}
	return true
}

// update re-derives the view direction and the distance along it to the z = 0 plane.
// A view parallel to the ground has no ground point, so the target distance stands in.
func (f *flyControllerImpl) update(cam Camera) {
	f.direction = cam.Direction()
	if math32.Abs(f.direction[2]) > minViewLength {
		f.distanceToGround = math32.Abs(cam.Position()[2] / f.direction[2])
	} else {
		f.distanceToGround = cam.DistanceToTarget()
	}
}

// zoom scales the distance to ground, keeping the ground point under the view centre fixed.
func (f *flyControllerImpl) zoom(cam Camera, scale float32) {
	d := common.ClampFloat(f.distanceToGround*scale, cam.Near(), cam.Far())
	ground := cam.Position().Add(f.direction.Mul(f.distanceToGround))
	position := ground.Sub(f.direction.Mul(d))
	if err := cam.SetView(position, position.Add(f.direction.Mul(d)), cam.Up()); err != nil {
		logRejected(ControllerKindFly, "zoom", err)
	}
}

// pan translates position and target along the right and screen-up axes.
func (f *flyControllerImpl) pan(cam Camera, dx, dy float32) {
	delta := cam.Right().Mul(dx).Add(cam.ScreenUp().Mul(dy))
	if err := cam.SetView(cam.Position().Add(delta), cam.Target().Add(delta), cam.Up()); err != nil {
		logRejected(ControllerKindFly, "pan", err)
	}
}
