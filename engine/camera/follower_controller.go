package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/go-gl/mathgl/mgl32"
)

// followerControllerImpl orbits the camera around a fixed target.
type followerControllerImpl struct {
	mu *sync.Mutex
	controllerConfig

	direction        mgl32.Vec3
	distanceToTarget float32
}

var _ CameraController = &followerControllerImpl{}

// NewFollowerController creates an orbit controller. Left drag yaws then pitches by the pixel
// deltas in degrees; the wheel scales the distance to target by 0.8 or 1.2.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewFollowerController(options ...CameraControllerOption) CameraController {
	f := &followerControllerImpl{
		mu:               &sync.Mutex{},
		controllerConfig: defaultControllerConfig(0.8, 1.2),
	}
	for _, option := range options {
		option(&f.controllerConfig)
	}
	return f
}

func (f *followerControllerImpl) Kind() ControllerKind {
	return ControllerKindFollower
}

func (f *followerControllerImpl) HandleEvents(cam Camera, events []event.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range events {
		f.update(cam)
		switch ev := e.(type) {
		case *event.MouseMotion:
			if ev.Dragging(event.MouseButtonLeft) {
				cam.Yaw(ev.Delta[0], PivotTarget)
				cam.Pitch(ev.Delta[1], PivotTarget)
				ev.Handled = true
			}
		case *event.MouseWheel:
			if ev.Delta[1] == 0 {
				continue
			}
			f.zoom(cam, zoomScale(ev.Delta[1], f.zoomIn, f.zoomOut))
			ev.Handled = true
		}
	}
	return true
}

func (f *followerControllerImpl) update(cam Camera) {
	f.direction = cam.Direction()
	f.distanceToTarget = cam.DistanceToTarget()
}

// zoom scales the distance to target within the clip planes and the configured bounds.
func (f *followerControllerImpl) zoom(cam Camera, scale float32) {
	lo, hi := orbitDistanceBounds(cam, f.minDistance, f.maxDistance)
	d := common.ClampFloat(f.distanceToTarget*scale, lo, hi)
	target := cam.Target()
	if err := cam.SetView(target.Sub(f.direction.Mul(d)), target, cam.Up()); err != nil {
		logRejected(ControllerKindFollower, "zoom", err)
	}
}
