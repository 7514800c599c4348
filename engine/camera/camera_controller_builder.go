package camera

import (
	"fmt"

	"github.com/chewxy/math32"
)

// controllerConfig holds the construction-time parameters shared by every controller.
type controllerConfig struct {
	speed       float32
	minDistance float32
	maxDistance float32
	boundsSet   bool
	zoomIn      float32
	zoomOut     float32
	yawStep     float32
}

func defaultControllerConfig(zoomIn, zoomOut float32) controllerConfig {
	return controllerConfig{
		speed:       0.1,
		minDistance: 0,
		maxDistance: math32.Inf(1),
		zoomIn:      zoomIn,
		zoomOut:     zoomOut,
		yawStep:     5,
	}
}

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*controllerConfig)

// WithSpeed sets the keyboard pan speed as a fraction of the distance to ground per key press.
// Used by the fly controller.
//
// Parameters:
//   - speed: pan distance per key press, relative to the distance to ground
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *controllerConfig) {
		cc.speed = speed
	}
}

// WithDistanceBounds sets the minimum and maximum distance bounds.
// The follower controller clamps its distance to target to them; the map and bev controllers
// pass them as the near and far planes of the orthographic projection they set while zooming.
// Panics unless 0 <= min < max.
//
// Parameters:
//   - min: minimum distance
//   - max: maximum distance
//
// Returns:
//   - CameraControllerOption: functional option to set distance bounds
func WithDistanceBounds(min, max float32) CameraControllerOption {
	if !(min >= 0 && min < max) {
		panic(fmt.Sprintf("camera: invalid distance bounds [%v, %v]", min, max))
	}
	return func(cc *controllerConfig) {
		cc.minDistance = min
		cc.maxDistance = max
		cc.boundsSet = true
	}
}

// WithZoomFactor sets the distance or height multipliers applied per zoom step.
//
// Parameters:
//   - in: multiplier for a zoom-in step, normally below 1
//   - out: multiplier for a zoom-out step, normally above 1
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom factors
func WithZoomFactor(in, out float32) CameraControllerOption {
	return func(cc *controllerConfig) {
		cc.zoomIn = in
		cc.zoomOut = out
	}
}

// WithYawStep sets the angle turned per A/D key press by the fly controller.
//
// Parameters:
//   - degrees: yaw per key press
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw step
func WithYawStep(degrees float32) CameraControllerOption {
	return func(cc *controllerConfig) {
		cc.yawStep = degrees
	}
}

// NewController creates the controller for a control scheme with that scheme's defaults.
//
// Parameters:
//   - kind: the control scheme
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller, or nil for an unknown kind
func NewController(kind ControllerKind, options ...CameraControllerOption) CameraController {
	switch kind {
	case ControllerKindFly:
		return NewFlyController(options...)
	case ControllerKindFollower:
		return NewFollowerController(options...)
	case ControllerKindMap:
		return NewMapController(options...)
	case ControllerKindBev:
		return NewBevController(options...)
	default:
		return nil
	}
}
