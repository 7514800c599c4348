package camera

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/chewxy/math32"
)

// ControllerKind identifies one of the fixed set of control schemes.
type ControllerKind int

const (
	ControllerKindFly ControllerKind = iota
	ControllerKindFollower
	ControllerKindMap
	ControllerKindBev
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerKindFly:
		return "fly"
	case ControllerKindFollower:
		return "follower"
	case ControllerKindMap:
		return "map"
	case ControllerKindBev:
		return "bev"
	default:
		return "unknown"
	}
}

// CameraController translates a frame's input events into camera mutations.
// Controllers own no camera state between calls: every call re-derives what it needs
// (view direction, distance to target or ground, pixel ratio) from the camera it is given.
type CameraController interface {
	// HandleEvents folds the events, in order, into mutations of cam.
	// Events the controller acts on are marked handled. A controller that cannot drive the
	// camera's current projection returns false without mutating anything.
	//
	// Parameters:
	//   - cam: the camera to drive
	//   - events: the frame's event batch
	//
	// Returns:
	//   - bool: false if the camera's projection is not supported by this controller
	HandleEvents(cam Camera, events []event.Event) bool

	// Kind returns the control scheme this controller implements.
	//
	// Returns:
	//   - ControllerKind: the control scheme
	Kind() ControllerKind
}

// zoomScale picks the zoom-in factor for a positive wheel delta and the zoom-out factor otherwise.
func zoomScale(deltaY, in, out float32) float32 {
	if deltaY > 0 {
		return in
	}
	return out
}

// orbitDistanceBounds returns the clamp range for a distance-to-target zoom.
func orbitDistanceBounds(cam Camera, minDistance, maxDistance float32) (float32, float32) {
	return math32.Max(cam.Near(), minDistance), math32.Min(cam.Far(), maxDistance)
}

// logRejected records a camera mutation the camera refused. Controllers drop such mutations.
func logRejected(kind ControllerKind, op string, err error) {
	slog.Debug("camera mutation rejected", "component", "CameraController", "controller", kind.String(), "op", op, "error", err)
}
