package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cameraSnapshot struct {
	position, target, up mgl32.Vec3
	projection           Projection
	near, far            float32
	viewport             common.Viewport
}

func snapshot(cam Camera) cameraSnapshot {
	return cameraSnapshot{
		position:   cam.Position(),
		target:     cam.Target(),
		up:         cam.Up(),
		projection: cam.Projection(),
		near:       cam.Near(),
		far:        cam.Far(),
		viewport:   cam.Viewport(),
	}
}

func drag(button event.MouseButton, dx, dy float32) *event.MouseMotion {
	return &event.MouseMotion{Button: &button, Delta: mgl32.Vec2{dx, dy}}
}

func wheel(dy float32, x, y float32) *event.MouseWheel {
	return &event.MouseWheel{Delta: mgl32.Vec2{0, dy}, Position: mgl32.Vec2{x, y}}
}

func key(k int) *event.KeyPress {
	return &event.KeyPress{Key: event.Key(k)}
}

func allControllers() []CameraController {
	return []CameraController{
		NewFlyController(),
		NewFollowerController(),
		NewMapController(),
		NewBevController(),
	}
}

func TestNewControllerKinds(t *testing.T) {
	for _, kind := range []ControllerKind{ControllerKindFly, ControllerKindFollower, ControllerKindMap, ControllerKindBev} {
		ctrl := NewController(kind)
		require.NotNil(t, ctrl)
		assert.Equal(t, kind, ctrl.Kind())
	}
	assert.Nil(t, NewController(ControllerKind(42)))
	assert.Equal(t, "bev", ControllerKindBev.String())
}

func TestEmptyBatchNeverMutates(t *testing.T) {
	cameras := map[string]func() Camera{
		"perspective": func() Camera {
			return NewCamera(WithView(mgl32.Vec3{1, -4, 6}, mgl32.Vec3{0, 1, 0}, common.AxisZ))
		},
		"orthographic": orthoCamera,
	}
	for name, newCam := range cameras {
		for _, ctrl := range allControllers() {
			t.Run(name+"/"+ctrl.Kind().String(), func(t *testing.T) {
				cam := newCam()
				before := snapshot(cam)
				ctrl.HandleEvents(cam, nil)
				ctrl.HandleEvents(cam, []event.Event{})
				assert.Equal(t, before, snapshot(cam))
			})
		}
	}
}

func TestMapControllersRejectPerspective(t *testing.T) {
	for _, ctrl := range []CameraController{NewMapController(), NewBevController()} {
		t.Run(ctrl.Kind().String(), func(t *testing.T) {
			cam := NewCamera(WithViewport(common.NewViewportAtOrigin(100, 100)))
			before := snapshot(cam)
			events := []event.Event{
				drag(event.MouseButtonRight, 10, 5),
				wheel(1, 20, 20),
			}

			assert.False(t, ctrl.HandleEvents(cam, events))
			assert.Equal(t, before, snapshot(cam))
			for _, e := range events {
				assert.False(t, event.IsHandled(e))
			}
		})
	}
}

func TestMapEndToEndCentreZoom(t *testing.T) {
	cam := orthoCamera()
	ctrl := NewMapController()
	ev := wheel(1, 50, 50)

	require.True(t, ctrl.HandleEvents(cam, []event.Event{ev}))

	assert.InDelta(t, 8, cam.Projection().Height, 1e-5)
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, cam.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Target())
	assert.True(t, ev.Handled)
}

func TestMapZoomKeepsCursorPointFixed(t *testing.T) {
	tests := []struct {
		name     string
		viewport common.Viewport
		cursor   mgl32.Vec2
		delta    float32
	}{
		{"centre", common.NewViewportAtOrigin(100, 100), mgl32.Vec2{50, 50}, 1},
		{"corner", common.NewViewportAtOrigin(100, 100), mgl32.Vec2{0, 0}, 1},
		{"far corner zoom out", common.NewViewportAtOrigin(100, 100), mgl32.Vec2{100, 100}, -1},
		{"interior", common.NewViewportAtOrigin(100, 100), mgl32.Vec2{20, 70}, 1},
		{"offset wide viewport", common.Viewport{X: 30, Y: 10, Width: 200, Height: 100}, mgl32.Vec2{170, 35}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(
				WithView(mgl32.Vec3{3, -2, 10}, mgl32.Vec3{3, -2, 0}, common.AxisY),
				WithOrthographic(10, 0.1, 100),
				WithViewport(tt.viewport),
			)
			before := cam.PositionAtPixel(tt.cursor)

			require.True(t, NewMapController().HandleEvents(cam, []event.Event{wheel(tt.delta, tt.cursor[0], tt.cursor[1])}))

			assertVecNear(t, before, cam.PositionAtPixel(tt.cursor), 1e-4)
		})
	}
}

func TestMapZoomFixedPointWithTiltedCamera(t *testing.T) {
	cam := NewCamera(
		WithView(mgl32.Vec3{0, -10, 10}, mgl32.Vec3{0, 0, 0}, common.AxisZ),
		WithOrthographic(10, 0.1, 100),
		WithViewport(common.NewViewportAtOrigin(120, 80)),
	)
	cursor := mgl32.Vec2{15, 60}
	before := cam.PositionAtPixel(cursor)

	NewMapController().HandleEvents(cam, []event.Event{wheel(1, cursor[0], cursor[1])})

	assertVecNear(t, before, cam.PositionAtPixel(cursor), 1e-4)
}

func TestMapWheelEventsCompound(t *testing.T) {
	cam := orthoCamera()
	ctrl := NewMapController(WithDistanceBounds(1, 50))

	ctrl.HandleEvents(cam, []event.Event{wheel(1, 10, 10), wheel(1, 10, 10), wheel(-1, 90, 20)})

	assert.InDelta(t, 10*0.8*0.8*1.2, cam.Projection().Height, 1e-4)
	assert.Equal(t, float32(1), cam.Near())
	assert.Equal(t, float32(50), cam.Far())
}

func TestMapRejectedZoomLeavesViewAlone(t *testing.T) {
	for _, ctrl := range []CameraController{NewMapController(WithZoomFactor(0, 1.2)), NewBevController(WithZoomFactor(0, 1.2))} {
		t.Run(ctrl.Kind().String(), func(t *testing.T) {
			cam := orthoCamera()
			before := snapshot(cam)

			// a zero height is refused, so the pan towards the corner must not happen either
			assert.True(t, ctrl.HandleEvents(cam, []event.Event{wheel(1, 0, 0)}))
			assert.Equal(t, before, snapshot(cam))
		})
	}
}

func TestDistanceBoundsRejectDegenerateRange(t *testing.T) {
	assert.Panics(t, func() { WithDistanceBounds(5, 5) })
	assert.Panics(t, func() { WithDistanceBounds(3, 1) })
	assert.Panics(t, func() { WithDistanceBounds(-1, 2) })
	assert.NotPanics(t, func() { WithDistanceBounds(0, 10) })
}

func TestMapDragFollowsPointer(t *testing.T) {
	cam := orthoCamera()
	ev := drag(event.MouseButtonRight, 10, -20)

	NewMapController().HandleEvents(cam, []event.Event{ev, drag(event.MouseButtonLeft, 50, 50)})

	// 10 world units over 100 pixels
	assertVecNear(t, mgl32.Vec3{-1, -2, 10}, cam.Position(), 1e-5)
	assertVecNear(t, mgl32.Vec3{-1, -2, 0}, cam.Target(), 1e-5)
	assert.True(t, ev.Handled)
}

func TestMapIgnoresHorizontalScroll(t *testing.T) {
	cam := orthoCamera()
	before := snapshot(cam)
	ev := &event.MouseWheel{Delta: mgl32.Vec2{3, 0}, Position: mgl32.Vec2{10, 10}}

	assert.True(t, NewMapController().HandleEvents(cam, []event.Event{ev}))
	assert.Equal(t, before, snapshot(cam))
	assert.False(t, ev.Handled)
}

func TestBevMatchesMapWhenLookingDown(t *testing.T) {
	events := func() []event.Event {
		return []event.Event{drag(event.MouseButtonRight, 7, 3), wheel(1, 10, 80), wheel(-1, 60, 30)}
	}
	mapCam, bevCam := orthoCamera(), orthoCamera()

	NewMapController().HandleEvents(mapCam, events())
	NewBevController().HandleEvents(bevCam, events())

	assertVecNear(t, mapCam.Position(), bevCam.Position(), 1e-5)
	assert.InDelta(t, mapCam.Projection().Height, bevCam.Projection().Height, 1e-6)
}

func TestBevStaysParallelToGround(t *testing.T) {
	cam := NewCamera(
		WithView(mgl32.Vec3{0, -10, 10}, mgl32.Vec3{0, 0, 0}, common.AxisZ),
		WithOrthographic(10, 0.1, 100),
		WithViewport(common.NewViewportAtOrigin(100, 100)),
	)

	NewBevController().HandleEvents(cam, []event.Event{
		drag(event.MouseButtonRight, 10, 10),
		wheel(1, 0, 0),
	})

	assert.InDelta(t, 10, cam.Position()[2], 1e-5)
	assert.InDelta(t, 0, cam.Target()[2], 1e-5)
	assert.InDelta(t, 8, cam.Projection().Height, 1e-5)
}

func TestGroundAxesFallback(t *testing.T) {
	// camera rolled so the screen's horizontal axis is world Z
	right, up := groundAxes(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0})
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, right, 1e-6)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, up, 1e-6)

	// up nearly parallel to the view direction
	right, up = groundAxes(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0.01, 1})
	assert.InDelta(t, 1, right.Len(), 1e-5)
	assert.InDelta(t, 0, right[2], 1e-6)
	assert.InDelta(t, 0, right.Dot(up), 1e-5)
}

func TestFollowerZoomClamp(t *testing.T) {
	tests := []struct {
		name    string
		options []CameraControllerOption
		lo, hi  float32
	}{
		{"clip planes", nil, 1, 50},
		{"tighter bounds", []CameraControllerOption{WithDistanceBounds(2, 20)}, 2, 20},
		{"looser bounds", []CameraControllerOption{WithDistanceBounds(0, 500)}, 1, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(WithPerspective(1, 1, 50))
			ctrl := NewFollowerController(tt.options...)

			for range 40 {
				ctrl.HandleEvents(cam, []event.Event{wheel(-1, 0, 0)})
				d := cam.DistanceToTarget()
				require.LessOrEqual(t, d, tt.hi+1e-3)
				require.GreaterOrEqual(t, d, tt.lo-1e-3)
			}
			assert.InDelta(t, tt.hi, cam.DistanceToTarget(), 1e-3)

			batch := make([]event.Event, 0, 40)
			for range 40 {
				batch = append(batch, wheel(1, 0, 0))
			}
			ctrl.HandleEvents(cam, batch)
			assert.InDelta(t, tt.lo, cam.DistanceToTarget(), 1e-3)
			assertVecNear(t, mgl32.Vec3{}, cam.Target(), 1e-6)
		})
	}
}

func TestFollowerDragOrbitsTarget(t *testing.T) {
	cam := NewCamera()
	ev := drag(event.MouseButtonLeft, 90, 30)

	require.True(t, NewFollowerController().HandleEvents(cam, []event.Event{ev}))

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Target())
	assert.InDelta(t, 10, cam.DistanceToTarget(), 1e-4)
	// yaw 90 puts the camera on +X, pitch 30 lifts it
	assertVecNear(t, mgl32.Vec3{10 * math32.Cos(mgl32.DegToRad(30)), 5, 0}, cam.Position(), 1e-3)
	assert.True(t, ev.Handled)
}

func TestFollowerIgnoresRightDrag(t *testing.T) {
	cam := NewCamera()
	before := snapshot(cam)
	ev := drag(event.MouseButtonRight, 90, 30)

	NewFollowerController().HandleEvents(cam, []event.Event{ev})

	assert.Equal(t, before, snapshot(cam))
	assert.False(t, ev.Handled)
}

func flyCamera() Camera {
	return NewCamera(
		WithView(mgl32.Vec3{0, -10, 10}, mgl32.Vec3{0, 0, 0}, common.AxisZ),
		WithPerspective(1, 0.5, 40),
	)
}

func TestFlyZoomClampAndGroundPoint(t *testing.T) {
	cam := flyCamera()
	ctrl := NewFlyController()
	distanceToGround := func() float32 {
		return math32.Abs(cam.Position()[2] / cam.Direction()[2])
	}

	for range 60 {
		ctrl.HandleEvents(cam, []event.Event{wheel(-1, 0, 0), key(common.KeyS)})
		require.LessOrEqual(t, distanceToGround(), float32(40+1e-3))
		assertVecNear(t, mgl32.Vec3{}, cam.Target(), 1e-2)
	}
	assert.InDelta(t, 40, distanceToGround(), 1e-3)

	for range 60 {
		ctrl.HandleEvents(cam, []event.Event{wheel(1, 0, 0), key(common.KeyW)})
		require.GreaterOrEqual(t, distanceToGround(), float32(0.5-1e-3))
	}
	assert.InDelta(t, 0.5, distanceToGround(), 1e-3)
	assertVecNear(t, mgl32.Vec3{}, cam.Target(), 1e-2)
}

func TestFlyZoomStep(t *testing.T) {
	cam := flyCamera()
	start := cam.DistanceToTarget()

	NewFlyController().HandleEvents(cam, []event.Event{wheel(1, 0, 0)})

	assert.InDelta(t, start*0.9, cam.DistanceToTarget(), 1e-4)
}

func TestFlyPanAndKeys(t *testing.T) {
	cam := NewCamera()
	ctrl := NewFlyController()

	ctrl.HandleEvents(cam, []event.Event{drag(event.MouseButtonRight, 3, 2)})
	assertVecNear(t, mgl32.Vec3{-3, 2, 10}, cam.Position(), 1e-5)
	assertVecNear(t, mgl32.Vec3{-3, 2, 0}, cam.Target(), 1e-5)

	// distance to ground is 10, speed 0.1
	ctrl.HandleEvents(cam, []event.Event{key(common.KeyArrowRight), key(common.KeyArrowUp)})
	assertVecNear(t, mgl32.Vec3{-2, 3, 10}, cam.Position(), 1e-5)

	ev := key(common.KeyA)
	ctrl.HandleEvents(cam, []event.Event{ev})
	assertVecNear(t, mgl32.Vec3{-2, 3, 10}, cam.Position(), 1e-5)
	assert.InDelta(t, math32.Cos(mgl32.DegToRad(5)), cam.Direction().Dot(mgl32.Vec3{0, 0, -1}), 1e-5)
	assert.True(t, ev.Handled)

	other := key(common.KeyQ)
	ctrl.HandleEvents(cam, []event.Event{other})
	assert.False(t, other.Handled)
}

func TestFlyYawStepOption(t *testing.T) {
	cam := NewCamera()
	NewFlyController(WithYawStep(90)).HandleEvents(cam, []event.Event{key(common.KeyD)})
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, cam.Direction(), 1e-5)
}
