package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/game_object"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMapScene(t *testing.T, name string) scene.Scene {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeSoftware)
	t.Cleanup(r.Release)
	cam := camera.NewCamera(
		camera.WithView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, common.AxisY),
		camera.WithOrthographic(10, 0.1, 50),
		camera.WithViewport(common.NewViewportAtOrigin(100, 100)),
	)
	return scene.NewScene(name, cam, r, scene.WithController(camera.NewMapController()))
}

func TestStepRoutesBatchToInputScene(t *testing.T) {
	back, front := newMapScene(t, "back"), newMapScene(t, "front")
	e := NewEngine(WithScene(0, back), WithScene(1, front)).(*engine)

	var seen []event.Event
	e.SetTickCallback(func(_ float32, events []event.Event) {
		seen = events
	})

	wheel := &event.MouseWheel{Delta: mgl32.Vec2{0, 1}, Position: mgl32.Vec2{50, 50}}
	e.Events().Push(wheel)
	e.step(1.0 / 60)

	require.Len(t, seen, 1)
	assert.True(t, wheel.Handled)
	assert.InDelta(t, 8, front.Camera().Projection().Height, 1e-5)
	assert.InDelta(t, 10, back.Camera().Projection().Height, 1e-5)
	assert.Zero(t, e.Events().Len())

	front.SetActive(false)
	assert.Same(t, back, e.InputScene())
}

func TestPickRecordsThroughInputScene(t *testing.T) {
	e := NewEngine()
	_, _, err := e.Pick(mgl32.Vec2{})
	assert.ErrorIs(t, err, ErrNoInputScene)

	s := newMapScene(t, "main")
	s.Add(game_object.NewGameObject(game_object.WithModel(model.NewBox("box", mgl32.Vec3{4, 4, 4}))))
	e.AddScene(0, s)

	hit, ok, err := e.Pick(mgl32.Vec2{45, 55})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Z(), 1e-3)

	e.RemoveScene(0)
	assert.Nil(t, e.Scene(0))
}

func TestResizeUpdatesSceneViewports(t *testing.T) {
	s := newMapScene(t, "main")
	e := NewEngine(WithScene(0, s)).(*engine)

	e.resize(320, 200)
	assert.Equal(t, common.NewViewportAtOrigin(320, 200), s.Camera().Viewport())

	e.resize(0, 200)
	assert.Equal(t, common.NewViewportAtOrigin(320, 200), s.Camera().Viewport())
}

func TestRunStopsOnQuit(t *testing.T) {
	q := event.NewQueue()
	e := NewEngine(WithEventQueue(q), WithTickRate(500), WithProfiling(true))
	assert.Same(t, q, e.Events())
	assert.Nil(t, e.Window())

	ticks := make(chan struct{}, 1)
	e.SetTickCallback(func(float32, []event.Event) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-ticks:
	case <-time.After(5 * time.Second):
		t.Fatal("engine never ticked")
	}
	e.SetTickRate(120)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}
