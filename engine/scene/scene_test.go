package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/Carmen-Shannon/oxy-view/engine/game_object"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/picker"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) Scene {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeSoftware)
	t.Cleanup(r.Release)
	cam := camera.NewCamera(
		camera.WithView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, common.AxisY),
		camera.WithOrthographic(10, 0.1, 50),
		camera.WithViewport(common.NewViewportAtOrigin(100, 100)),
	)
	return NewScene("test", cam, r, options...)
}

func boxObject(x, y, z float32) game_object.GameObject {
	return game_object.NewGameObject(
		game_object.WithModel(model.NewBox("box", mgl32.Vec3{2, 2, 2})),
		game_object.WithPosition(x, y, z),
	)
}

func TestNewSceneRequiresCameraAndRenderer(t *testing.T) {
	assert.Panics(t, func() { NewScene("s", nil, renderer.NewRenderer(renderer.BackendTypeSoftware)) })
	assert.Panics(t, func() { NewScene("s", camera.NewCamera(), nil) })
}

func TestRegistry(t *testing.T) {
	s := newTestScene(t, WithObjects(boxObject(0, 0, 0)))
	assert.Equal(t, 1, s.Count())

	fixed := game_object.NewGameObject(game_object.WithID(40))
	assert.Equal(t, uint64(40), s.Add(fixed))
	id := s.Add(boxObject(1, 0, 0))
	assert.NotZero(t, id)
	assert.Equal(t, 3, s.Count())

	objects := s.Objects()
	require.Len(t, objects, 3)
	assert.Less(t, objects[0].ID(), objects[1].ID())
	assert.Less(t, objects[1].ID(), objects[2].ID())
	assert.Same(t, fixed, s.Get(40))

	s.Remove(40)
	assert.Nil(t, s.Get(40))
	assert.Equal(t, 2, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestHandleEventsRoutesToController(t *testing.T) {
	s := newTestScene(t)
	wheel := &event.MouseWheel{Delta: mgl32.Vec2{0, 1}, Position: mgl32.Vec2{50, 50}}

	assert.False(t, s.HandleEvents([]event.Event{wheel}))
	assert.False(t, wheel.Handled)

	s.SetController(camera.NewMapController())
	assert.True(t, s.HandleEvents([]event.Event{wheel}))
	assert.True(t, wheel.Handled)
	assert.InDelta(t, 8, s.Camera().Projection().Height, 1e-5)

	s.SetActive(false)
	assert.False(t, s.HandleEvents([]event.Event{&event.MouseWheel{Delta: mgl32.Vec2{0, 1}}}))
	assert.InDelta(t, 8, s.Camera().Projection().Height, 1e-5)
}

func TestScenePick(t *testing.T) {
	s := newTestScene(t, WithObjects(boxObject(-2, 1, 0)))

	hit, ok, err := s.Pick(mgl32.Vec2{32, 38})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -1.8, hit.X(), 1e-3)
	assert.InDelta(t, 1.2, hit.Y(), 1e-3)
	assert.InDelta(t, 1, hit.Z(), 1e-3)

	_, ok, err = s.Pick(mgl32.Vec2{90, 90})
	require.NoError(t, err)
	assert.False(t, ok)

	// the box face is 8.9 units past the near plane
	s.SetPickDepth(5)
	_, ok, err = s.Pick(mgl32.Vec2{32, 38})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenePickOutsideViewportMisses(t *testing.T) {
	obj := boxObject(-6.2, 0.3, 0)
	s := newTestScene(t, WithObjects(obj))
	pixel := mgl32.Vec2{-10, 50}

	// the ray left of the viewport still meets the box
	_, ok, err := picker.Pick(s.Renderer(), s.Camera(), pixel, 50, []picker.Geometry{obj})
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = s.Pick(pixel)
	require.NoError(t, err)
	assert.False(t, ok)
}
