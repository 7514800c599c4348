package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragProducesMotionWithButtonAndDelta(t *testing.T) {
	w := newEngineWindow()

	w.pushCursor(10, 10)
	w.pushButton(event.MouseButtonLeft, true, 10, 10, event.Modifiers{})
	w.pushCursor(14, 7)
	w.pushButton(event.MouseButtonLeft, false, 14, 7, event.Modifiers{})
	w.pushCursor(15, 7)

	batch := w.Events().Drain()
	require.Len(t, batch, 5)

	first := batch[0].(*event.MouseMotion)
	assert.Nil(t, first.Button)
	assert.Equal(t, mgl32.Vec2{}, first.Delta)

	drag := batch[2].(*event.MouseMotion)
	assert.True(t, drag.Dragging(event.MouseButtonLeft))
	assert.Equal(t, mgl32.Vec2{4, -3}, drag.Delta)
	assert.Equal(t, mgl32.Vec2{14, 7}, drag.Position)

	assert.IsType(t, &event.MouseRelease{}, batch[3])
	assert.Nil(t, batch[4].(*event.MouseMotion).Button)
}

func TestSecondButtonDoesNotReplaceDrag(t *testing.T) {
	w := newEngineWindow()

	w.pushButton(event.MouseButtonMiddle, true, 0, 0, event.Modifiers{})
	w.pushButton(event.MouseButtonLeft, true, 0, 0, event.Modifiers{})
	w.pushButton(event.MouseButtonLeft, false, 0, 0, event.Modifiers{})
	w.pushCursor(1, 1)

	batch := w.Events().Drain()
	assert.True(t, batch[len(batch)-1].(*event.MouseMotion).Dragging(event.MouseButtonMiddle))
}

func TestPixelRatioScalesPositions(t *testing.T) {
	w := newEngineWindow()
	w.resize(200, 100, 2)

	w.pushCursor(10, 5)
	w.pushScroll(0, 1)

	batch := w.Events().Drain()
	require.Len(t, batch, 2)
	assert.Equal(t, mgl32.Vec2{20, 10}, batch[0].(*event.MouseMotion).Position)
	wheel := batch[1].(*event.MouseWheel)
	assert.Equal(t, mgl32.Vec2{0, 1}, wheel.Delta)
	assert.Equal(t, mgl32.Vec2{20, 10}, wheel.Position)
	assert.Equal(t, 200, w.Width())
	assert.Equal(t, 100, w.Height())
}

func TestKeysEmitModifierChangesOnce(t *testing.T) {
	w := newEngineWindow()
	shift := event.Modifiers{Shift: true}

	w.pushKey(common.KeyW, true, shift)
	w.pushKey(common.KeyW, false, shift)
	w.pushKey(common.KeyA, true, event.Modifiers{})

	batch := w.Events().Drain()
	require.Len(t, batch, 5)
	assert.Equal(t, shift, batch[0].(*event.ModifiersChange).Modifiers)
	assert.Equal(t, event.Key(common.KeyW), batch[1].(*event.KeyPress).Key)
	assert.IsType(t, &event.KeyRelease{}, batch[2])
	assert.Equal(t, event.Modifiers{}, batch[3].(*event.ModifiersChange).Modifiers)
	assert.Equal(t, event.Key(common.KeyA), batch[4].(*event.KeyPress).Key)
	assert.Equal(t, event.Modifiers{}, w.Events().Modifiers())
}

func TestLeaveResetsMotionDelta(t *testing.T) {
	w := newEngineWindow()

	w.pushCursor(5, 5)
	w.pushEnter(false)
	w.pushEnter(true)
	w.pushCursor(50, 50)
	w.pushText('x')

	batch := w.Events().Drain()
	require.Len(t, batch, 5)
	assert.IsType(t, &event.MouseLeave{}, batch[1])
	assert.IsType(t, &event.MouseEnter{}, batch[2])
	assert.Equal(t, mgl32.Vec2{}, batch[3].(*event.MouseMotion).Delta)
	assert.Equal(t, "x", batch[4].(*event.Text).Text)
}

func TestSharedQueue(t *testing.T) {
	q := event.NewQueue()
	w := newEngineWindow(WithEventQueue(q), WithTitle("t"), WithCloseOnEscape(false))

	w.pushScroll(0, -1)
	assert.Same(t, q, w.Events())
	assert.Equal(t, 1, q.Len())
	assert.False(t, w.closeOnEscape)
}

func TestGLFWTranslation(t *testing.T) {
	mods := modifiersFromGLFW(glfw.ModShift | glfw.ModSuper)
	assert.Equal(t, event.Modifiers{Shift: true, Super: true}, mods)

	b, ok := buttonFromGLFW(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, event.MouseButtonRight, b)
	_, ok = buttonFromGLFW(glfw.MouseButton4)
	assert.False(t, ok)
}
