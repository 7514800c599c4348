// Package event defines the normalized input events delivered to camera controllers once per frame.
package event

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = common.MouseButtonLeft
	MouseButtonRight  MouseButton = common.MouseButtonRight
	MouseButtonMiddle MouseButton = common.MouseButtonMiddle
)

// String returns a human readable name for the button.
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// Key is a virtual key code. Values match the constants in package common.
type Key int

// Modifiers is the state of the keyboard modifier keys at the time of an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Super bool
}

// Event is one input event. The set of implementations is closed to this package.
// Variants are delivered as pointers so controllers can mark them handled in place.
type Event interface {
	isEvent()
}

// MousePress is emitted when a pointer button goes down.
type MousePress struct {
	Button    MouseButton
	Position  mgl32.Vec2 // physical pixels, top-left origin
	Modifiers Modifiers
	Handled   bool
}

// MouseRelease is emitted when a pointer button goes up.
type MouseRelease struct {
	Button    MouseButton
	Position  mgl32.Vec2
	Modifiers Modifiers
	Handled   bool
}

// MouseMotion is emitted when the pointer moves.
type MouseMotion struct {
	// Button is the button held during the motion, or nil when none is held.
	Button    *MouseButton
	Delta     mgl32.Vec2 // pixels moved since the previous motion event, y down
	Position  mgl32.Vec2
	Modifiers Modifiers
	Handled   bool
}

// Dragging reports whether the motion happened while button b was held.
func (m *MouseMotion) Dragging(b MouseButton) bool {
	return m.Button != nil && *m.Button == b
}

// MouseWheel is emitted when the scroll wheel or trackpad scrolls.
// A positive Delta y zooms in.
type MouseWheel struct {
	Delta     mgl32.Vec2
	Position  mgl32.Vec2
	Modifiers Modifiers
	Handled   bool
}

// KeyPress is emitted when a key goes down, including auto-repeat.
type KeyPress struct {
	Key       Key
	Modifiers Modifiers
	Handled   bool
}

// KeyRelease is emitted when a key goes up.
type KeyRelease struct {
	Key       Key
	Modifiers Modifiers
	Handled   bool
}

// ModifiersChange is emitted when the modifier state changes.
type ModifiersChange struct {
	Modifiers Modifiers
}

// Text carries committed text input.
type Text struct {
	Text string
}

// MouseEnter is emitted when the pointer enters the window.
type MouseEnter struct{}

// MouseLeave is emitted when the pointer leaves the window.
type MouseLeave struct{}

func (*MousePress) isEvent()      {}
func (*MouseRelease) isEvent()    {}
func (*MouseMotion) isEvent()     {}
func (*MouseWheel) isEvent()      {}
func (*KeyPress) isEvent()        {}
func (*KeyRelease) isEvent()      {}
func (*ModifiersChange) isEvent() {}
func (*Text) isEvent()            {}
func (*MouseEnter) isEvent()      {}
func (*MouseLeave) isEvent()      {}

// IsHandled reports whether a controller or other consumer has marked e as handled.
// Events without a handled flag always report false.
//
// Parameters:
//   - e: the event to inspect
//
// Returns:
//   - bool: the event's handled flag
func IsHandled(e Event) bool {
	switch ev := e.(type) {
	case *MousePress:
		return ev.Handled
	case *MouseRelease:
		return ev.Handled
	case *MouseMotion:
		return ev.Handled
	case *MouseWheel:
		return ev.Handled
	case *KeyPress:
		return ev.Handled
	case *KeyRelease:
		return ev.Handled
	}
	return false
}
