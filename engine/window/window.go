package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/go-gl/mathgl/mgl32"
)

// Window provides a platform window whose input is normalised into event.Events.
// Every callback the platform delivers is pushed onto the window's event.Queue, which the host
// drains once per frame.
type Window interface {
	// Events returns the queue the window pushes input events onto.
	//
	// Returns:
	//   - event.Queue: the window's event queue
	Events() event.Queue

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state and the input translation state.
type engineWindow struct {
	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// pixelRatio converts cursor coordinates from screen units to framebuffer pixels.
	pixelRatio float32

	// closeOnEscape makes the Escape key close the window instead of emitting an event.
	closeOnEscape bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	queue event.Queue

	// held is the button whose press started the current drag, nil when none.
	held      *event.MouseButton
	cursor    mgl32.Vec2
	hasCursor bool
	modifiers event.Modifiers

	onUpdate func()
	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:            &sync.Mutex{},
		title:         "Default Window Title",
		maxWidth:      1600,
		maxHeight:     1200,
		minWidth:      600,
		minHeight:     200,
		width:         1280,
		height:        720,
		pixelRatio:    1,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.queue == nil {
		w.queue = event.NewQueue()
	}
	return w
}

func (w *engineWindow) Events() event.Queue {
	return w.queue
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// resize records a new framebuffer size and notifies the resize callback.
func (w *engineWindow) resize(width, height int, pixelRatio float32) {
	w.mu.Lock()
	w.width, w.height = width, height
	if pixelRatio > 0 {
		w.pixelRatio = pixelRatio
	}
	w.mu.Unlock()

	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// toPixels converts a cursor position in screen units to framebuffer pixels.
func (w *engineWindow) toPixels(x, y float64) mgl32.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return mgl32.Vec2{float32(x), float32(y)}.Mul(w.pixelRatio)
}

func (w *engineWindow) pushModifiers(mods event.Modifiers) {
	if mods == w.modifiers {
		return
	}
	w.modifiers = mods
	w.queue.Push(&event.ModifiersChange{Modifiers: mods})
}

func (w *engineWindow) pushKey(key event.Key, down bool, mods event.Modifiers) {
	w.pushModifiers(mods)
	if down {
		w.queue.Push(&event.KeyPress{Key: key, Modifiers: mods})
		return
	}
	w.queue.Push(&event.KeyRelease{Key: key, Modifiers: mods})
}

func (w *engineWindow) pushButton(button event.MouseButton, down bool, x, y float64, mods event.Modifiers) {
	w.pushModifiers(mods)
	pos := w.toPixels(x, y)
	if down {
		if w.held == nil {
			b := button
			w.held = &b
		}
		w.queue.Push(&event.MousePress{Button: button, Position: pos, Modifiers: mods})
		return
	}
	if w.held != nil && *w.held == button {
		w.held = nil
	}
	w.queue.Push(&event.MouseRelease{Button: button, Position: pos, Modifiers: mods})
}

// pushCursor emits a motion event carrying the delta since the previous cursor position.
// The first position after the pointer enters carries a zero delta.
func (w *engineWindow) pushCursor(x, y float64) {
	pos := w.toPixels(x, y)
	var delta mgl32.Vec2
	if w.hasCursor {
		delta = pos.Sub(w.cursor)
	}
	w.cursor, w.hasCursor = pos, true

	var held *event.MouseButton
	if w.held != nil {
		b := *w.held
		held = &b
	}
	w.queue.Push(&event.MouseMotion{Button: held, Delta: delta, Position: pos, Modifiers: w.modifiers})
}

func (w *engineWindow) pushScroll(dx, dy float64) {
	w.queue.Push(&event.MouseWheel{
		Delta:     mgl32.Vec2{float32(dx), float32(dy)},
		Position:  w.cursor,
		Modifiers: w.modifiers,
	})
}

func (w *engineWindow) pushEnter(entered bool) {
	if entered {
		w.queue.Push(&event.MouseEnter{})
		return
	}
	w.hasCursor = false
	w.queue.Push(&event.MouseLeave{})
}

func (w *engineWindow) pushText(r rune) {
	w.queue.Push(&event.Text{Text: string(r)})
}
