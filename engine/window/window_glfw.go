package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-view/engine/event"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW handle behind an engineWindow.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window, routes its input callbacks into the window's event
// queue and stores it as the internal window.
//
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Picking renders headlessly, so the window needs no client API.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if w.closeOnEscape && key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.pushKey(event.Key(key), true, modifiersFromGLFW(mods))
		case glfw.Release:
			w.pushKey(event.Key(key), false, modifiersFromGLFW(mods))
		}
	})

	win.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.pushText(char)
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.pushScroll(xoff, yoff)
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := buttonFromGLFW(button)
		if !ok {
			return
		}
		xpos, ypos := win.GetCursorPos()
		w.pushButton(b, action == glfw.Press, xpos, ypos, modifiersFromGLFW(mods))
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.pushCursor(xpos, ypos)
	})

	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		w.pushEnter(entered)
	})

	// Framebuffer size is in pixels and differs from the window size on high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resize(width, height, pixelRatio(win, width))
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.resize(fbWidth, fbHeight, pixelRatio(win, fbWidth))

	return nil
}

// pixelRatio returns framebuffer pixels per screen unit, 0 if the window has no width.
func pixelRatio(win *glfw.Window, fbWidth int) float32 {
	winWidth, _ := win.GetSize()
	if winWidth <= 0 {
		return 0
	}
	return float32(fbWidth) / float32(winWidth)
}

func modifiersFromGLFW(mods glfw.ModifierKey) event.Modifiers {
	return event.Modifiers{
		Shift: mods&glfw.ModShift != 0,
		Ctrl:  mods&glfw.ModControl != 0,
		Alt:   mods&glfw.ModAlt != 0,
		Super: mods&glfw.ModSuper != 0,
	}
}

func buttonFromGLFW(button glfw.MouseButton) (event.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return event.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return event.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return event.MouseButtonMiddle, true
	default:
		return 0, false
	}
}

// platformIsRunningCheck is false once the window was closed from either side.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the window and shuts GLFW down.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages runs the pending GLFW callbacks, which push into the event queue.
//
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
