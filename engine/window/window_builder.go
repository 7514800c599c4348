package window

import (
	"github.com/Carmen-Shannon/oxy-view/engine/event"
)

// WindowBuilderOption configures a window in NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSizeLimits sets the minimum and maximum window size.
//
// Parameters:
//   - minWidth, minHeight: minimum size in pixels
//   - maxWidth, maxHeight: maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithWidth sets the requested width in screen units. The framebuffer may be larger on high-DPI displays.
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the requested height in screen units.
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithEventQueue makes the window push onto an existing queue instead of creating its own.
//
// Parameters:
//   - q: the queue to push events onto
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithEventQueue(q event.Queue) WindowBuilderOption {
	return func(w *engineWindow) {
		w.queue = q
	}
}

// WithCloseOnEscape sets whether the Escape key closes the window. Enabled by default; when
// disabled Escape is delivered as an ordinary key event.
//
// Parameters:
//   - enabled: true to close on Escape
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseOnEscape(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeOnEscape = enabled
	}
}
