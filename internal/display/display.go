// Package display shows frames in a desktop window and reports key presses.
package display

import (
	"errors"

	"gocv.io/x/gocv"
)

// DefaultKeyDelayMs is how long KeyPressed waits for input.
const DefaultKeyDelayMs = 5

// Display shows frames and reports the stop signal.
type Display interface {
	// Show renders frame.
	Show(frame *gocv.Mat) error
	// KeyPressed waits briefly for input and reports whether any key was pressed.
	KeyPressed() bool
	// Close destroys the window.
	Close() error
}

// Window is a HighGUI window.
type Window struct {
	window  *gocv.Window
	delayMs int
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{
		window:  gocv.NewWindow(title),
		delayMs: DefaultKeyDelayMs,
	}
}

// Show renders frame in the window.
func (w *Window) Show(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return errors.New("empty frame")
	}
	w.window.IMShow(*frame)
	return nil
}

// KeyPressed polls the window's event loop. WaitKey returns -1 on timeout.
func (w *Window) KeyPressed() bool {
	return w.window.WaitKey(w.delayMs) != -1
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}
