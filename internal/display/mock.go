package display

import "gocv.io/x/gocv"

// MockDisplay records shown frames and reports a key press after a fixed
// number of polls.
type MockDisplay struct {
	// PressAfter is the 1-based poll on which a key press is reported.
	// Zero never reports one.
	PressAfter int

	shown  int
	polls  int
	closed bool
	last   gocv.Mat
}

// NewMockDisplay creates a MockDisplay that reports a key press on poll pressAfter.
func NewMockDisplay(pressAfter int) *MockDisplay {
	return &MockDisplay{PressAfter: pressAfter, last: gocv.NewMat()}
}

// Show keeps a copy of frame.
func (m *MockDisplay) Show(frame *gocv.Mat) error {
	m.shown++
	frame.CopyTo(&m.last)
	return nil
}

// KeyPressed reports true once PressAfter polls have happened.
func (m *MockDisplay) KeyPressed() bool {
	m.polls++
	return m.PressAfter > 0 && m.polls >= m.PressAfter
}

// Close releases the stored frame.
func (m *MockDisplay) Close() error {
	m.closed = true
	return m.last.Close()
}

// Shown returns the number of frames shown.
func (m *MockDisplay) Shown() int { return m.shown }

// Closed reports whether Close was called.
func (m *MockDisplay) Closed() bool { return m.closed }

// Last returns the most recently shown frame.
func (m *MockDisplay) Last() *gocv.Mat { return &m.last }
