package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int { return m.calls }

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool { return m.closed }

// fingerColumns are the x positions of the index, middle, ring and pinky columns.
var fingerColumns = [4]float64{0.55, 0.50, 0.45, 0.40}

// PoseLandmarks builds a synthetic hand, as seen in a mirrored frame, whose
// fingers are extended according to open (thumb, index, middle, ring, pinky).
// Extended fingers have their tip above the PIP joint; folded fingers have it
// below. An open thumb points away from the palm along x: to the right for a
// "Right" hand, to the left otherwise.
func PoseLandmarks(handedness string, open [5]bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Thumb moves laterally; direction depends on the hand.
	dir := 1.0
	if handedness != HandRight {
		dir = -1.0
	}
	landmarks.Points[ThumbCMC] = Point3D{X: 0.5 + dir*0.05, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.5 + dir*0.09, Y: 0.70}
	landmarks.Points[ThumbIP] = Point3D{X: 0.5 + dir*0.12, Y: 0.66}
	if open[0] {
		landmarks.Points[ThumbTip] = Point3D{X: 0.5 + dir*0.17, Y: 0.62}
	} else {
		landmarks.Points[ThumbTip] = Point3D{X: 0.5 + dir*0.08, Y: 0.66}
	}

	for i, mcp := range []int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP} {
		x := fingerColumns[i]
		landmarks.Points[mcp] = Point3D{X: x, Y: 0.68}
		if open[i+1] {
			landmarks.Points[mcp+1] = Point3D{X: x, Y: 0.55}
			landmarks.Points[mcp+2] = Point3D{X: x, Y: 0.45}
			landmarks.Points[mcp+3] = Point3D{X: x, Y: 0.35}
		} else {
			landmarks.Points[mcp+1] = Point3D{X: x, Y: 0.60, Z: -0.05}
			landmarks.Points[mcp+2] = Point3D{X: x, Y: 0.66, Z: -0.04}
			landmarks.Points[mcp+3] = Point3D{X: x, Y: 0.70, Z: -0.02}
		}
	}

	return landmarks
}

// OpenPalmLandmarks returns a right hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(HandRight, [5]bool{true, true, true, true, true})
}

// FistLandmarks returns a right hand with every finger folded.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(HandRight, [5]bool{})
}

// PeaceLandmarks returns a right hand with index and middle extended.
func PeaceLandmarks() HandLandmarks {
	return PoseLandmarks(HandRight, [5]bool{false, true, true, false, false})
}
