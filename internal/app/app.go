// Package app wires the camera, hand detector, classifier, annotator and
// window into the recognition loop.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingersign/internal/annotate"
	"github.com/ayusman/fingersign/internal/capture"
	"github.com/ayusman/fingersign/internal/detector"
	"github.com/ayusman/fingersign/internal/display"
	"github.com/ayusman/fingersign/internal/gesture"
)

// Frame geometry of the processing pipeline.
const (
	FrameWidth  = capture.DefaultWidth
	FrameHeight = capture.DefaultHeight
)

// DefaultWindowTitle is the title of the preview window.
const DefaultWindowTitle = "Frame"

// Config holds configuration options for the application.
type Config struct {
	CameraID int
	// Mirror flips frames horizontally before detection. The thumb rule of
	// the classifier assumes it is on.
	Mirror          bool
	WindowTitle     string
	Detector        detector.Config
	MediaPipeScript string
	PythonPath      string
}

// DefaultConfig returns the configuration of the standard webcam setup.
func DefaultConfig() Config {
	return Config{
		CameraID:    capture.DefaultDevice,
		Mirror:      true,
		WindowTitle: DefaultWindowTitle,
		Detector:    detector.DefaultConfig(),
	}
}

// ErrNoDetector is returned by Run when no hand detector is available.
var ErrNoDetector = errors.New("no hand detector")

// ResultListener receives the recognitions of every processed frame.
type ResultListener interface {
	OnResult(result gesture.FrameResult)
}

// FrameListener receives every annotated frame. The Mat is only valid for
// the duration of the call.
type FrameListener interface {
	OnFrame(frame *gocv.Mat)
}

// App runs the recognition loop.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	detectErr  error
	display    display.Display
	recognizer *gesture.Recognizer
	annotator  *annotate.Annotator
	results    []ResultListener
	frames     []FrameListener
	seq        uint64
}

// New creates a new App that resolves labels with table.
func New(config Config, table *gesture.SymbolTable) *App {
	if config.WindowTitle == "" {
		config.WindowTitle = DefaultWindowTitle
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		recognizer: gesture.NewRecognizer(gesture.NewResolver(table), FrameWidth, FrameHeight, gesture.DefaultPadding),
		annotator:  annotate.New(),
	}

	// Without MediaPipe the detector stays unset and Run fails unless
	// SetDetector provides one.
	if mp, err := detector.NewMediaPipeDetector(config.Detector, config.MediaPipeScript, config.PythonPath); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		a.detectErr = err
	}

	return a
}

// SetCamera replaces the camera. It must be called before Run.
func (a *App) SetCamera(c capture.Camera) {
	a.camera = c
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.detector = d
	a.detectErr = nil
}

// SetDisplay replaces the window. Without one, Run opens a HighGUI window.
func (a *App) SetDisplay(d display.Display) {
	a.display = d
}

// Ready reports whether a hand detector is available. The error wraps
// ErrNoDetector and the reason MediaPipe could not be set up.
func (a *App) Ready() error {
	if a.detector != nil {
		return nil
	}
	if a.detectErr != nil {
		return fmt.Errorf("%w: %v", ErrNoDetector, a.detectErr)
	}
	return ErrNoDetector
}

// AddResultListener registers l for every frame's recognitions.
func (a *App) AddResultListener(l ResultListener) {
	a.results = append(a.results, l)
}

// AddFrameListener registers l for every annotated frame.
func (a *App) AddFrameListener(l FrameListener) {
	a.frames = append(a.frames, l)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// frameSize is the size every frame is resized to before detection.
func frameSize() image.Point {
	return image.Pt(FrameWidth, FrameHeight)
}
