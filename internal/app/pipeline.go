package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingersign/internal/capture"
	"github.com/ayusman/fingersign/internal/display"
	"github.com/ayusman/fingersign/internal/gesture"
)

// Run executes the recognition loop until a key is pressed in the window,
// ctx is cancelled, or the camera stops delivering frames. Each frame is
// processed completely before the next one is read.
//
// The camera, detector and window are released on every return path.
// A missing detector or a camera that cannot be opened is an error; running
// out of frames is not.
func (a *App) Run(ctx context.Context) error {
	if err := a.Ready(); err != nil {
		return err
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}()

	defer func() {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}()

	if a.display == nil {
		a.display = display.NewWindow(a.config.WindowTitle)
	}
	defer func() {
		if err := a.display.Close(); err != nil {
			log.Printf("Error closing window: %v", err)
		}
	}()

	log.Println("Recognition loop started")
	defer log.Println("Recognition loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Failed to capture frame, exiting: %v", err)
			return nil
		}

		stop, err := a.step(frame)
		frame.Close()
		if err != nil {
			log.Printf("Failed to process frame, exiting: %v", err)
			return nil
		}
		if stop {
			return nil
		}
	}
}

// step processes and shows one frame and reports whether a key was pressed.
func (a *App) step(frame *gocv.Mat) (bool, error) {
	if _, err := a.ProcessFrame(frame); err != nil {
		return false, err
	}

	if err := a.display.Show(frame); err != nil {
		log.Printf("Error showing frame: %v", err)
	}

	return a.display.KeyPressed(), nil
}

// ProcessFrame prepares frame in place (mirror, resize), detects hands,
// annotates each one and notifies the listeners.
func (a *App) ProcessFrame(frame *gocv.Mat) (gesture.FrameResult, error) {
	if err := capture.Prepare(frame, a.config.Mirror, frameSize()); err != nil {
		return gesture.FrameResult{}, err
	}

	a.seq++
	result := gesture.FrameResult{
		Seq:    a.seq,
		Time:   time.Now(),
		Width:  frame.Cols(),
		Height: frame.Rows(),
	}

	if a.detector != nil {
		hands, err := a.detector.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
		}

		for i := range hands {
			hand := &hands[i]

			rec, err := a.recognizer.Recognize(hand)
			if err != nil {
				log.Printf("Error recognizing hand %d: %v", i, err)
				continue
			}

			a.annotator.Draw(frame, hand, rec)
			result.Recognitions = append(result.Recognitions, rec)
		}
	}

	for _, l := range a.results {
		l.OnResult(result)
	}
	for _, l := range a.frames {
		l.OnFrame(frame)
	}

	return result, nil
}
