package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Prepare mirrors frame horizontally when mirror is set and resizes it to
// size, in place. Mirroring gives the selfie view the gesture classifier
// expects.
func Prepare(frame *gocv.Mat, mirror bool, size image.Point) error {
	if frame == nil || frame.Empty() {
		return ErrNoFrame
	}

	if mirror {
		gocv.Flip(*frame, frame, 1)
	}

	if frame.Cols() == size.X && frame.Rows() == size.Y {
		return nil
	}

	resized := gocv.NewMat()
	defer resized.Close()

	gocv.Resize(*frame, &resized, size, 0, 0, gocv.InterpolationLinear)
	if resized.Empty() {
		return fmt.Errorf("resize to %dx%d failed", size.X, size.Y)
	}
	resized.CopyTo(frame)

	return nil
}
