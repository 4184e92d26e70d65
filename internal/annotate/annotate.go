// Package annotate draws recognition results onto video frames.
package annotate

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingersign/internal/detector"
	"github.com/ayusman/fingersign/internal/gesture"
)

// Drawing constants.
const (
	FontScale     = 0.35
	FontThickness = 1
	// lineGap is the vertical spacing around the text lines in pixels.
	lineGap = 10
)

var (
	landmarkColor   = color.RGBA{R: 255, A: 255}
	connectionColor = color.RGBA{G: 255, A: 255}
	boxColor        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	backgroundColor = color.RGBA{A: 255}
)

// Annotator draws the hand skeleton, bounding box and label block.
type Annotator struct {
	font gocv.HersheyFont
}

// New creates an Annotator using the Hershey Simplex font.
func New() *Annotator {
	return &Annotator{font: gocv.FontHersheySimplex}
}

// Draw annotates frame with one hand. The landmarks are mapped to the frame's
// own pixel size.
func (a *Annotator) Draw(frame *gocv.Mat, hand *detector.HandLandmarks, rec gesture.Recognition) {
	if frame == nil || frame.Empty() {
		return
	}

	if hand != nil {
		a.drawSkeleton(frame, hand)
	}

	gocv.Rectangle(frame, rec.Box, boxColor, 1)

	first, second := Lines(rec)
	firstSize := gocv.GetTextSize(first, a.font, FontScale, FontThickness)
	secondSize := gocv.GetTextSize(second, a.font, FontScale, FontThickness)

	l := layoutText(rec.Box, firstSize, secondSize)

	gocv.Rectangle(frame, l.background, backgroundColor, -1)
	gocv.PutText(frame, first, l.first, a.font, FontScale, textColor, FontThickness)
	gocv.PutText(frame, second, l.second, a.font, FontScale, textColor, FontThickness)
}

func (a *Annotator) drawSkeleton(frame *gocv.Mat, hand *detector.HandLandmarks) {
	width, height := frame.Cols(), frame.Rows()

	for _, c := range detector.Connections {
		p1 := gesture.PixelPoint(hand.Points[c[0]], width, height)
		p2 := gesture.PixelPoint(hand.Points[c[1]], width, height)
		gocv.Line(frame, p1, p2, connectionColor, 2)
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, gesture.PixelPoint(p, width, height), 2, landmarkColor, 2)
	}
}

// Lines returns the two overlay lines for a recognition.
func Lines(rec gesture.Recognition) (string, string) {
	return fmt.Sprintf("Fingers up: %d - %s", rec.FingersUp, rec.Label),
		fmt.Sprintf("Index Tip: (%d, %d)", rec.IndexTip.X, rec.IndexTip.Y)
}

type textLayout struct {
	background image.Rectangle
	first      image.Point // baseline origin of the first line
	second     image.Point // baseline origin of the second line
}

// layoutText stacks both lines above the bounding box, left-aligned with it.
// The background spans from the block top down to the box's top edge and is
// as wide as the first line.
func layoutText(box image.Rectangle, firstSize, secondSize image.Point) textLayout {
	textWidth := firstSize.X + 2
	textHeight := firstSize.Y + 2

	x := box.Min.X
	y := box.Min.Y - lineGap - textHeight - secondSize.Y - lineGap

	return textLayout{
		background: image.Rectangle{
			Min: image.Pt(x, y),
			Max: image.Pt(x+textWidth, box.Min.Y),
		},
		first:  image.Pt(x, y+textHeight),
		second: image.Pt(x, y+textHeight+secondSize.Y+lineGap),
	}
}
