package gesture

import (
	"fmt"
	"image"
	"time"

	"github.com/ayusman/fingersign/internal/detector"
)

// DefaultPadding is the pixel margin added around a hand's bounding box.
const DefaultPadding = 15

// Recognition is the outcome of classifying one hand in one frame.
type Recognition struct {
	Handedness string          `json:"handedness"`
	States     FingerStates    `json:"-"`
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	FingersUp  int             `json:"fingers_up"`
	Box        image.Rectangle `json:"box"`
	IndexTip   image.Point     `json:"index_tip"`
}

// FrameResult groups the recognitions of one processed frame.
type FrameResult struct {
	Seq          uint64        `json:"seq"`
	Time         time.Time     `json:"time"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Recognitions []Recognition `json:"recognitions"`
}

// HandIDs returns an identifier for each recognition, in order. It is the
// handedness, suffixed with its occurrence count when the detector reports
// the same handedness more than once in a frame: "Right", "Right#2".
func (f FrameResult) HandIDs() []string {
	ids := make([]string, len(f.Recognitions))
	count := make(map[string]int, len(f.Recognitions))
	for i, rec := range f.Recognitions {
		count[rec.Handedness]++
		if n := count[rec.Handedness]; n > 1 {
			ids[i] = fmt.Sprintf("%s#%d", rec.Handedness, n)
		} else {
			ids[i] = rec.Handedness
		}
	}
	return ids
}

// Recognizer classifies hands and resolves their labels for frames of a
// fixed pixel size.
type Recognizer struct {
	resolver *Resolver
	width    int
	height   int
	padding  int
}

// NewRecognizer creates a Recognizer for width x height frames.
func NewRecognizer(resolver *Resolver, width, height, padding int) *Recognizer {
	return &Recognizer{
		resolver: resolver,
		width:    width,
		height:   height,
		padding:  padding,
	}
}

// Recognize classifies one hand.
func (r *Recognizer) Recognize(hand *detector.HandLandmarks) (Recognition, error) {
	if hand == nil {
		return Recognition{}, fmt.Errorf("recognize: %w", ErrNoLandmarks)
	}

	box, err := BoundingBox(hand.Points[:], r.width, r.height, r.padding)
	if err != nil {
		return Recognition{}, fmt.Errorf("recognize: %w", err)
	}

	states := Classify(hand)

	return Recognition{
		Handedness: hand.Handedness,
		States:     states,
		Key:        states.String(),
		Label:      r.resolver.Resolve(states),
		FingersUp:  states.Count(),
		Box:        box,
		IndexTip:   PixelPoint(hand.Points[detector.IndexTip], r.width, r.height),
	}, nil
}
