// Package gesture turns hand landmarks into finger states and symbolic labels.
package gesture

import (
	"fmt"
	"strings"

	"github.com/ayusman/fingersign/internal/detector"
)

// Finger indexes a FingerStates vector.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return fmt.Sprintf("Finger(%d)", int(f))
	}
	return fingerNames[f]
}

// fingerTips are the tip landmarks of the four fingers judged on the y axis.
var fingerTips = [NumFingers - 1]int{
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// FingerStates records which fingers are extended, ordered thumb, index,
// middle, ring, pinky.
type FingerStates [NumFingers]bool

// String serializes the vector as five '0'/'1' characters, e.g. "01100".
func (s FingerStates) String() string {
	var b strings.Builder
	b.Grow(int(NumFingers))
	for _, open := range s {
		if open {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Count returns the number of extended fingers.
func (s FingerStates) Count() int {
	n := 0
	for _, open := range s {
		if open {
			n++
		}
	}
	return n
}

// ParseFingerStates is the inverse of FingerStates.String.
func ParseFingerStates(key string) (FingerStates, error) {
	var s FingerStates
	if len(key) != int(NumFingers) {
		return s, fmt.Errorf("finger state key %q: want %d characters, got %d", key, NumFingers, len(key))
	}
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '0':
		case '1':
			s[i] = true
		default:
			return s, fmt.Errorf("finger state key %q: invalid character %q at %d", key, key[i], i)
		}
	}
	return s, nil
}

// Classify derives the finger states of one hand.
//
// The frame must have been mirrored horizontally (selfie view) before the
// landmarks were detected. Under that precondition a right thumb is extended
// when its tip lies strictly right of the IP joint, and a left thumb when it
// lies strictly left of it; without the mirror the thumb result is inverted.
// Any handedness other than "Right" takes the left-hand rule.
//
// The other fingers are extended when the tip is strictly above (smaller y)
// the PIP joint two landmarks down the same finger. Equal coordinates count
// as folded. A nil hand yields all fingers folded.
func Classify(hand *detector.HandLandmarks) FingerStates {
	var s FingerStates
	if hand == nil {
		return s
	}

	p := &hand.Points
	if hand.Handedness == detector.HandRight {
		s[Thumb] = p[detector.ThumbTip].X > p[detector.ThumbIP].X
	} else {
		s[Thumb] = p[detector.ThumbTip].X < p[detector.ThumbIP].X
	}

	for i, tip := range fingerTips {
		s[Index+Finger(i)] = p[tip].Y < p[tip-2].Y
	}

	return s
}
