package gesture

import (
	"errors"
	"image"

	"github.com/ayusman/fingersign/internal/detector"
)

// ErrNoLandmarks is returned when a bounding box is requested for no points.
var ErrNoLandmarks = errors.New("no landmarks")

// PixelPoint converts a normalized landmark to pixel coordinates, truncating
// toward zero.
func PixelPoint(p detector.Point3D, width, height int) image.Point {
	return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
}

// BoundingBox returns the pixel rectangle enclosing points, grown by padding
// on each side and clamped to [0,width] x [0,height]. Landmarks outside the
// frame still yield an ordered rectangle inside it.
func BoundingBox(points []detector.Point3D, width, height, padding int) (image.Rectangle, error) {
	if len(points) == 0 {
		return image.Rectangle{}, ErrNoLandmarks
	}

	minX, minY, maxX, maxY := width, height, 0, 0
	for _, p := range points {
		px := PixelPoint(p, width, height)
		minX = min(minX, px.X)
		minY = min(minY, px.Y)
		maxX = max(maxX, px.X)
		maxY = max(maxY, px.Y)
	}

	// image.Rect would swap Min and Max if the hand sits past an edge.
	return image.Rectangle{
		Min: image.Pt(max(0, minX-padding), max(0, minY-padding)),
		Max: image.Pt(min(width, maxX+padding), min(height, maxY+padding)),
	}, nil
}
