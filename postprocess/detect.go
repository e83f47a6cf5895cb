package postprocess

import (
	"fmt"
	"image"
)

// MaxBoxNum is the maximum number of candidate and result boxes a YOLOv3 post
// process run holds
const MaxBoxNum = 500

// BoundingBox is a detected object candidate or final detection.  During
// decode the coordinates are in model input pixels, after remapping they are
// in raw image pixels.
type BoundingBox struct {
	X1 float32
	Y1 float32
	X2 float32
	Y2 float32
	// Score is the objectness probability multiplied by the class probability
	Score float32
	// Class is the index of the detected class
	Class int
}

// Width returns the width of the box
func (b BoundingBox) Width() float32 {
	return b.X2 - b.X1
}

// Height returns the height of the box
func (b BoundingBox) Height() float32 {
	return b.Y2 - b.Y1
}

// Area returns the area of the box
func (b BoundingBox) Area() float32 {
	return b.Width() * b.Height()
}

// Rect returns the box as an image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}

// String returns the box formatted as a string
func (b BoundingBox) String() string {
	return fmt.Sprintf("class=%d score=%.4f (%.1f %.1f %.1f %.1f)",
		b.Class, b.Score, b.X1, b.Y1, b.X2, b.Y2)
}

// DetectionResult is the caller owned output of a YOLOv3 post process run
type DetectionResult struct {
	// ClassCount is the number of classes the model detects
	ClassCount int
	// BoxCount is the number of valid entries in Boxes
	BoxCount int
	// Boxes holds the final detections
	Boxes [MaxBoxNum]BoundingBox
}

// Results returns the valid detections
func (r *DetectionResult) Results() []BoundingBox {
	return r.Boxes[:r.BoxCount]
}

// Reset clears the result for reuse
func (r *DetectionResult) Reset() {
	r.ClassCount = 0
	r.BoxCount = 0
}
