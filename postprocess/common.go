package postprocess

import (
	"math"

	"github.com/chewxy/math32"
)

// sigmoid is the logistic function
func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// fixedPointThreshold converts a probability threshold into the raw
// fixed-point domain of a node with the given divisor (2^radix * scale) so
// that raw > threshold holds exactly when sigmoid(raw/divisor) > thresh
func fixedPointThreshold(thresh float32, divisor float32) int32 {

	if thresh <= 0 {
		return math.MinInt32
	}

	if thresh >= 1 {
		return math.MaxInt32
	}

	return int32(math32.Floor(-math32.Log(1/thresh-1) * divisor))
}

// iou returns the Intersection over Union of two boxes.  Boxes that do not
// overlap, are inverted or have a degenerate union return zero.
func iou(a, b *BoundingBox) float32 {

	w := math32.Min(a.X2, b.X2) - math32.Max(a.X1, b.X1)
	h := math32.Min(a.Y2, b.Y2) - math32.Max(a.Y1, b.Y1)

	if w <= 0 || h <= 0 {
		return 0
	}

	intersection := w * h
	union := a.Area() + b.Area() - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}

// roundHalfUp adds 0.5 and truncates toward zero
func roundHalfUp(v float32) int {
	return int(v + 0.5)
}
