package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swdee/go-kdp"
	"github.com/swdee/go-kdp/postprocess"
	"gocv.io/x/gocv"
)

func TestDetectionBoxes(t *testing.T) {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer img.Close()

	boxes := []postprocess.BoundingBox{
		{X1: 20, Y1: 30, X2: 80, Y2: 90, Score: 0.9, Class: 0},
	}

	DetectionBoxes(&img, boxes, kdp.Labels{"person"}, DefaultFont(), 1)

	clr := ClassColor(0)

	// Mat pixels are stored BGR
	want := gocv.Vecb{clr.B, clr.G, clr.R}

	assert.Equal(t, want, img.GetVecbAt(30, 50))
	assert.Equal(t, want, img.GetVecbAt(60, 20))

	// box interior untouched
	assert.Equal(t, gocv.Vecb{0, 0, 0}, img.GetVecbAt(60, 50))

	// label background drawn above the box, left of the text
	assert.Equal(t, want, img.GetVecbAt(20, 21))
}

func TestDetectionBoxesNoLabels(t *testing.T) {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 40, 40, gocv.MatTypeCV8UC3)
	defer img.Close()

	boxes := []postprocess.BoundingBox{
		{X1: 0, Y1: 0, X2: 40, Y2: 40, Score: 0.5, Class: 3},
	}

	assert.NotPanics(t, func() {
		DetectionBoxes(&img, boxes, nil, DefaultFont(), 2)
	})
}
