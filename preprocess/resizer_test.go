package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

func TestLetterBoxResize(t *testing.T) {

	tests := []struct {
		srcWidth      int
		srcHeight     int
		resizeWidth   int
		resizeHeight  int
		expectedXPad  int
		expectedYPad  int
		expectedScale float32
	}{
		{1280, 720, 640, 640, 0, 140, 0.50},
		{800, 1000, 640, 640, 64, 0, 0.64},
		{800, 800, 640, 640, 0, 0, 0.8},
	}

	for _, tc := range tests {
		img := gocv.NewMatWithSize(tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC1)

		resizedImg := gocv.NewMat()

		resizer := NewResizer(tc.srcWidth, tc.srcHeight, tc.resizeWidth, tc.resizeHeight)

		resizer.LetterBoxResize(img, &resizedImg, black)

		assert.Equal(t, tc.expectedXPad, resizer.XPad(), "src (%d, %d) xpad", tc.srcWidth, tc.srcHeight)
		assert.Equal(t, tc.expectedYPad, resizer.YPad(), "src (%d, %d) ypad", tc.srcWidth, tc.srcHeight)
		assert.Equal(t, tc.expectedScale, resizer.ScaleFactor(), "src (%d, %d) scale", tc.srcWidth, tc.srcHeight)
		assert.Equal(t, tc.resizeWidth, resizedImg.Cols())
		assert.Equal(t, tc.resizeHeight, resizedImg.Rows())

		img.Close()
		resizedImg.Close()
		resizer.Close()
	}
}

func TestResizerGeometry(t *testing.T) {

	resizer := NewResizer(1280, 720, 640, 640)
	defer resizer.Close()

	geo := resizer.Geometry()

	assert.Equal(t, 640, geo.ModelCols)
	assert.Equal(t, 640, geo.ModelRows)
	assert.Equal(t, 1280, geo.RawCols)
	assert.Equal(t, 720, geo.RawRows)
	assert.Equal(t, 0, geo.PadLeft)
	assert.Equal(t, 140, geo.PadTop)
	assert.Equal(t, 140, geo.PadBottom)
	assert.Equal(t, 0, geo.CropLeft)
	assert.Equal(t, float32(2), geo.ScaleWidth)
	assert.Equal(t, geo.ScaleWidth, geo.ScaleHeight)
}

func TestResizerWithCrop(t *testing.T) {

	crop := image.Rect(80, 0, 560, 480)

	resizer := NewResizerWithCrop(640, 480, crop, 224, 224)
	defer resizer.Close()

	geo := resizer.Geometry()

	assert.Equal(t, 80, geo.CropLeft)
	assert.Equal(t, 80, geo.CropRight)
	assert.Equal(t, 0, geo.CropTop)
	assert.Equal(t, 0, geo.PadLeft)
	assert.Equal(t, 0, geo.PadTop)
	assert.InDelta(t, 480.0/224, geo.ScaleWidth, 1e-4)

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	resized := gocv.NewMat()
	defer resized.Close()

	resizer.LetterBoxResize(img, &resized, black)

	assert.Equal(t, 224, resized.Cols())
	assert.Equal(t, 224, resized.Rows())
}

func TestResizerCropClipped(t *testing.T) {

	resizer := NewResizerWithCrop(640, 480, image.Rect(600, 400, 900, 900), 100, 100)
	defer resizer.Close()

	geo := resizer.Geometry()

	assert.Equal(t, 600, geo.CropLeft)
	assert.Equal(t, 0, geo.CropRight)
	assert.Equal(t, 400, geo.CropTop)
	assert.Equal(t, 0, geo.CropBottom)
}

func TestLetterBoxImage(t *testing.T) {

	src := image.NewRGBA(image.Rect(0, 0, 200, 100))

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.SetRGBA(x, y, white)
		}
	}

	resizer := NewResizer(200, 100, 100, 100)
	defer resizer.Close()

	dest := resizer.LetterBoxImage(src, black)

	require.Equal(t, image.Rect(0, 0, 100, 100), dest.Bounds())
	require.Equal(t, 25, resizer.YPad())

	// padding rows keep the letterbox color, image rows are scaled source
	assert.Equal(t, black, dest.RGBAAt(50, 10))
	assert.Equal(t, black, dest.RGBAAt(50, 90))
	assert.Equal(t, white, dest.RGBAAt(50, 50))
}
