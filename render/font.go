package render

import (
	"image/color"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Alignment positions a detection label along the top edge of its box
type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Font defines how detection labels are drawn by both render paths.
// DetectionBoxes draws on a gocv.Mat using the Hershey settings, while
// DetectionBoxesRGBA draws on an image.RGBA with TextFace.  Color, padding
// and alignment are shared so both produce the same label layout.
type Font struct {
	// Face, Scale, Thickness and LineType are the OpenCV text settings
	Face      gocv.HersheyFont
	Scale     float64
	Thickness int
	LineType  gocv.LineType
	// TextFace is the x/image font face, nil falls back to basicfont 7x13
	TextFace font.Face
	// Color of the label text, the label background uses the class color
	Color color.RGBA
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the text label to the bounding box
	Alignment Alignment
}

// DefaultFont returns white labels of similar height on both render paths
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Thickness: 1,
		LineType:  gocv.LineAA,
		TextFace:  basicfont.Face7x13,
		Color:     White,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}
