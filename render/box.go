package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-kdp"
	"github.com/swdee/go-kdp/postprocess"
	"gocv.io/x/gocv"
)

// DetectionBoxes renders the bounding boxes around the object detected
func DetectionBoxes(img *gocv.Mat, boxes []postprocess.BoundingBox,
	labels kdp.Labels, font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(boxes))

	// draw detection boxes
	for _, b := range boxes {

		useClr := ClassColor(b.Class)

		// draw rectangle around detected object
		rect := b.Rect()
		gocv.Rectangle(img, rect, useClr, lineThickness)

		// create text for label
		text := labelText(b, labels)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		nextLabel := placeLabel(rect, textSize, font, lineThickness)
		nextLabel.clr = useClr
		nextLabel.text = text

		boxLabels = append(boxLabels, nextLabel)
	}

	// draw all precalculated box labels so they are the top most layer on the
	// image and don't get overlapped by other boxes
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		// Draw the label over box
		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// boxLabel defines where the detection object label should be rendered on
// the image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// labelText returns the label rendered above a detection box
func labelText(b postprocess.BoundingBox, labels kdp.Labels) string {
	return fmt.Sprintf("%s %.2f", labels.Name(b.Class), b.Score)
}

// placeLabel calculates the background rectangle and text baseline position
// of a label with the given text size so it sits on top of the box rect
func placeLabel(rect image.Rectangle, textSize image.Point, font Font,
	lineThickness int) boxLabel {

	// Calculate the alignment of text label
	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (rect.Min.X + rect.Max.X) / 2

	case Right:
		centerX = rect.Max.X - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = rect.Min.X + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	return boxLabel{
		// Adjust the label position so the text is centered horizontally
		textPos: image.Pt(centerX-textSize.X/2, rect.Min.Y-font.BottomPad),
		// create box for placing text on
		rect: image.Rect(centerX-textSize.X/2-font.LeftPad,
			rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, rect.Min.Y),
	}
}
