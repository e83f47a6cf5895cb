package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/swdee/go-kdp"
	"github.com/swdee/go-kdp/postprocess"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DetectionBoxesRGBA renders the bounding boxes around the object detected
// onto an image.RGBA without requiring OpenCV
func DetectionBoxesRGBA(img *image.RGBA, boxes []postprocess.BoundingBox,
	labels kdp.Labels, f Font, lineThickness int) {

	face := f.TextFace

	if face == nil {
		face = basicfont.Face7x13
	}

	metrics := face.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	boxLabels := make([]boxLabel, 0, len(boxes))

	for _, b := range boxes {

		useClr := ClassColor(b.Class)
		rect := b.Rect()

		strokeRect(img, rect, useClr, lineThickness)

		text := labelText(b, labels)
		textW := font.MeasureString(face, text).Ceil()

		nextLabel := placeLabel(rect, image.Pt(textW, textH), f, lineThickness)
		nextLabel.clr = useClr
		nextLabel.text = text

		boxLabels = append(boxLabels, nextLabel)
	}

	for _, box := range boxLabels {
		draw.Draw(img, box.rect.Intersect(img.Bounds()), image.NewUniform(box.clr),
			image.Point{}, draw.Src)

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(f.Color),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(box.textPos.X),
				Y: fixed.I(box.textPos.Y - metrics.Descent.Ceil()),
			},
		}
		d.DrawString(box.text)
	}
}

// strokeRect draws the outline of rect with the given line thickness, the
// outline is drawn inside the rectangle bounds
func strokeRect(img *image.RGBA, rect image.Rectangle, clr color.RGBA, thickness int) {

	if thickness < 1 {
		thickness = 1
	}

	src := image.NewUniform(clr)
	bounds := img.Bounds()

	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness),
		image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y),
		image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}

	for _, e := range edges {
		draw.Draw(img, e.Intersect(bounds), src, image.Point{}, draw.Src)
	}
}
