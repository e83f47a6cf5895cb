package preprocess

import (
	"image"
	"image/color"

	"github.com/swdee/go-kdp"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// Resizer defines the struct used for cropping and letterbox scaling a raw
// image into the model input dimensions
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// crop is the region of the source image that gets scaled
	crop image.Rectangle
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// letterbox parameters used in scaling
	xPad  int
	yPad  int
	scale float32
	// resize dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a resizer used for scaling the whole source image to the
// needed dimensions for input tensor size
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	return NewResizerWithCrop(srcWidth, srcHeight,
		image.Rect(0, 0, srcWidth, srcHeight), destWidth, destHeight)
}

// NewResizerWithCrop returns a resizer that first crops the source image to
// the given region before scaling it to the input tensor size.  The crop is
// clipped to the source image bounds.
func NewResizerWithCrop(srcWidth, srcHeight int, crop image.Rectangle,
	destWidth, destHeight int) *Resizer {

	crop = crop.Intersect(image.Rect(0, 0, srcWidth, srcHeight))

	if crop.Empty() {
		crop = image.Rect(0, 0, srcWidth, srcHeight)
	}

	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		crop:       crop,
		tempMat:    gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the scaling factors for the cropped source and destination
func (r *Resizer) preCalc() {

	cropW := r.crop.Dx()
	cropH := r.crop.Dy()

	r.resizeW = r.destWidth
	r.resizeH = r.destHeight

	scaleW := float32(r.destWidth) / float32(cropW)
	scaleH := float32(r.destHeight) / float32(cropH)
	r.scale = scaleH

	if scaleW < scaleH {
		r.scale = scaleW
		r.resizeH = int(float32(cropH) * r.scale)
	} else {
		r.resizeW = int(float32(cropW) * r.scale)
	}

	r.yPad = (r.destHeight - r.resizeH) / 2 // padding height / 2
	r.xPad = (r.destWidth - r.resizeW) / 2  // padding width / 2
}

// LetterBoxResize crops and resizes the input image to the dimensions needed
// for the input tensor size whilst maintaining image aspect.  Color is that
// used for letter box padding.
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	region := src

	if r.crop != image.Rect(0, 0, r.srcWidth, r.srcHeight) {
		region = src.Region(r.crop)
		defer region.Close()
	}

	gocv.Resize(region, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, color)
}

// LetterBoxImage is the pure Go counterpart of LetterBoxResize operating on
// an image.Image, the returned image has the destination dimensions
func (r *Resizer) LetterBoxImage(src image.Image, color color.RGBA) *image.RGBA {

	dest := image.NewRGBA(image.Rect(0, 0, r.destWidth, r.destHeight))
	draw.Draw(dest, dest.Bounds(), image.NewUniform(color), image.Point{}, draw.Src)

	crop := r.crop.Add(src.Bounds().Min)
	target := image.Rect(r.xPad, r.yPad, r.xPad+r.resizeW, r.yPad+r.resizeH)

	draw.ApproxBiLinear.Scale(dest, target, src, crop, draw.Src, nil)

	return dest
}

// Geometry returns the crop, scale and padding applied by the resizer in the
// form the post processor needs to map detections back onto the source image
func (r *Resizer) Geometry() kdp.Geometry {
	return kdp.Geometry{
		ModelRows:   r.destHeight,
		ModelCols:   r.destWidth,
		RawRows:     r.srcHeight,
		RawCols:     r.srcWidth,
		CropTop:     r.crop.Min.Y,
		CropBottom:  r.srcHeight - r.crop.Max.Y,
		CropLeft:    r.crop.Min.X,
		CropRight:   r.srcWidth - r.crop.Max.X,
		PadTop:      r.yPad,
		PadBottom:   r.destHeight - r.resizeH - r.yPad,
		PadLeft:     r.xPad,
		PadRight:    r.destWidth - r.resizeW - r.xPad,
		ScaleWidth:  1 / r.scale,
		ScaleHeight: 1 / r.scale,
	}
}

// ScaleFactor returns the scale factor used in letterbox resize
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the x padding used in letterbox resize
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the y padding used in letterbox resize
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
