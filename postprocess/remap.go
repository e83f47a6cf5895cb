package postprocess

import (
	"github.com/pkg/errors"
	"github.com/swdee/go-kdp"
	"gonum.org/v1/gonum/mat"
)

// Remapper maps boxes from model input pixel space back to the raw image the
// model input was cropped, scaled and padded from
type Remapper struct {
	geo kdp.Geometry
}

// NewRemapper returns a Remapper for the given image geometry
func NewRemapper(geo kdp.Geometry) *Remapper {
	return &Remapper{geo: geo}
}

// Geometry returns the image geometry used for remapping
func (r *Remapper) Geometry() kdp.Geometry {
	return r.geo
}

// Remap converts b in place into raw image coordinates, rounding half up and
// clamping to the raw image bounds.  When needScale is set the box is first
// converted from normalized [0,1] coordinates into model input pixels.
func (r *Remapper) Remap(b *BoundingBox, needScale bool) {

	x1, y1, x2, y2 := b.X1, b.Y1, b.X2, b.Y2

	if needScale {
		x1 *= float32(r.geo.ModelCols)
		x2 *= float32(r.geo.ModelCols)
		y1 *= float32(r.geo.ModelRows)
		y2 *= float32(r.geo.ModelRows)
	}

	x1, y1 = r.forward(x1, y1)
	x2, y2 = r.forward(x2, y2)

	b.X1 = float32(maxInt(0, roundHalfUp(x1)))
	b.Y1 = float32(maxInt(0, roundHalfUp(y1)))
	b.X2 = float32(minInt(r.geo.RawCols, roundHalfUp(x2)))
	b.Y2 = float32(minInt(r.geo.RawRows, roundHalfUp(y2)))
}

// forward applies the unrounded model to raw image transform to a point
func (r *Remapper) forward(x, y float32) (float32, float32) {
	return (x-float32(r.geo.PadLeft))*r.geo.ScaleWidth + float32(r.geo.CropLeft),
		(y-float32(r.geo.PadTop))*r.geo.ScaleHeight + float32(r.geo.CropTop)
}

// Affine returns the model to raw image transform as a 3x3 homogeneous
// matrix
func (r *Remapper) Affine() *mat.Dense {

	sw := float64(r.geo.ScaleWidth)
	sh := float64(r.geo.ScaleHeight)

	return mat.NewDense(3, 3, []float64{
		sw, 0, float64(r.geo.CropLeft) - float64(r.geo.PadLeft)*sw,
		0, sh, float64(r.geo.CropTop) - float64(r.geo.PadTop)*sh,
		0, 0, 1,
	})
}

// ToModel maps a raw image point back into model input pixel space, the
// inverse of the transform applied by Remap before rounding and clamping
func (r *Remapper) ToModel(x, y float32) (float32, float32, error) {

	var inv mat.Dense

	if err := inv.Inverse(r.Affine()); err != nil {
		return 0, 0, errors.Wrap(err, "image geometry is not invertible")
	}

	var pt mat.VecDense
	pt.MulVec(&inv, mat.NewVecDense(3, []float64{float64(x), float64(y), 1}))

	return float32(pt.AtVec(0)), float32(pt.AtVec(1)), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
