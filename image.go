package kdp

// MaxHeads is the maximum number of detection heads (output nodes) a YOLOv3
// model may have
const MaxHeads = 3

// Geometry records how the raw source image was cropped, scaled and padded
// into the model input.  It is used to map detections back into raw image
// coordinates.
type Geometry struct {
	// ModelRows and ModelCols are the model input dimensions
	ModelRows int `yaml:"model_rows"`
	ModelCols int `yaml:"model_cols"`
	// RawRows and RawCols are the original image dimensions
	RawRows int `yaml:"raw_rows"`
	RawCols int `yaml:"raw_cols"`
	// Crop offsets into the raw image
	CropTop    int `yaml:"crop_top"`
	CropBottom int `yaml:"crop_bottom"`
	CropLeft   int `yaml:"crop_left"`
	CropRight  int `yaml:"crop_right"`
	// Pad offsets added around the resized image in model space
	PadTop    int `yaml:"pad_top"`
	PadBottom int `yaml:"pad_bottom"`
	PadLeft   int `yaml:"pad_left"`
	PadRight  int `yaml:"pad_right"`
	// ScaleWidth and ScaleHeight map a model space pixel back to raw image
	// pixels
	ScaleWidth  float32 `yaml:"scale_width"`
	ScaleHeight float32 `yaml:"scale_height"`
}

// HasRaw returns true when the raw image dimensions are known
func (g Geometry) HasRaw() bool {
	return g.RawRows > 0 && g.RawCols > 0
}

// IdentityGeometry returns the geometry of a raw image that was fed to the
// model as is, without crop, scale or padding
func IdentityGeometry(rows, cols int) Geometry {
	return Geometry{
		ModelRows:   rows,
		ModelCols:   cols,
		RawRows:     rows,
		RawCols:     cols,
		ScaleWidth:  1,
		ScaleHeight: 1,
	}
}

// AnchorOverride is a flattened anchor table supplied with an inference to
// replace the default anchors.  Rows is the number of heads and Cols the
// number of values per head, (w,h) pairs for each anchor.
type AnchorOverride struct {
	Rows int       `yaml:"rows"`
	Cols int       `yaml:"cols"`
	Data []float32 `yaml:"data"`
}

// Params is the post process parameter block supplied per inference.  A zero
// value field means the post processors default is used.
type Params struct {
	// ProbThreshold is the minimum detection score
	ProbThreshold float32 `yaml:"prob_threshold"`
	// NMSThreshold is the IoU above which an overlapping box is suppressed
	NMSThreshold float32 `yaml:"nms_threshold"`
	// MaxDetectionsPerClass caps the number of boxes kept per class
	MaxDetectionsPerClass uint32 `yaml:"max_detections_per_class"`
	// Anchors optionally overrides the default anchor table
	Anchors *AnchorOverride `yaml:"anchors,omitempty"`
}

// Image is the inference context handed to post processing once the NPU has
// finished running a model on an image
type Image struct {
	// Nodes holds one output node descriptor per detection head
	Nodes []NodeDesc
	// Geometry describes the preprocessing applied to the raw image
	Geometry Geometry
	// Params is the post process parameter block
	Params Params
}

// OutputCount returns the number of output nodes
func (img *Image) OutputCount() int {
	return len(img.Nodes)
}

// OutputNode returns the view of the output node for detection head idx.  The
// caller guarantees idx is in range.
func (img *Image) OutputNode(idx int) OutputNode {
	return NewOutputNode(img.Nodes[idx])
}
