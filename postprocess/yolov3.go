package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-kdp"
)

// AnchorsPerCell is the number of anchor boxes predicted for each grid cell
const AnchorsPerCell = 3

// boxAttrs is the number of channels per anchor before the class scores,
// being x, y, w, h and objectness
const boxAttrs = 5

// AnchorTable holds the (width, height) prior in pixels for each anchor of
// each detection head
type AnchorTable [kdp.MaxHeads][AnchorsPerCell][2]float32

// YOLOv3 defines the struct for YOLOv3 model inference post processing
type YOLOv3 struct {
	// Params are the default Model configuration parameters, they are
	// overridden per run by the Image parameter block
	Params YOLOv3Params
	// scratch hands out per run working memory
	scratch *scratchPool
	log     logrus.FieldLogger
}

// YOLOv3Params defines the struct containing the YOLOv3 parameters to use
// for post processing operations
type YOLOv3Params struct {
	// Anchors are the Anchor Box priors for each detection head
	Anchors AnchorTable
	// ProbThreshold is the minimum objectness times class probability score
	// required for a candidate box to be kept
	ProbThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes of the same class for both to be kept
	NMSThreshold float32
	// MaxDetectionsPerClass is the maximum number of boxes kept per class
	MaxDetectionsPerClass int
	// MaxObjectNumber is the maximum number of boxes returned, it can not
	// exceed MaxBoxNum
	MaxObjectNumber int
}

// YOLOv3DefaultParams returns an instance of YOLOv3Params configured with
// default values featuring:
// - Anchor Boxes for each head of:
//   - Head 0 (stride 32): (116x90), (156x198), (373x326)
//   - Head 1 (stride 16): (30x61), (62x45), (59x119)
//   - Head 2 (stride 8): (10x13), (16x30), (33x23)
//
// - Prob Threshold: 0.2
// - NMS Threshold: 0.45
// - Maximum Detections Per Class: 100
// - Maximum Object Number: 500
func YOLOv3DefaultParams() YOLOv3Params {
	return YOLOv3Params{
		Anchors: AnchorTable{
			{{116, 90}, {156, 198}, {373, 326}},
			{{30, 61}, {62, 45}, {59, 119}},
			{{10, 13}, {16, 30}, {33, 23}},
		},
		ProbThreshold:         0.2,
		NMSThreshold:          0.45,
		MaxDetectionsPerClass: 100,
		MaxObjectNumber:       MaxBoxNum,
	}
}

// Resolve returns a copy of the parameters with the non zero fields of the
// per inference parameter block applied
func (p YOLOv3Params) Resolve(kp kdp.Params) YOLOv3Params {

	if kp.ProbThreshold != 0 {
		p.ProbThreshold = kp.ProbThreshold
	}

	if kp.NMSThreshold != 0 {
		p.NMSThreshold = kp.NMSThreshold
	}

	if kp.MaxDetectionsPerClass != 0 {
		p.MaxDetectionsPerClass = int(kp.MaxDetectionsPerClass)
	}

	if p.MaxObjectNumber <= 0 || p.MaxObjectNumber > MaxBoxNum {
		p.MaxObjectNumber = MaxBoxNum
	}

	if a := kp.Anchors; a != nil && a.Rows > 0 && a.Rows <= kdp.MaxHeads &&
		a.Cols > 0 && a.Cols <= AnchorsPerCell*2 && len(a.Data) >= a.Rows*a.Cols {

		for h := 0; h < a.Rows; h++ {
			for v := 0; v < a.Cols; v++ {
				p.Anchors[h][v/2][v%2] = a.Data[h*a.Cols+v]
			}
		}
	}

	return p
}

// NewYOLOv3 returns an instance of the YOLOv3 post processor
func NewYOLOv3(p YOLOv3Params) *YOLOv3 {
	return &YOLOv3{
		Params:  p,
		scratch: newScratchPool(),
		log:     logrus.StandardLogger(),
	}
}

// SetLogger sets the logger debug output is written to
func (y *YOLOv3) SetLogger(l logrus.FieldLogger) {
	y.log = l
}

// DetectObjects decodes the output nodes of img into candidate boxes, runs
// NMS on them and maps the survivors into raw image coordinates.  Results are
// written into out and the number of boxes is returned.  It is safe to call
// concurrently with distinct out values.
func (y *YOLOv3) DetectObjects(img *kdp.Image, out *DetectionResult) int {

	out.Reset()

	if img.OutputCount() == 0 {
		return 0
	}

	p := y.Params.Resolve(img.Params)

	s := y.scratch.Get()
	defer y.scratch.Put(s)

	classCount := img.OutputNode(0).Channels/AnchorsPerCell - boxAttrs

	for idx := 0; idx < img.OutputCount(); idx++ {
		node := img.OutputNode(idx)

		if c := node.Channels/AnchorsPerCell - boxAttrs; c != classCount {
			y.log.WithFields(logrus.Fields{
				"head":     idx,
				"classes":  c,
				"expected": classCount,
			}).Debug("head class count differs from head 0, extra classes are dropped by NMS")
		}

		y.decodeHead(node, idx, img.Geometry, &p, &s.set)
	}

	cfg := NMSConfig{
		IoUThreshold:   p.NMSThreshold,
		ScoreThreshold: 0,
		MaxBoxes:       p.MaxObjectNumber,
		MaxPerClass:    p.MaxDetectionsPerClass,
	}

	n := NMS(s.set.Candidates(), classCount, cfg, s.tmp[:], out.Boxes[:])

	remap := NewRemapper(img.Geometry)

	for i := 0; i < n; i++ {
		remap.Remap(&out.Boxes[i], false)
	}

	out.ClassCount = classCount
	out.BoxCount = n

	y.log.WithFields(logrus.Fields{
		"heads":      img.OutputCount(),
		"classes":    classCount,
		"candidates": s.set.Len(),
		"boxes":      n,
	}).Debug("yolov3 post process complete")

	return n
}

// decodeHead adds every candidate box of detection head idx scoring above the
// probability threshold to set
func (y *YOLOv3) decodeHead(node kdp.OutputNode, idx int, geo kdp.Geometry,
	p *YOLOv3Params, set *CandidateSet) {

	classCount := node.Channels/AnchorsPerCell - boxAttrs
	divisor := node.Divisor()
	scale := 1 / divisor

	// objectness and class scores are compared before the sigmoid
	threshFP := fixedPointThreshold(p.ProbThreshold, divisor)

	gridW := float32(geo.ModelCols) / float32(node.Cols)
	gridH := float32(geo.ModelRows) / float32(node.Rows)

	for a := 0; a < AnchorsPerCell; a++ {

		base := a * (classCount + boxAttrs)

		for row := 0; row < node.Rows; row++ {
			for col := 0; col < node.Cols; col++ {

				objRaw := node.At(base+4, row, col)

				if int32(objRaw) <= threshFP {
					continue
				}

				maxClass := 0
				maxRaw := node.At(base+boxAttrs, row, col)

				for k := 1; k < classCount; k++ {
					if raw := node.At(base+boxAttrs+k, row, col); raw > maxRaw {
						maxRaw = raw
						maxClass = k
					}
				}

				if int32(maxRaw) <= threshFP {
					continue
				}

				score := sigmoid(float32(objRaw)*scale) * sigmoid(float32(maxRaw)*scale)

				if score <= p.ProbThreshold {
					continue
				}

				// the set only takes candidates that beat its minimum once full
				if set.Full() && score <= set.Min().Score {
					continue
				}

				x := (sigmoid(float32(node.At(base, row, col))*scale) + float32(col)) * gridW
				yc := (sigmoid(float32(node.At(base+1, row, col))*scale) + float32(row)) * gridH
				w := math32.Exp(float32(node.At(base+2, row, col))*scale) * p.Anchors[idx][a][0]
				h := math32.Exp(float32(node.At(base+3, row, col))*scale) * p.Anchors[idx][a][1]

				box := BoundingBox{
					X1:    x - w/2,
					Y1:    yc - h/2,
					X2:    x + w/2,
					Y2:    yc + h/2,
					Score: score,
					Class: maxClass,
				}

				if err := set.Insert(&box); err != nil {
					y.log.WithError(err).Debug("candidate insert failed")
				}
			}
		}
	}
}
