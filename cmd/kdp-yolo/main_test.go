package main

import (
	"image"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-kdp"
	"github.com/swdee/go-kdp/postprocess"
)

func TestResolveGeometryWithoutImage(t *testing.T) {

	geo := resolveGeometry(kdp.Geometry{ModelRows: 416, ModelCols: 416}, nil)

	assert.Equal(t, kdp.IdentityGeometry(416, 416), geo)
}

func TestResolveGeometryLetterbox(t *testing.T) {

	src := image.Rect(0, 0, 1280, 720)

	geo := resolveGeometry(kdp.Geometry{ModelRows: 640, ModelCols: 640}, &src)

	assert.Equal(t, 1280, geo.RawCols)
	assert.Equal(t, 720, geo.RawRows)
	assert.Equal(t, 140, geo.PadTop)
	assert.Equal(t, float32(2), geo.ScaleWidth)
}

func TestResolveGeometryKeepsDescriptor(t *testing.T) {

	want := kdp.Geometry{
		ModelRows: 416, ModelCols: 416,
		RawRows: 720, RawCols: 1280,
		PadTop: 91, ScaleWidth: 3, ScaleHeight: 3,
	}

	src := image.Rect(0, 0, 10, 10)

	assert.Equal(t, want, resolveGeometry(want, &src))
}

// TestModelOnlyGeometryKeepsBoxes runs a single maximum confidence cell
// through a descriptor geometry that gives only the model size and checks
// the box is reported in model pixels rather than collapsed to zero
func TestModelOnlyGeometryKeepsBoxes(t *testing.T) {

	const classes = 1

	channels := postprocess.AnchorsPerCell * (classes + 5)
	data := make([]int8, channels*kdp.RoundUp(1, kdp.RowAlignment))

	for i := range data {
		data[i] = -128
	}

	node := kdp.NodeDesc{Data: data, Channels: channels, Rows: 1, Cols: 1, Radix: 7, Scale: 1}
	out := kdp.NewOutputNode(node)

	// anchor 0 x, y, w, h at zero, objectness and class at maximum
	for c := 0; c < 4; c++ {
		out.Data[out.Offset(c, 0, 0)] = 0
	}
	out.Data[out.Offset(4, 0, 0)] = 127
	out.Data[out.Offset(5, 0, 0)] = 127

	params := postprocess.YOLOv3DefaultParams()
	params.ProbThreshold = 0.3

	img := &kdp.Image{
		Nodes:    []kdp.NodeDesc{node},
		Geometry: resolveGeometry(kdp.Geometry{ModelRows: 416, ModelCols: 416}, nil),
	}

	var res postprocess.DetectionResult
	n := postprocess.NewYOLOv3(params).DetectObjects(img, &res)

	require.Equal(t, 1, n)

	b := res.Results()[0]
	assert.Equal(t, float32(150), b.X1)
	assert.Equal(t, float32(163), b.Y1)
	assert.Equal(t, float32(266), b.X2)
	assert.Equal(t, float32(253), b.Y2)
}

func TestTraceModelBox(t *testing.T) {

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	remap := postprocess.NewRemapper(kdp.Geometry{
		ModelRows: 640, ModelCols: 640,
		RawRows: 720, RawCols: 1280,
		PadTop: 140, ScaleWidth: 2, ScaleHeight: 2,
	})

	traceModelBox(logger, remap, postprocess.BoundingBox{X1: 100, Y1: 0, X2: 300, Y2: 400})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "  model input box (50.0 140.0 150.0 340.0)", entry.Message)

	hook.Reset()

	traceModelBox(logger, postprocess.NewRemapper(kdp.Geometry{}), postprocess.BoundingBox{})

	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Contains(t, entry.Data, logrus.ErrorKey)
}
