package kdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {

	tests := []struct {
		n, align, want int
	}{
		{0, 16, 0},
		{1, 16, 16},
		{13, 16, 16},
		{16, 16, 16},
		{26, 16, 32},
		{52, 16, 64},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, RoundUp(tc.n, tc.align), "RoundUp(%d, %d)", tc.n, tc.align)
	}
}

func TestOutputNodeLayout(t *testing.T) {

	const (
		channels = 3
		rows     = 2
		cols     = 5
	)

	node := NewOutputNode(NodeDesc{
		Data:     make([]int8, rows*channels*16),
		Channels: channels,
		Rows:     rows,
		Cols:     cols,
		Radix:    7,
		Scale:    1,
	})

	require.Equal(t, 16, node.ColStride)
	require.Equal(t, len(node.Data), node.Size())

	// each row holds all channels, each channel row padded to the stride
	assert.Equal(t, 0, node.Offset(0, 0, 0))
	assert.Equal(t, 4, node.Offset(0, 0, 4))
	assert.Equal(t, 16, node.Offset(1, 0, 0))
	assert.Equal(t, 48, node.Offset(0, 1, 0))
	assert.Equal(t, 1*48+2*16+3, node.Offset(2, 1, 3))

	node.Data[node.Offset(2, 1, 3)] = 42
	assert.Equal(t, int8(42), node.At(2, 1, 3))
}

func TestOutputNodeDequant(t *testing.T) {

	tests := []struct {
		radix int32
		scale float32
		raw   int8
		want  float32
	}{
		{7, 1.0, 127, 127.0 / 128},
		{7, 1.0, -128, -1},
		{4, 0.5, 8, 1},
		{0, 2.0, -3, -1.5},
		{-1, 1.0, 3, 6},
	}

	for _, tc := range tests {
		node := NewOutputNode(NodeDesc{Radix: tc.radix, Scale: tc.scale})
		assert.InDelta(t, tc.want, node.Dequant(tc.raw), 1e-6,
			"radix %d scale %f raw %d", tc.radix, tc.scale, tc.raw)
	}
}

func TestImageOutputNode(t *testing.T) {

	img := &Image{
		Nodes: []NodeDesc{
			{Channels: 255, Rows: 13, Cols: 13, Radix: 5, Scale: 1.2},
			{Channels: 255, Rows: 26, Cols: 26, Radix: 6, Scale: 0.9},
		},
	}

	require.Equal(t, 2, img.OutputCount())

	node := img.OutputNode(1)
	assert.Equal(t, 26, node.Rows)
	assert.Equal(t, 32, node.ColStride)
	assert.Equal(t, int32(6), node.Radix)
	assert.Equal(t, float32(0.9), node.Scale)
}

func TestIdentityGeometry(t *testing.T) {

	geo := IdentityGeometry(416, 320)

	assert.True(t, geo.HasRaw())
	assert.Equal(t, 416, geo.RawRows)
	assert.Equal(t, 320, geo.RawCols)
	assert.Equal(t, geo.ModelRows, geo.RawRows)
	assert.Equal(t, geo.ModelCols, geo.RawCols)
	assert.Equal(t, float32(1), geo.ScaleWidth)
	assert.Equal(t, float32(1), geo.ScaleHeight)

	assert.False(t, Geometry{ModelRows: 416, ModelCols: 416}.HasRaw())
	assert.False(t, Geometry{RawRows: 720}.HasRaw())
}
