package kdp

import (
	"fmt"
	"math"
)

// RowAlignment is the byte boundary each output node row is padded to by the
// NPU DMA engine
const RowAlignment = 16

// NodeDesc is the descriptor of a single NPU output node as handed over by
// the inference complete signal.  The Data memory is owned by the caller.
type NodeDesc struct {
	// Data is the raw fixed-point tensor memory laid out row major with each
	// channel row padded to RowAlignment
	Data []int8
	// Channels is the number of channels of the node
	Channels int
	// Rows is the grid height of the node
	Rows int
	// Cols is the grid width of the node
	Cols int
	// Radix is the fixed-point radix used to quantize the node
	Radix int32
	// Scale is the fixed-point scale used to quantize the node
	Scale float32
}

// OutputNode is a read only view over one detection head output tensor
type OutputNode struct {
	// Data is the raw tensor memory
	Data []int8
	// Channels, Rows and Cols are the tensor shape
	Channels int
	Rows     int
	Cols     int
	// ColStride is Cols rounded up to RowAlignment
	ColStride int
	// Radix and Scale are the dequantization parameters
	Radix int32
	Scale float32
}

// NewOutputNode returns the OutputNode view of the given descriptor
func NewOutputNode(d NodeDesc) OutputNode {
	return OutputNode{
		Data:      d.Data,
		Channels:  d.Channels,
		Rows:      d.Rows,
		Cols:      d.Cols,
		ColStride: RoundUp(d.Cols, RowAlignment),
		Radix:     d.Radix,
		Scale:     d.Scale,
	}
}

// RoundUp rounds n up to the next multiple of align
func RoundUp(n, align int) int {
	return (n + align - 1) / align * align
}

// Offset returns the index into Data of the element at channel c, row r and
// column col
func (o OutputNode) Offset(c, r, col int) int {
	return r*o.Channels*o.ColStride + c*o.ColStride + col
}

// At returns the raw value at channel c, row r and column col
func (o OutputNode) At(c, r, col int) int8 {
	return o.Data[o.Offset(c, r, col)]
}

// Divisor returns 2^Radix * Scale, the value a raw element is divided by to
// dequantize it
func (o OutputNode) Divisor() float32 {
	return float32(math.Ldexp(1, int(o.Radix))) * o.Scale
}

// Dequant converts a raw fixed-point element to its real value
func (o OutputNode) Dequant(raw int8) float32 {
	return float32(raw) / o.Divisor()
}

// Size returns the number of elements the node occupies including row padding
func (o OutputNode) Size() int {
	return o.Rows * o.Channels * o.ColStride
}

// String returns the OutputNode attributes formatted as a string
func (o OutputNode) String() string {
	return fmt.Sprintf("channels=%d, rows=%d, cols=%d, col_stride=%d, radix=%d, scale=%f",
		o.Channels, o.Rows, o.Cols, o.ColStride, o.Radix, o.Scale)
}
