package kdp

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NodeFile describes an output node dumped from the NPU to a raw binary file
type NodeFile struct {
	// File is the path to the raw int8 dump, relative paths are resolved
	// against the descriptor directory
	File     string  `yaml:"file"`
	Channels int     `yaml:"channels"`
	Rows     int     `yaml:"rows"`
	Cols     int     `yaml:"cols"`
	Radix    int32   `yaml:"radix"`
	Scale    float32 `yaml:"scale"`
}

// Descriptor is the on disk description of a dumped inference used to replay
// post processing offline
type Descriptor struct {
	Nodes    []NodeFile `yaml:"nodes"`
	Geometry Geometry   `yaml:"geometry"`
	Params   Params     `yaml:"params"`
}

var (
	// ErrNoNodes is returned when a descriptor lists no output nodes
	ErrNoNodes = errors.New("descriptor has no output nodes")
	// ErrTooManyNodes is returned when a descriptor lists more than MaxHeads
	// output nodes
	ErrTooManyNodes = errors.New("descriptor has too many output nodes")
	// ErrNodeSize is returned when a node dump does not match its shape
	ErrNodeSize = errors.New("node dump size does not match shape")
	// ErrModelSize is returned when a descriptor does not give the model
	// input dimensions
	ErrModelSize = errors.New("descriptor geometry has no model input size")
	// ErrGeometryScale is returned when a descriptor gives raw image
	// dimensions without the scale mapping model pixels onto them
	ErrGeometryScale = errors.New("descriptor geometry has raw size but no scale")
)

// ParseDescriptor decodes a YAML descriptor
func ParseDescriptor(r io.Reader) (*Descriptor, error) {

	var d Descriptor

	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(err, "error decoding descriptor")
	}

	if len(d.Nodes) == 0 {
		return nil, ErrNoNodes
	}

	if len(d.Nodes) > MaxHeads {
		return nil, errors.Wrapf(ErrTooManyNodes, "got %d, max %d",
			len(d.Nodes), MaxHeads)
	}

	geo := d.Geometry

	if geo.ModelRows <= 0 || geo.ModelCols <= 0 {
		return nil, errors.Wrapf(ErrModelSize, "model_rows=%d, model_cols=%d",
			geo.ModelRows, geo.ModelCols)
	}

	if geo.HasRaw() && (geo.ScaleWidth <= 0 || geo.ScaleHeight <= 0) {
		return nil, errors.Wrapf(ErrGeometryScale, "scale_width=%f, scale_height=%f",
			geo.ScaleWidth, geo.ScaleHeight)
	}

	return &d, nil
}

// LoadDescriptor reads the YAML descriptor at file along with every node dump
// it references and returns the resulting inference Image.  A geometry
// without raw image size is returned as is, complete it with
// IdentityGeometry or the letterbox geometry of the source image before post
// processing.
func LoadDescriptor(file string) (*Image, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening descriptor")
	}

	defer f.Close()

	d, err := ParseDescriptor(f)

	if err != nil {
		return nil, errors.Wrapf(err, "descriptor %s", file)
	}

	dir := filepath.Dir(file)

	img := &Image{
		Nodes:    make([]NodeDesc, len(d.Nodes)),
		Geometry: d.Geometry,
		Params:   d.Params,
	}

	for i, nf := range d.Nodes {

		path := nf.File

		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		img.Nodes[i], err = LoadNodeDump(path, nf)

		if err != nil {
			return nil, errors.Wrapf(err, "output node %d", i)
		}
	}

	return img, nil
}

// LoadNodeDump reads the raw dump file for the node described by nf
func LoadNodeDump(file string, nf NodeFile) (NodeDesc, error) {

	f, err := os.Open(file)

	if err != nil {
		return NodeDesc{}, errors.Wrap(err, "error opening node dump")
	}

	defer f.Close()

	return ReadNodeDump(f, nf)
}

// ReadNodeDump reads a raw int8 node dump from r.  The dump must contain
// exactly Rows*Channels*RoundUp(Cols, RowAlignment) bytes.
func ReadNodeDump(r io.Reader, nf NodeFile) (NodeDesc, error) {

	raw, err := io.ReadAll(r)

	if err != nil {
		return NodeDesc{}, errors.Wrap(err, "error reading node dump")
	}

	want := nf.Rows * nf.Channels * RoundUp(nf.Cols, RowAlignment)

	if len(raw) != want {
		return NodeDesc{}, errors.Wrapf(ErrNodeSize, "got %d bytes, want %d",
			len(raw), want)
	}

	data := make([]int8, len(raw))

	for i, b := range raw {
		data[i] = int8(b)
	}

	return NodeDesc{
		Data:     data,
		Channels: nf.Channels,
		Rows:     nf.Rows,
		Cols:     nf.Cols,
		Radix:    nf.Radix,
		Scale:    nf.Scale,
	}, nil
}
