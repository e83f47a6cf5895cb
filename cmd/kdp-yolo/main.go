// Command kdp-yolo replays YOLOv3 post processing on output nodes dumped from
// the NPU.  It reads an inference descriptor, prints the detected boxes and
// optionally renders them onto the source image.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/swdee/go-kdp"
	"github.com/swdee/go-kdp/postprocess"
	"github.com/swdee/go-kdp/preprocess"
	"github.com/swdee/go-kdp/render"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

func main() {

	// read in cli flags
	descFile := flag.String("d", "../data/inference.yaml", "Inference descriptor listing the dumped output nodes")
	labelFile := flag.String("l", "../data/coco_80_labels_list.txt", "Labels file, one class name per line")
	imgFile := flag.String("i", "", "Source image to render detections on")
	saveFile := flag.String("o", "./kdp-yolo-out.png", "Output image file for rendered detections")
	useCV := flag.Bool("cv", false, "Render detections with OpenCV instead of pure Go")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	log := initLogger(*verbose)

	img, err := kdp.LoadDescriptor(*descFile)

	if err != nil {
		log.Fatalf("Error loading descriptor: %v", err)
	}

	for i := 0; i < img.OutputCount(); i++ {
		log.Debugf("output node %d: %s", i, img.OutputNode(i).String())
	}

	labels, err := kdp.LoadLabels(*labelFile)

	if err != nil {
		log.Warnf("Error loading labels, using class numbers: %v", err)
	}

	var src *image.RGBA

	if *imgFile != "" && !*useCV {
		src, err = loadImage(*imgFile)

		if err != nil {
			log.Fatalf("Error reading image: %v", err)
		}
	}

	var srcBounds *image.Rectangle

	if src != nil {
		b := src.Bounds()
		srcBounds = &b
	}

	var cvImg gocv.Mat

	if *imgFile != "" && *useCV {
		cvImg = gocv.IMRead(*imgFile, gocv.IMReadColor)

		if cvImg.Empty() {
			log.Fatalf("Error reading image from: %s", *imgFile)
		}

		defer cvImg.Close()

		b := image.Rect(0, 0, cvImg.Cols(), cvImg.Rows())
		srcBounds = &b
	}

	if !img.Geometry.HasRaw() {
		img.Geometry = resolveGeometry(img.Geometry, srcBounds)
		log.Debugf("derived geometry %+v", img.Geometry)
	}

	yolo := postprocess.NewYOLOv3(postprocess.YOLOv3DefaultParams())
	yolo.SetLogger(log)

	var result postprocess.DetectionResult

	count := yolo.DetectObjects(img, &result)

	log.WithFields(logrus.Fields{
		"classes": result.ClassCount,
		"boxes":   count,
	}).Info("post processing complete")

	remap := postprocess.NewRemapper(img.Geometry)

	for _, b := range result.Results() {
		fmt.Printf("%s @ (%.0f %.0f %.0f %.0f) %f\n", labels.Name(b.Class),
			b.X1, b.Y1, b.X2, b.Y2, b.Score)

		if *verbose {
			traceModelBox(log, remap, b)
		}
	}

	switch {
	case src != nil:
		render.DetectionBoxesRGBA(src, result.Results(), labels, render.DefaultFont(), 2)

		if err := savePNG(*saveFile, src); err != nil {
			log.Fatalf("Error saving rendered image: %v", err)
		}

	case *useCV && *imgFile != "":
		render.DetectionBoxes(&cvImg, result.Results(), labels, render.DefaultFont(), 2)

		if ok := gocv.IMWrite(*saveFile, cvImg); !ok {
			log.Fatalf("Error saving rendered image to: %s", *saveFile)
		}

	default:
		return
	}

	log.Infof("saved rendered detections to %s", *saveFile)
}

// initLogger returns the logger used by the command
func initLogger(verbose bool) *logrus.Logger {

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

// loadImage decodes the image file and converts it to RGBA
func loadImage(file string) (*image.RGBA, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening image")
	}

	defer f.Close()

	decoded, _, err := image.Decode(f)

	if err != nil {
		return nil, errors.Wrap(err, "error decoding image")
	}

	bounds := decoded.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)

	return rgba, nil
}

// resolveGeometry fills in a descriptor geometry that only gives the model
// input size.  With a source image the model input is assumed to be a plain
// letterbox of it, without one detections are reported in model pixels.
func resolveGeometry(geo kdp.Geometry, src *image.Rectangle) kdp.Geometry {

	if geo.HasRaw() {
		return geo
	}

	if src == nil || src.Empty() {
		return kdp.IdentityGeometry(geo.ModelRows, geo.ModelCols)
	}

	resizer := preprocess.NewResizer(src.Dx(), src.Dy(), geo.ModelCols, geo.ModelRows)
	defer resizer.Close()

	return resizer.Geometry()
}

// traceModelBox logs where a remapped detection sits in the model input
func traceModelBox(log logrus.FieldLogger, remap *postprocess.Remapper,
	b postprocess.BoundingBox) {

	x1, y1, err := remap.ToModel(b.X1, b.Y1)

	if err != nil {
		log.WithError(err).Debug("can not map box to model input")
		return
	}

	x2, y2, err := remap.ToModel(b.X2, b.Y2)

	if err != nil {
		log.WithError(err).Debug("can not map box to model input")
		return
	}

	log.Debugf("  model input box (%.1f %.1f %.1f %.1f)", x1, y1, x2, y2)
}

// savePNG writes the image to file in PNG format
func savePNG(file string, img image.Image) error {

	f, err := os.Create(file)

	if err != nil {
		return errors.Wrap(err, "error creating output file")
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrap(err, "error encoding png")
	}

	return f.Close()
}
