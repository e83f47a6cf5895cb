/*
go-kdp provides Go post processing for object detection models run on the
Kneron KDP NPU (KL520/KL720).  The NPU hands back one fixed-point int8 output
node per detection head along with the geometry used to letterbox the source
image into the model input; this module decodes those nodes into bounding
boxes expressed in the original image coordinates.

The root package describes the output nodes, image geometry and per inference
parameter block.  Decoding, candidate selection, NMS and coordinate remapping
live in the postprocess subpackage.

See the cmd/kdp-yolo program for running the pipeline against dumped outputs.
*/
package kdp
