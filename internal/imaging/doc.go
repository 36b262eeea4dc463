// Package imaging inspects rendered diagram rasters and builds the scaled
// PNG previews that are returned inline to MCP clients. Zoom magnifies one
// region of a diagram so small labels can be read.
//
// PNG, JPEG and GIF output can be decoded. SVG, PDF, EPS and text output are
// not rasters; functions given such a file return ErrNotRaster so callers
// can skip the preview rather than fail the render.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use and holds a bounded number of
// images. Previews and zooms never modify a decoded image.
package imaging
