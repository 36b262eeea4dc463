package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxZoom is the largest magnification Zoom accepts.
const MaxZoom = 4.0

// Regions are the names accepted by RegionRect.
var Regions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// RegionRect resolves a named part of bounds. center is the middle half in
// both directions.
func RegionRect(bounds image.Rectangle, name string) (image.Rectangle, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var r image.Rectangle
	switch strings.ToLower(name) {
	case "top-left":
		r = image.Rect(0, 0, midX, midY)
	case "top-right":
		r = image.Rect(midX, 0, w, midY)
	case "bottom-left":
		r = image.Rect(0, midY, midX, h)
	case "bottom-right":
		r = image.Rect(midX, midY, w, h)
	case "top-half":
		r = image.Rect(0, 0, w, midY)
	case "bottom-half":
		r = image.Rect(0, midY, w, h)
	case "left-half":
		r = image.Rect(0, 0, midX, h)
	case "right-half":
		r = image.Rect(midX, 0, w, h)
	case "center":
		r = image.Rect(w/4, h/4, w-w/4, h-h/4)
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region %q (use one of: %s)", name, strings.Join(Regions, ", "))
	}
	return r.Add(bounds.Min), nil
}

// Zoom crops rect out of img, magnifies it by factor and returns it as a
// preview no larger than DefaultPreviewSize. The factor must lie between 1
// and MaxZoom; 0 means 1.
func Zoom(img image.Image, rect image.Rectangle, factor float64) (*Preview, error) {
	b := img.Bounds()
	if rect.Empty() {
		return nil, fmt.Errorf("invalid region %v: x1 must be < x2 and y1 must be < y2", rect)
	}
	if !rect.In(b) {
		return nil, fmt.Errorf("region %v outside image bounds %v", rect, b)
	}
	if factor == 0 {
		factor = 1
	}
	if factor < 1 || factor > MaxZoom {
		return nil, fmt.Errorf("zoom %.2f out of range [1, %.0f]", factor, MaxZoom)
	}

	part := imaging.Crop(img, rect)
	if factor != 1 {
		w := int(float64(part.Bounds().Dx()) * factor)
		h := int(float64(part.Bounds().Dy()) * factor)
		part = imaging.Resize(part, max(w, 1), max(h, 1), imaging.Lanczos)
	}
	return MakePreview(part, DefaultPreviewSize, DefaultPreviewSize)
}
