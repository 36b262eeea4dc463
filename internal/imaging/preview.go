package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// DefaultPreviewSize bounds both preview dimensions.
const DefaultPreviewSize = 1024

// Preview is a PNG rendition of a diagram small enough to inline in a tool
// result.
type Preview struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// MakePreview fits img inside maxW x maxH, keeping its aspect ratio, and
// flattens transparency onto white. Images that already fit are not
// upscaled.
func MakePreview(img image.Image, maxW, maxH int) (*Preview, error) {
	if maxW <= 0 || maxH <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", maxW, maxH)
	}

	fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	b := fitted.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), fitted, image.Point{}, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Preview{
		Width:    b.Dx(),
		Height:   b.Dy(),
		MIMEType: "image/png",
		Data:     buf.Bytes(),
	}, nil
}

// PreviewFile decodes path and builds a preview with DefaultPreviewSize
// bounds. The decoded image is not cached: freshly rendered diagrams are
// rarely looked at again.
func PreviewFile(path string) (*Preview, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return MakePreview(img, DefaultPreviewSize, DefaultPreviewSize)
}
