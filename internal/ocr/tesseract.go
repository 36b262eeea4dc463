//go:build cgo && tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Available reports whether OCR can be used.
func Available() bool { return true }

// GetInfo describes the linked Tesseract.
func GetInfo() Info {
	return Info{Available: true, Backend: "gosseract", Version: gosseract.Version()}
}

// ExtractText recognizes the text in img.
//
// Word bounds are reported in img's coordinates even when the image was
// upscaled for recognition. If word boxes cannot be read, FullText is
// still returned with an empty Words slice.
func ExtractText(img image.Image, language string) (*Result, error) {
	if language == "" {
		language = DefaultLanguage
	}

	prepared, scale := prepare(img)
	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := &Result{FullText: text, Words: []Word{}}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	origin := img.Bounds().Min
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		result.Words = append(result.Words, Word{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: origin.X + box.Box.Min.X/scale,
				Y1: origin.Y + box.Box.Min.Y/scale,
				X2: origin.X + box.Box.Max.X/scale,
				Y2: origin.Y + box.Box.Max.Y/scale,
			},
		})
	}
	return result, nil
}

// prepare converts img to grayscale and upscales it by an integer factor
// until it is at least MinOCRWidth wide.
func prepare(img image.Image) (image.Image, int) {
	w := img.Bounds().Dx()
	scale := 1
	for w > 0 && w*scale < MinOCRWidth && scale < 4 {
		scale++
	}
	out := imaging.Grayscale(img)
	if scale > 1 {
		out = imaging.Resize(out, w*scale, 0, imaging.Lanczos)
	}
	return out, scale
}
