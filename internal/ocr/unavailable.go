//go:build !(cgo && tesseract)

package ocr

import "image"

// Available reports whether OCR can be used.
func Available() bool { return false }

// GetInfo describes the missing OCR engine.
func GetInfo() Info {
	return Info{Available: false, Backend: "none"}
}

// ExtractText always returns ErrUnavailable in this build.
func ExtractText(img image.Image, language string) (*Result, error) {
	return nil, ErrUnavailable
}
