// Package ocr reads the text back out of rendered raster diagrams with
// Tesseract, so a caller can confirm that the labels it asked for actually
// appear in the picture.
//
// # Build Requirements
//
// OCR needs cgo, the Tesseract and Leptonica libraries, and the tesseract
// build tag:
//
//	go build -tags tesseract ./...
//
// Without the tag every extraction returns ErrUnavailable and Available
// reports false. CheckLabels works in every build.
//
// Install Tesseract with:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// # Preprocessing
//
// Diagram renderers draw small text. Images narrower than MinOCRWidth are
// upscaled and converted to grayscale before recognition, which noticeably
// improves results on PlantUML output.
package ocr
