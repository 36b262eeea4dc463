//go:build !(cgo && tesseract)

package ocr

import (
	"errors"
	"image"
	"testing"
)

func TestExtractText_Unavailable(t *testing.T) {
	if Available() {
		t.Fatal("Available() = true without the tesseract tag")
	}
	_, err := ExtractText(image.NewGray(image.Rect(0, 0, 10, 10)), "")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if info := GetInfo(); info.Available || info.Backend != "none" {
		t.Errorf("GetInfo = %+v", info)
	}
}
