package ocr

import (
	"errors"
	"strings"
	"unicode"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// MinOCRWidth is the width below which images are upscaled before OCR.
const MinOCRWidth = 1600

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("OCR is not available in this build (rebuild with -tags tesseract)")

// Bounds is a word's bounding box in pixels of the original image.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Word is one recognized word.
type Word struct {
	Text string `json:"text"`

	// Confidence is between 0 and 1.
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
}

// Result is the text recognized in a diagram.
type Result struct {
	FullText string `json:"full_text"`

	// Words may be empty when Tesseract cannot report boxes; FullText is
	// still filled in.
	Words []Word `json:"words"`
}

// Info describes the OCR engine compiled into this binary.
type Info struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
}

// LabelCheck reports which expected labels were found in OCR text.
type LabelCheck struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

// Complete reports whether every expected label was found.
func (c LabelCheck) Complete() bool { return len(c.Missing) == 0 }

// CheckLabels looks for each label in text. Matching ignores case,
// punctuation and runs of whitespace, since OCR rarely reproduces either
// exactly. Empty labels are ignored.
func CheckLabels(text string, labels []string) LabelCheck {
	haystack := normalize(text)
	check := LabelCheck{Found: []string{}, Missing: []string{}}
	for _, label := range labels {
		needle := normalize(label)
		if needle == "" {
			continue
		}
		if strings.Contains(haystack, needle) {
			check.Found = append(check.Found, label)
		} else {
			check.Missing = append(check.Missing, label)
		}
	}
	return check
}

// normalize lower-cases s, drops punctuation and collapses whitespace into
// single spaces.
func normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}
