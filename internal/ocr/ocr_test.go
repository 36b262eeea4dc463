package ocr

import (
	"reflect"
	"testing"
)

func TestCheckLabels(t *testing.T) {
	text := "Car\n-String make\n+start()\n\nEngine  horse-\npower"

	tests := []struct {
		name        string
		labels      []string
		wantFound   []string
		wantMissing []string
	}{
		{"exact", []string{"Car", "Engine"}, []string{"Car", "Engine"}, []string{}},
		{"case and punctuation", []string{"start", "STRING MAKE"}, []string{"start", "STRING MAKE"}, []string{}},
		{"missing", []string{"Wheel", "Car"}, []string{"Car"}, []string{"Wheel"}},
		{"empty labels ignored", []string{"", "  ", "Car"}, []string{"Car"}, []string{}},
		{"none", nil, []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckLabels(text, tt.labels)
			if !reflect.DeepEqual(got.Found, tt.wantFound) {
				t.Errorf("Found = %v, want %v", got.Found, tt.wantFound)
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			if got.Complete() != (len(tt.wantMissing) == 0) {
				t.Errorf("Complete = %v", got.Complete())
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Hello,   World! ": "hello world",
		"A->B: msg()":        "ab msg",
		"line1\n\tline2":     "line1 line2",
		"Ünïcødé 42":         "ünïcødé 42",
		"":                   "",
	}
	for in, want := range tests {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
