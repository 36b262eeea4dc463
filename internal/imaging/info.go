package imaging

import (
	"fmt"
	"image"
	"os"
)

// ImageInfo describes a rendered raster diagram.
type ImageInfo struct {
	Path string `json:"path"`

	// Width and Height are in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is detected from the file content: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	HasAlpha      bool  `json:"has_alpha"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo decodes path through cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, format, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return Describe(path, img, format)
}

// Describe reports the metadata of img, already decoded from path with the
// given format. Only the file size is read from disk.
func Describe(path string, img image.Image, format string) (*ImageInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch m := img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	case *image.Paletted:
		// PlantUML writes paletted PNGs; transparency lives in the palette.
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				hasAlpha = true
				break
			}
		}
	}

	b := img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
