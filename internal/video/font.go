package video

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// HookFontSize is the caption size in pixels. Wrapping measures advance
// widths of the same face that renders the text, so the two can never
// disagree about the panel height.
const HookFontSize = 44

// LoadFace resolves the caption font by trying each path in order and
// falling back to the embedded Go Bold face when none parse.
func LoadFace(paths []string, size float64) (font.Face, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		face, err := newFace(data, size)
		if err != nil {
			continue
		}
		return face, nil
	}

	face, err := newFace(gobold.TTF, size)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback font: %w", err)
	}
	return face, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
