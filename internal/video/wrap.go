package video

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap greedily packs whitespace-separated words into lines whose measured
// pixel width stays within maxWidth. A single word wider than maxWidth is
// placed alone on its own line; there is no mid-word breaking. Empty input
// yields no lines.
func Wrap(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)

	var lines []string
	var current string
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
