package video

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas geometry and timeline constants for the 9:16 hook format.
const (
	DefaultWidth  = 1080
	DefaultHeight = 1920

	// DefaultDuration and DefaultFPS give the standard 120-frame clip.
	DefaultDuration = 5.0
	DefaultFPS      = 24

	lineHeight  = 54
	textPadding = 30
	sideMargin  = 100

	// blackDuration is how long only background and caption panel show;
	// fadeDuration is the linear alpha ramp that follows.
	blackDuration = 2.0
	fadeDuration  = 3.0
)

var backgroundColor = color.RGBA{R: 12, G: 12, B: 15, A: 255}

// Compositor renders hook frames. Render is a pure function of its
// arguments; the compositor itself holds only the face and canvas size.
type Compositor struct {
	face   font.Face
	width  int
	height int
}

// NewCompositor creates a compositor for the given face and canvas size.
// Zero width/height fall back to the standard 1080x1920 canvas.
func NewCompositor(face font.Face, width, height int) *Compositor {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Compositor{face: face, width: width, height: height}
}

func (c *Compositor) topPadding() int {
	return int(float64(c.height) * 0.12)
}

// PanelHeight returns the caption panel height for a hook: exactly enough
// for the wrapped lines plus fixed padding. It is recomputed per render and
// never reused across hooks.
func (c *Compositor) PanelHeight(hook string) int {
	lines := Wrap(hook, c.face, c.width-sideMargin)
	return c.panelHeight(len(lines))
}

func (c *Compositor) panelHeight(numLines int) int {
	return c.topPadding() + numLines*lineHeight + 2*textPadding
}

// Render draws a single output frame for the given frame index.
//
// Timeline: before blackDuration only the background and caption panel are
// drawn; afterwards the source image, scaled to full canvas width, is
// alpha-composited with a linear fade ending at blackDuration+fadeDuration.
func (c *Compositor) Render(frameIndex int, src image.Image, hook string, fps int) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	lines := Wrap(hook, c.face, c.width-sideMargin)
	panelH := c.panelHeight(len(lines))

	// Opaque caption panel across the top of the canvas.
	draw.Draw(frame, image.Rect(0, 0, c.width, panelH), image.White, image.Point{}, draw.Src)

	ascent := c.face.Metrics().Ascent.Ceil()
	startY := c.topPadding() + textPadding
	for i, line := range lines {
		lineW := font.MeasureString(c.face, line).Ceil()
		d := font.Drawer{
			Dst:  frame,
			Src:  image.Black,
			Face: c.face,
			Dot:  fixed.P((c.width-lineW)/2, startY+i*lineHeight+ascent),
		}
		d.DrawString(line)
	}

	currentTime := float64(frameIndex) / float64(fps)
	if currentTime < blackDuration {
		return frame
	}

	fade := (currentTime - blackDuration) / fadeDuration
	if fade > 1 {
		fade = 1
	}

	sb := src.Bounds()
	scaledH := sb.Dy() * c.width / sb.Dx()
	imageY := panelH + (c.height-panelH-scaledH)/2

	// Vertical placement is intentionally unclamped: a tall image may start
	// above the panel or run past the bottom edge. The canvas bounds clip it.
	dstRect := image.Rect(0, imageY, c.width, imageY+scaledH)

	var opts *xdraw.Options
	if fade < 1 {
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: uint8(fade * 255)}),
		}
	}
	xdraw.CatmullRom.Scale(frame, dstRect, src, sb, xdraw.Over, opts)

	return frame
}
