package video

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/acesley/hookreel/internal/logger"
	_ "golang.org/x/image/webp"
)

// Options control a single render job. Zero values fall back to the
// standard 5 second, 24 fps clip.
type Options struct {
	Duration float64
	FPS      int
}

// TotalFrames returns the frame count for a clip duration at a frame rate.
func TotalFrames(duration float64, fps int) int {
	return int(duration * float64(fps))
}

// Assembler drives the compositor over every frame index of a clip and
// streams the raster sequence to the encoder in index order.
type Assembler struct {
	comp *Compositor
	enc  FrameEncoder
}

// NewAssembler creates an assembler over a compositor and encoder.
func NewAssembler(comp *Compositor, enc FrameEncoder) *Assembler {
	return &Assembler{comp: comp, enc: enc}
}

// CreateVideo renders the image at imagePath with the hook caption into an
// MP4 at outputPath. Decode and encoder failures propagate; the caller owns
// removal of the source and output files on every path.
func (a *Assembler) CreateVideo(ctx context.Context, imagePath, hook, outputPath string, opts Options) error {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open source image: %w", err)
	}
	src, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to decode source image: %w", err)
	}

	total := TotalFrames(opts.Duration, opts.FPS)
	log := logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldComponent: "video",
		"frames":              total,
		"fps":                 opts.FPS,
		"format":              format,
	})
	log.Info("Rendering frames")
	start := time.Now()

	// Frames are pure functions of their index, so they are rendered
	// strictly in order and piped straight into the encoder instead of
	// being collected in memory.
	pr, pw := io.Pipe()
	go func() {
		for i := 0; i < total; i++ {
			frame := a.comp.Render(i, src, hook, opts.FPS)
			if _, err := pw.Write(frame.Pix); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.Close()
	}()

	if err := a.enc.Encode(pr, opts.FPS, outputPath); err != nil {
		// Unblock the render goroutine if the encoder died mid-stream.
		pr.CloseWithError(err)
		return err
	}
	pr.Close()

	log.WithField(logger.FieldDurationMs, time.Since(start).Milliseconds()).Info("Video rendered")
	return nil
}
