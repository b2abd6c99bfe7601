package video

import (
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FrameEncoder turns a raw RGBA frame stream into a video file.
type FrameEncoder interface {
	Encode(frames io.Reader, fps int, outputPath string) error
}

// H264Encoder encodes raw RGBA frames to an H.264 MP4 via ffmpeg. Container
// muxing and codec details are delegated entirely to ffmpeg; this type only
// fixes the pipe geometry and target bitrate.
type H264Encoder struct {
	width   int
	height  int
	bitrate string
}

// NewH264Encoder creates an encoder for the given frame geometry.
func NewH264Encoder(width, height int, bitrate string) *H264Encoder {
	if bitrate == "" {
		bitrate = "8000k"
	}
	return &H264Encoder{width: width, height: height, bitrate: bitrate}
}

// Encode reads width*height*4 bytes per frame from frames until EOF and
// writes outputPath. The encoder reports failure through the returned error;
// it never retries.
func (e *H264Encoder) Encode(frames io.Reader, fps int, outputPath string) error {
	err := ffmpeg.Input("pipe:",
		ffmpeg.KwArgs{
			"format":    "rawvideo",
			"pix_fmt":   "rgba",
			"s":         fmt.Sprintf("%dx%d", e.width, e.height),
			"framerate": fps,
		}).
		Output(outputPath, ffmpeg.KwArgs{
			"c:v":     "libx264",
			"pix_fmt": "yuv420p",
			"preset":  "medium",
			"b:v":     e.bitrate,
			"r":       fps,
		}).
		OverWriteOutput().
		WithInput(frames).
		Silent(true).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg encoding failed: %w", err)
	}
	return nil
}
