package handler

import (
	"net/http"

	"github.com/acesley/hookreel/internal/config"
	"github.com/acesley/hookreel/internal/storage"
	"github.com/acesley/hookreel/internal/video"
	"github.com/gin-gonic/gin"
)

// downloadName is the attachment filename for every rendered clip.
const downloadName = "tiktok_hook.mp4"

// VideoHandler serves video creation requests.
type VideoHandler struct {
	assembler *video.Assembler
	scratch   *storage.ScratchStore
	opts      video.Options
}

// NewVideoHandler creates a video handler with render defaults taken from
// configuration.
func NewVideoHandler(assembler *video.Assembler, scratch *storage.ScratchStore, videoCfg config.VideoConfig) *VideoHandler {
	return &VideoHandler{
		assembler: assembler,
		scratch:   scratch,
		opts: video.Options{
			Duration: videoCfg.DurationSeconds,
			FPS:      videoCfg.FPS,
		},
	}
}

// CreateVideo handles POST /create-video. It renders the uploaded image and
// hook text into a clip and streams it back as an attachment. Scratch files
// are removed on every exit path.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}
	if !allowedFile(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}
	hook := c.DefaultPostForm("hook", "Your hook text here...")

	imagePath, err := h.scratch.SaveUpload(fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload: " + err.Error()})
		return
	}
	defer h.scratch.Remove(imagePath)

	outputPath := h.scratch.Path(".mp4")
	defer h.scratch.Remove(outputPath)

	if err := h.assembler.CreateVideo(c.Request.Context(), imagePath, hook, outputPath, h.opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.FileAttachment(outputPath, downloadName)
}
