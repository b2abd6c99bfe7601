package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/acesley/hookreel/internal/service"
	"github.com/acesley/hookreel/internal/storage"
	"github.com/gin-gonic/gin"
)

// errorFallbackHooks is the suggestion list returned alongside an error
// when the upload could not be processed at all.
var errorFallbackHooks = []string{
	"When this hits different...",
	"POV: You finally understand...",
	"This is your sign to...",
	"Nobody talks about this but...",
	"The way this changed everything...",
}

// HooksHandler serves hook suggestion requests.
type HooksHandler struct {
	openRouter *service.OpenRouterService
	scratch    *storage.ScratchStore
}

// NewHooksHandler creates a hooks handler.
func NewHooksHandler(openRouter *service.OpenRouterService, scratch *storage.ScratchStore) *HooksHandler {
	return &HooksHandler{openRouter: openRouter, scratch: scratch}
}

// GenerateHooks handles POST /generate-hooks. It describes the uploaded
// image with the vision model and returns caption hook suggestions.
func (h *HooksHandler) GenerateHooks(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}
	if !allowedFile(fh.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	imagePath, err := h.scratch.SaveUpload(fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store upload: " + err.Error(),
			"hooks": errorFallbackHooks,
		})
		return
	}
	defer h.scratch.Remove(imagePath)

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read upload: " + err.Error(),
			"hooks": errorFallbackHooks,
		})
		return
	}

	ctx := c.Request.Context()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	description := h.openRouter.DescribeImage(ctx, imageData, format)
	hooks := h.openRouter.GenerateHooks(ctx, description, service.DefaultHookCount)

	c.JSON(http.StatusOK, gin.H{
		"hooks":       hooks,
		"description": description,
	})
}
