package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/acesley/hookreel/internal/config"
	"github.com/acesley/hookreel/internal/service"
	"github.com/acesley/hookreel/internal/storage"
	"github.com/acesley/hookreel/internal/video"
	"github.com/gin-gonic/gin"
)

// RedditHandler serves the forum ingestion endpoints: post fetching,
// comment rephrasing, and rendering a clip from a scraped image.
type RedditHandler struct {
	reddit     *service.RedditService
	openRouter *service.OpenRouterService
	assembler  *video.Assembler
	scratch    *storage.ScratchStore
	opts       video.Options
}

// NewRedditHandler creates a reddit handler.
func NewRedditHandler(
	reddit *service.RedditService,
	openRouter *service.OpenRouterService,
	assembler *video.Assembler,
	scratch *storage.ScratchStore,
	videoCfg config.VideoConfig,
) *RedditHandler {
	return &RedditHandler{
		reddit:     reddit,
		openRouter: openRouter,
		assembler:  assembler,
		scratch:    scratch,
		opts: video.Options{
			Duration: videoCfg.DurationSeconds,
			FPS:      videoCfg.FPS,
		},
	}
}

// GetPosts handles GET /reddit/posts.
func (h *RedditHandler) GetPosts(c *gin.Context) {
	subreddit := c.DefaultQuery("subreddit", "adhdmeme")
	sortOrder := c.DefaultQuery("sort", "hot")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	posts, err := h.reddit.FetchPosts(c.Request.Context(), subreddit, sortOrder, limit)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrApifyNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type rephraseRequest struct {
	Comment string `json:"comment"`
	Title   string `json:"title"`
}

// Rephrase handles POST /reddit/rephrase.
func (h *RedditHandler) Rephrase(c *gin.Context) {
	var req rephraseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field 'comment' is required"})
		return
	}

	hook := h.openRouter.Rephrase(c.Request.Context(), req.Comment, req.Title)
	c.JSON(http.StatusOK, gin.H{"hook": hook})
}

type redditVideoRequest struct {
	ImageURL string `json:"image_url"`
	Hook     string `json:"hook"`
}

// CreateVideo handles POST /reddit/create-video. The source image comes
// from a scraped post URL instead of an upload; the render pipeline is the
// same as for uploads.
func (h *RedditHandler) CreateVideo(c *gin.Context) {
	var req redditVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" || req.Hook == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fields 'image_url' and 'hook' are required"})
		return
	}

	ctx := c.Request.Context()
	imageData, ext, err := h.reddit.FetchImage(ctx, req.ImageURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	imagePath, err := h.scratch.Save(imageData, ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image: " + err.Error()})
		return
	}
	defer h.scratch.Remove(imagePath)

	outputPath := h.scratch.Path(".mp4")
	defer h.scratch.Remove(outputPath)

	if err := h.assembler.CreateVideo(ctx, imagePath, req.Hook, outputPath, h.opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.FileAttachment(outputPath, downloadName)
}

// Status handles GET /reddit/status.
func (h *RedditHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured":     h.reddit.IsConfigured(),
		"has_openrouter": h.openRouter.IsConfigured(),
	})
}
