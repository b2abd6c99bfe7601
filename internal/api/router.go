package api

import (
	"github.com/acesley/hookreel/internal/api/handler"
	"github.com/acesley/hookreel/internal/api/middleware"
	"github.com/acesley/hookreel/internal/config"
	"github.com/acesley/hookreel/internal/logger"
	"github.com/acesley/hookreel/internal/service"
	"github.com/acesley/hookreel/internal/storage"
	"github.com/acesley/hookreel/internal/video"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	cfg *config.Config,
	log *logger.Logger,
	openRouter *service.OpenRouterService,
	reddit *service.RedditService,
	assembler *video.Assembler,
	scratch *storage.ScratchStore,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	maxBody := int64(cfg.Upload.MaxSizeMB) << 20
	r.MaxMultipartMemory = maxBody

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))
	r.Use(middleware.BodyLimit(maxBody))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	hooksHandler := handler.NewHooksHandler(openRouter, scratch)
	videoHandler := handler.NewVideoHandler(assembler, scratch, cfg.Video)
	redditHandler := handler.NewRedditHandler(reddit, openRouter, assembler, scratch, cfg.Video)

	// Upload page and health check
	r.GET("/", handler.Index)
	r.GET("/health", healthHandler.Health)

	// Upload flow
	r.POST("/generate-hooks", hooksHandler.GenerateHooks)
	r.POST("/create-video", videoHandler.CreateVideo)

	// Reddit flow
	redditGroup := r.Group("/reddit")
	{
		redditGroup.GET("/posts", redditHandler.GetPosts)
		redditGroup.POST("/rephrase", redditHandler.Rephrase)
		redditGroup.POST("/create-video", redditHandler.CreateVideo)
		redditGroup.GET("/status", redditHandler.Status)
	}

	return r
}
