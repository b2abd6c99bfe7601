package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acesley/hookreel/internal/api"
	"github.com/acesley/hookreel/internal/config"
	"github.com/acesley/hookreel/internal/logger"
	"github.com/acesley/hookreel/internal/service"
	"github.com/acesley/hookreel/internal/storage"
	"github.com/acesley/hookreel/internal/video"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLog := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		FilePath:    cfg.Log.File,
		ServiceName: "hookreel-api",
	})
	logger.SetDefault(appLog)

	// Load the hook face once; every render shares it
	face, err := video.LoadFace(cfg.Font.Paths, video.HookFontSize)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load font")
	}

	// Initialize the render pipeline
	compositor := video.NewCompositor(face, cfg.Video.Width, cfg.Video.Height)
	encoder := video.NewH264Encoder(cfg.Video.Width, cfg.Video.Height, cfg.Video.Bitrate)
	assembler := video.NewAssembler(compositor, encoder)

	// Initialize services
	openRouter := service.NewOpenRouterService(&service.OpenRouterConfig{
		APIKey:      cfg.OpenRouter.APIKey,
		BaseURL:     cfg.OpenRouter.BaseURL,
		Model:       cfg.OpenRouter.Model,
		VisionModel: cfg.OpenRouter.VisionModel,
	})
	if !openRouter.IsConfigured() {
		appLog.Warn("OPENROUTER_API_KEY not set, hook generation will use fallbacks")
	}

	reddit := service.NewRedditService(&service.RedditConfig{
		Token:          cfg.Apify.Token,
		BaseURL:        cfg.Apify.BaseURL,
		Actor:          cfg.Apify.Actor,
		TimeoutSeconds: cfg.Apify.TimeoutSeconds,
	})
	if !reddit.IsConfigured() {
		appLog.Warn("APIFY_TOKEN not set, reddit scraping disabled")
	}

	// Initialize scratch storage for uploads and rendered clips
	scratch, err := storage.NewScratchStore(cfg.Upload.Dir)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create scratch store")
	}
	appLog.WithField("dir", scratch.Dir()).Info("Scratch store ready")

	// Setup router
	router := api.SetupRouter(cfg, appLog, openRouter, reddit, assembler, scratch)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLog.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Fatal("Server forced to shutdown")
	}

	appLog.Info("Server exited")
}
