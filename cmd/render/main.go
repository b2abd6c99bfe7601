package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acesley/hookreel/internal/config"
	"github.com/acesley/hookreel/internal/logger"
	"github.com/acesley/hookreel/internal/video"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "hookreel-render",
	})
	logger.SetDefault(appLogger)

	// Parse command line flags
	imagePath := flag.String("image", "", "Path to the source image (required)")
	outputPath := flag.String("out", "output_tiktok.mp4", "Path for the rendered clip")
	hook := flag.String("hook", "Your hook text here...", "Hook text drawn on the caption panel")
	duration := flag.Float64("duration", 0, "Clip duration in seconds (0 uses config)")
	fps := flag.Int("fps", 0, "Frames per second (0 uses config)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *imagePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if *duration <= 0 {
		*duration = cfg.Video.DurationSeconds
	}
	if *fps <= 0 {
		*fps = cfg.Video.FPS
	}

	face, err := video.LoadFace(cfg.Font.Paths, video.HookFontSize)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load font")
	}

	compositor := video.NewCompositor(face, cfg.Video.Width, cfg.Video.Height)
	encoder := video.NewH264Encoder(cfg.Video.Width, cfg.Video.Height, cfg.Video.Bitrate)
	assembler := video.NewAssembler(compositor, encoder)

	// Cancel the render on Ctrl-C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	appLogger.WithFields(logger.Fields{
		"image":    *imagePath,
		"out":      *outputPath,
		"duration": *duration,
		"fps":      *fps,
	}).Info("Rendering clip")

	start := time.Now()
	opts := video.Options{Duration: *duration, FPS: *fps}
	if err := assembler.CreateVideo(ctx, *imagePath, *hook, *outputPath, opts); err != nil {
		appLogger.WithError(err).Fatal("Render failed")
	}

	appLogger.WithFields(logger.Fields{
		"out":         *outputPath,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Render complete")
}
