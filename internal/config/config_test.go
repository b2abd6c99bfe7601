package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SERVER_MODE", "OPENROUTER_API_KEY", "OPENROUTER_BASE_URL",
		"OPENROUTER_MODEL", "OPENROUTER_VISION_MODEL", "APIFY_TOKEN",
		"APIFY_ACTOR", "UPLOAD_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Video.Width != 1080 || cfg.Video.Height != 1920 {
		t.Errorf("canvas = %dx%d, want 1080x1920", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.FPS != 24 || cfg.Video.DurationSeconds != 5.0 {
		t.Errorf("timeline = %dfps/%gs, want 24fps/5s", cfg.Video.FPS, cfg.Video.DurationSeconds)
	}
	if cfg.Video.Bitrate != "8000k" {
		t.Errorf("bitrate = %q, want 8000k", cfg.Video.Bitrate)
	}
	if cfg.Apify.Actor != "trudax~reddit-scraper-lite" {
		t.Errorf("actor = %q", cfg.Apify.Actor)
	}
	if cfg.Apify.TimeoutSeconds != 120 {
		t.Errorf("apify timeout = %d, want 120", cfg.Apify.TimeoutSeconds)
	}
	if cfg.OpenRouter.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("openrouter base = %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.Upload.MaxSizeMB != 16 {
		t.Errorf("upload max = %d, want 16", cfg.Upload.MaxSizeMB)
	}

	if cfg.HasOpenRouter() {
		t.Error("HasOpenRouter should be false without a key")
	}
	if cfg.HasApify() {
		t.Error("HasApify should be false without a token")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("APIFY_TOKEN", "apify-test")
	t.Setenv("OPENROUTER_MODEL", "some/other-model")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080 from PORT", cfg.Server.Port)
	}
	if !cfg.HasOpenRouter() || cfg.OpenRouter.APIKey != "sk-test" {
		t.Error("OPENROUTER_API_KEY not bound")
	}
	if !cfg.HasApify() {
		t.Error("APIFY_TOKEN not bound")
	}
	if cfg.OpenRouter.Model != "some/other-model" {
		t.Errorf("model = %q, want env override", cfg.OpenRouter.Model)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 9999\nvideo:\n  fps: 30\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 from file", cfg.Server.Port)
	}
	if cfg.Video.FPS != 30 {
		t.Errorf("fps = %d, want 30 from file", cfg.Video.FPS)
	}
	// Untouched keys keep their defaults.
	if cfg.Video.Width != 1080 {
		t.Errorf("width = %d, want default 1080", cfg.Video.Width)
	}
}
