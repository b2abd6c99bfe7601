package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Apify      ApifyConfig      `mapstructure:"apify"`
	Video      VideoConfig      `mapstructure:"video"`
	Font       FontConfig       `mapstructure:"font"`
	Upload     UploadConfig     `mapstructure:"upload"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type OpenRouterConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string `mapstructure:"model"`
	VisionModel string `mapstructure:"vision_model"`
}

type ApifyConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	Actor          string `mapstructure:"actor"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type VideoConfig struct {
	Width           int     `mapstructure:"width"`
	Height          int     `mapstructure:"height"`
	FPS             int     `mapstructure:"fps"`
	DurationSeconds float64 `mapstructure:"duration_seconds"`
	Bitrate         string  `mapstructure:"bitrate"`
}

type FontConfig struct {
	// Paths is tried in order; the embedded Go Bold face is used when
	// none of them resolve.
	Paths []string `mapstructure:"paths"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// HasOpenRouter reports whether a language-model gateway credential is
// configured. Components branch on this once at entry, never on env vars.
func (c *Config) HasOpenRouter() bool {
	return c.OpenRouter.APIKey != ""
}

// HasApify reports whether the scraping gateway credential is configured.
func (c *Config) HasApify() bool {
	return c.Apify.Token != ""
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "meta-llama/llama-3.1-8b-instruct:free")
	v.SetDefault("openrouter.vision_model", "meta-llama/llama-3.2-11b-vision-instruct:free")
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.actor", "trudax~reddit-scraper-lite")
	v.SetDefault("apify.timeout_seconds", 120)
	v.SetDefault("video.width", 1080)
	v.SetDefault("video.height", 1920)
	v.SetDefault("video.fps", 24)
	v.SetDefault("video.duration_seconds", 5.0)
	v.SetDefault("video.bitrate", "8000k")
	v.SetDefault("font.paths", []string{
		"./fonts/TikTokSans-Bold.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	})
	v.SetDefault("upload.dir", "")
	v.SetDefault("upload.max_size_mb", 16)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("openrouter.base_url", "OPENROUTER_BASE_URL")
	v.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	v.BindEnv("openrouter.vision_model", "OPENROUTER_VISION_MODEL")
	v.BindEnv("apify.token", "APIFY_TOKEN")
	v.BindEnv("apify.actor", "APIFY_ACTOR")
	v.BindEnv("upload.dir", "UPLOAD_DIR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
