package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/acesley/hookreel/internal/logger"
	"github.com/acesley/hookreel/internal/prompts"
	"github.com/go-resty/resty/v2"
)

// DefaultHookCount is how many caption hooks one request asks for.
const DefaultHookCount = 5

// FallbackDescription stands in for a vision-model description whenever the
// gateway is unreachable or unconfigured.
const FallbackDescription = "an interesting meme or image"

// placeholderHook is the single suggestion returned when no gateway
// credential is configured at all.
const placeholderHook = "Add your hook text here..."

// fallbackHooks is returned when a configured gateway call fails.
var fallbackHooks = []string{
	"When this hits different...",
	"POV: You finally get it...",
	"This is your sign...",
}

// OpenRouterService talks to the OpenRouter chat-completions gateway for
// image descriptions, hook suggestions, and comment rephrasing.
//
// The exported methods never return errors: each wraps an error-returning
// call with the documented fallback value, so the fallback policy lives
// here at the boundary instead of in the handlers.
type OpenRouterService struct {
	client      *resty.Client
	model       string
	visionModel string
	endpoint    string
	configured  bool
}

// OpenRouterConfig holds configuration for the OpenRouter service.
type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
}

// NewOpenRouterService creates the gateway client. An empty API key yields
// an unconfigured service whose methods return placeholders without any
// network traffic.
func NewOpenRouterService(cfg *OpenRouterConfig) *OpenRouterService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}

	return &OpenRouterService{
		client:      client,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		endpoint:    baseURL + "/chat/completions",
		configured:  cfg.APIKey != "",
	}
}

// IsConfigured reports whether a gateway credential is present.
func (s *OpenRouterService) IsConfigured() bool {
	return s.configured
}

// OpenAI-compatible chat completion request/response structures.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []interface{} for image parts
}

type chatTextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatImageContent struct {
	Type     string       `json:"type"`
	ImageURL chatImageURL `json:"image_url"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// complete sends one chat request and returns the first choice's content.
func (s *OpenRouterService) complete(ctx context.Context, model string, content interface{}) (string, error) {
	req := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: content}},
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", fmt.Errorf("openrouter returned HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("openrouter returned HTTP %d", httpResp.StatusCode())
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openrouter error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// describeImage asks the vision model for a short description.
func (s *OpenRouterService) describeImage(ctx context.Context, imageData []byte, format string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		mimeTypeFor(format), base64.StdEncoding.EncodeToString(imageData))

	content := []interface{}{
		chatTextContent{Type: "text", Text: prompts.VisionUserPrompt},
		chatImageContent{Type: "image_url", ImageURL: chatImageURL{URL: dataURL}},
	}
	return s.complete(ctx, s.visionModel, content)
}

// DescribeImage returns a 1-2 sentence description of the image, or the
// fixed fallback description on any transport or parse failure.
func (s *OpenRouterService) DescribeImage(ctx context.Context, imageData []byte, format string) string {
	if !s.configured {
		return FallbackDescription
	}
	description, err := s.describeImage(ctx, imageData, format)
	if err != nil {
		logger.FromContext(ctx).WithField(logger.FieldComponent, "openrouter").
			WithError(err).Warn("Vision call failed, using fallback description")
		return FallbackDescription
	}
	return strings.TrimSpace(description)
}

// generateHooks asks for count newline-separated hooks and parses them.
func (s *OpenRouterService) generateHooks(ctx context.Context, description string, count int) ([]string, error) {
	content, err := s.complete(ctx, s.model, prompts.HooksPrompt(description, count))
	if err != nil {
		return nil, err
	}

	var hooks []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hooks = append(hooks, line)
		if len(hooks) == count {
			break
		}
	}
	if len(hooks) == 0 {
		return nil, fmt.Errorf("openrouter returned no usable hooks")
	}
	return hooks, nil
}

// GenerateHooks returns up to count hook suggestions for a description.
// Without a credential it returns a single placeholder and performs no
// network call; a failed gateway call yields the fixed fallback list.
func (s *OpenRouterService) GenerateHooks(ctx context.Context, description string, count int) []string {
	if count <= 0 {
		count = DefaultHookCount
	}
	if !s.configured {
		return []string{placeholderHook}
	}
	hooks, err := s.generateHooks(ctx, description, count)
	if err != nil {
		logger.FromContext(ctx).WithField(logger.FieldComponent, "openrouter").
			WithError(err).Warn("Hook generation failed, using fallback hooks")
		return append([]string(nil), fallbackHooks...)
	}
	return hooks
}

// rephrase asks the model to rewrite a comment as a hook.
func (s *OpenRouterService) rephrase(ctx context.Context, comment, title string) (string, error) {
	content, err := s.complete(ctx, s.model, prompts.RephrasePrompt(comment, title))
	if err != nil {
		return "", err
	}
	hook := strings.TrimSpace(content)
	if hook == "" {
		return "", fmt.Errorf("openrouter returned an empty rephrase")
	}
	return hook, nil
}

// Rephrase rewrites a forum comment as a hook using one of the prompt's
// copywriting frameworks. The 50-character cap is advisory to the model
// only; the response is returned verbatim. Any failure yields the original
// comment unchanged.
func (s *OpenRouterService) Rephrase(ctx context.Context, comment, title string) string {
	if !s.configured {
		return comment
	}
	hook, err := s.rephrase(ctx, comment, title)
	if err != nil {
		logger.FromContext(ctx).WithField(logger.FieldComponent, "openrouter").
			WithError(err).Warn("Rephrase failed, returning original comment")
		return comment
	}
	return hook
}

func mimeTypeFor(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
