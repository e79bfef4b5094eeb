package llm

import (
	"context"
	"fmt"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
)

// MediaStore persists generated binary assets and hands back a serveable URL.
type MediaStore interface {
	UploadMedia(ctx context.Context, kind, contentType string, data []byte) (string, error)
}

// Gateway is the stateless executor for the three generation operations.
// Callers resolve the GatewayMode from their loaded config and pass it in;
// the gateway itself holds no per-user state.
type Gateway struct {
	gemini     *GeminiClient
	apiKey     string
	imageModel string
	videoModel string
	media      MediaStore
}

func NewGateway(cfg config.Config, media MediaStore) *Gateway {
	return &Gateway{
		gemini:     NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey),
		apiKey:     cfg.GeminiAPIKey,
		imageModel: cfg.ImageModel,
		videoModel: cfg.VideoModel,
		media:      media,
	}
}

func (g *Gateway) checkKey() error {
	if g.apiKey == "" {
		return fmt.Errorf("API key not found: set GEMINI_API_KEY in the environment")
	}
	return nil
}

// GenerateResponse produces the assistant reply for a prompt. Proxy mode
// ignores attachments; direct mode sends them as inline parts.
func (g *Gateway) GenerateResponse(ctx context.Context, mode GatewayMode, prompt string, cfg types.AIConfig, attachments []types.Attachment) (string, error) {
	if err := g.checkKey(); err != nil {
		return "", err
	}
	if mode.Proxy {
		return NewProxyClient(mode.BaseURL, g.apiKey).GenerateText(ctx, prompt, cfg)
	}
	return g.gemini.GenerateText(ctx, prompt, cfg, attachments)
}

// GenerateImage returns a data URL for the generated image.
func (g *Gateway) GenerateImage(ctx context.Context, mode GatewayMode, prompt string) (string, error) {
	if err := g.checkKey(); err != nil {
		return "", err
	}
	if mode.Proxy {
		return NewProxyClient(mode.BaseURL, g.apiKey).GenerateImage(ctx, prompt, g.imageModel)
	}
	return g.gemini.GenerateImage(ctx, prompt, g.imageModel)
}

// GenerateVideo always goes direct; relays do not carry long-running video
// operations. The finished asset is stored and returned as an object URL.
func (g *Gateway) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	if err := g.checkKey(); err != nil {
		return "", err
	}
	data, contentType, err := g.gemini.GenerateVideo(ctx, prompt, g.videoModel)
	if err != nil {
		return "", err
	}
	if g.media == nil {
		return "", fmt.Errorf("no media store configured for video output")
	}
	return g.media.UploadMedia(ctx, "videos", contentType, data)
}
