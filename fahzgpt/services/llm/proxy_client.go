package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"
)

// ProxyClient speaks the OpenAI-compatible chat-completions dialect used by
// relays such as Vikey. One client per resolved base URL.
type ProxyClient struct {
	baseURL string
	apiKey  string
}

func NewProxyClient(baseURL, apiKey string) *ProxyClient {
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type proxyChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type proxyChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	// Gemini-shaped passthrough, seen when the relay forwards the vendor
	// payload for multimodal models.
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text,omitempty"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ProxyClient) post(ctx context.Context, req proxyChatRequest) (*proxyChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed proxyChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode proxy response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("proxy error: %s", parsed.Error.Message)
		}
		return nil, fmt.Errorf("proxy error: %s", resp.Status)
	}
	return &parsed, nil
}

// GenerateText runs a system+user chat completion and returns the first
// choice's content.
func (c *ProxyClient) GenerateText(ctx context.Context, prompt string, cfg types.AIConfig) (string, error) {
	defer logging.LogDuration(ctx, "proxy_generate_text")()

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	resp, err := c.post(ctx, proxyChatRequest{
		Model: cfg.Model,
		Messages: []Message{
			{Role: "system", Content: cfg.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty proxy response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests an image-capable model through the relay. The relay
// either embeds a data URL in the text content or forwards vendor-shaped
// inline parts; any other shape is fatal.
func (c *ProxyClient) GenerateImage(ctx context.Context, prompt, model string) (string, error) {
	defer logging.LogDuration(ctx, "proxy_generate_image")()

	resp, err := c.post(ctx, proxyChatRequest{
		Model:    model,
		Messages: []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) > 0 && strings.Contains(resp.Choices[0].Message.Content, "data:image") {
		return resp.Choices[0].Message.Content, nil
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("unrecognized image format from proxy")
}
