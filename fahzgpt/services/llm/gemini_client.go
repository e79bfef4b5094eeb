package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	httputils "github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/http"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"go.uber.org/zap"
)

// GeminiClient speaks the Gemini REST API directly with key auth. Video
// generation is a long-running operation polled until done.
type GeminiClient struct {
	baseURL string
	apiKey  string

	// Polling knobs, overridable in tests.
	PollInterval    time.Duration
	MaxPollAttempts int
}

func NewGeminiClient(baseURL, apiKey string) *GeminiClient {
	return &GeminiClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		PollInterval:    10 * time.Second,
		MaxPollAttempts: 60,
	}
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *generationKnobs `json:"generationConfig,omitempty"`
}

type generationKnobs struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gemini request failed: %s - %s", resp.Status, string(b))
	}
	if respBody != nil {
		return json.NewDecoder(resp.Body).Decode(respBody)
	}
	return nil
}

// GenerateText sends the prompt plus inline attachments and returns the
// first candidate's text.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string, cfg types.AIConfig, attachments []types.Attachment) (string, error) {
	defer logging.LogDuration(ctx, "gemini_generate_text")()

	parts := []geminiPart{{Text: prompt}}
	for _, att := range attachments {
		parts = append(parts, geminiPart{InlineData: &geminiBlob{MimeType: att.MimeType, Data: att.Data}})
	}

	req := generateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &generationKnobs{Temperature: cfg.Temperature},
	}
	if cfg.SystemInstruction != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: cfg.SystemInstruction}}}
	}

	var resp generateContentResponse
	if err := c.post(ctx, "/models/"+cfg.Model+":generateContent", req, &resp); err != nil {
		return "", err
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("model returned empty response")
}

// GenerateImage returns the first inline binary part as a data URL.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, model string) (string, error) {
	defer logging.LogDuration(ctx, "gemini_generate_image")()

	req := generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	var resp generateContentResponse
	if err := c.post(ctx, "/models/"+model+":generateContent", req, &resp); err != nil {
		return "", err
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("failed to process image")
}

type videoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateVideo submits a long-running generation and polls until done or
// the attempt budget runs out, then downloads the finished asset.
func (c *GeminiClient) GenerateVideo(ctx context.Context, prompt, model string) ([]byte, string, error) {
	defer logging.LogDuration(ctx, "gemini_generate_video")()

	submitReq := map[string]interface{}{
		"instances": []map[string]interface{}{{"prompt": prompt}},
		"parameters": map[string]interface{}{
			"aspectRatio": "16:9",
			"resolution":  "720p",
		},
	}
	var op videoOperation
	if err := c.post(ctx, "/models/"+model+":predictLongRunning", submitReq, &op); err != nil {
		return nil, "", err
	}

	for attempt := 0; !op.Done; attempt++ {
		if attempt >= c.MaxPollAttempts {
			return nil, "", fmt.Errorf("video generation timed out after %d polls", c.MaxPollAttempts)
		}
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(c.PollInterval):
		}
		if err := c.getOperation(ctx, op.Name, &op); err != nil {
			return nil, "", err
		}
		logging.AppLogger.Info("video operation polled",
			zap.String("operation", op.Name), zap.Bool("done", op.Done))
	}

	if op.Error != nil {
		return nil, "", fmt.Errorf("video generation failed: %s", op.Error.Message)
	}
	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return nil, "", fmt.Errorf("video generation returned no video")
	}
	return c.download(ctx, samples[0].Video.URI)
}

func (c *GeminiClient) getOperation(ctx context.Context, name string, op *videoOperation) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("operation poll failed: %s - %s", resp.Status, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(op)
}

func (c *GeminiClient) download(ctx context.Context, uri string) ([]byte, string, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	data, contentType, err := httputils.GetBytes(ctx, uri+sep+"key="+c.apiKey)
	if err != nil {
		return nil, "", fmt.Errorf("video download failed: %w", err)
	}
	if contentType == "" {
		contentType = "video/mp4"
	}
	return data, contentType, nil
}
