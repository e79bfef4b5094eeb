package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"
)

func TestGeminiGenerateText(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("unexpected key header %q", got)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"direct hello"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key")
	got, err := client.GenerateText(context.Background(), "hi", types.AIConfig{
		Model:             "gemini-flash-lite-latest",
		SystemInstruction: "be nice",
		Temperature:       0.7,
	}, nil)
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if got != "direct hello" {
		t.Errorf("expected %q, got %q", "direct hello", got)
	}
}

func TestGeminiGenerateTextEmptyResponse(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key")
	_, err := client.GenerateText(context.Background(), "hi", types.AIConfig{Model: "m"}, nil)
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Errorf("expected empty-response error, got %v", err)
	}
}

func TestGeminiGenerateImageNoInlinePart(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"no image for you"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key")
	_, err := client.GenerateImage(context.Background(), "a cat", "gemini-2.5-flash-image")
	if err == nil || !strings.Contains(err.Error(), "failed to process image") {
		t.Errorf("a response without inline data must be fatal, got %v", err)
	}
}

func TestGeminiGenerateVideoBoundedPolling(t *testing.T) {
	logging.InitLogger()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never finishes.
		w.Write([]byte(`{"name":"operations/op-1","done":false}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key")
	client.PollInterval = time.Millisecond
	client.MaxPollAttempts = 3

	_, _, err := client.GenerateVideo(context.Background(), "a sunset", "veo-3.1-fast-generate-preview")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("polling must stop at the attempt budget, got %v", err)
	}
}

func TestGeminiGenerateVideoDownloads(t *testing.T) {
	logging.InitLogger()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ":predictLongRunning"):
			w.Write([]byte(`{"name":"operations/op-2","done":false}`))
		case strings.Contains(r.URL.Path, "operations/op-2"):
			w.Write([]byte(`{"name":"operations/op-2","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"` + srv.URL + `/files/clip"}}]}}}`))
		case strings.Contains(r.URL.Path, "/files/clip"):
			if r.URL.Query().Get("key") != "test-key" {
				t.Errorf("download must carry the api key")
			}
			w.Header().Set("Content-Type", "video/mp4")
			w.Write([]byte("fake-mp4"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "test-key")
	client.PollInterval = time.Millisecond

	data, contentType, err := client.GenerateVideo(context.Background(), "a sunset", "veo-3.1-fast-generate-preview")
	if err != nil {
		t.Fatalf("GenerateVideo failed: %v", err)
	}
	if string(data) != "fake-mp4" || contentType != "video/mp4" {
		t.Errorf("unexpected download result: %q %q", data, contentType)
	}
}
