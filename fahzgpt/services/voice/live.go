package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// DefaultLiveEndpoint is the Gemini bidirectional streaming socket.
const DefaultLiveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// LiveCallbacks mirror the four streaming callbacks of the realtime channel
// plus a dedicated hook for the interruption signal.
type LiveCallbacks struct {
	OnOpen        func()
	OnAudio       func(data string) // base64 PCM at 24kHz
	OnInterrupted func()
	OnError       func(err error)
	OnClose       func()
}

type LiveConfig struct {
	Endpoint          string
	APIKey            string
	Model             string
	Voice             string
	SystemInstruction string
}

// LiveSession is one open realtime connection to the model.
type LiveSession struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

type liveSetup struct {
	Setup struct {
		Model            string `json:"model"`
		GenerationConfig struct {
			ResponseModalities []string `json:"responseModalities"`
			SpeechConfig       struct {
				VoiceConfig struct {
					PrebuiltVoiceConfig struct {
						VoiceName string `json:"voiceName"`
					} `json:"prebuiltVoiceConfig"`
				} `json:"voiceConfig"`
			} `json:"speechConfig"`
		} `json:"generationConfig"`
		SystemInstruction *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction,omitempty"`
	} `json:"setup"`
}

type liveServerMessage struct {
	SetupComplete *struct{} `json:"setupComplete,omitempty"`
	ServerContent *struct {
		ModelTurn *struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"modelTurn,omitempty"`
		Interrupted  bool `json:"interrupted,omitempty"`
		TurnComplete bool `json:"turnComplete,omitempty"`
	} `json:"serverContent,omitempty"`
}

type liveRealtimeInput struct {
	RealtimeInput struct {
		MediaChunks []struct {
			MimeType string `json:"mimeType"`
			Data     string `json:"data"`
		} `json:"mediaChunks"`
	} `json:"realtimeInput"`
}

// ConnectLive dials the realtime socket, sends the session setup, and spawns
// the receive loop. Callbacks run on the receive goroutine.
func ConnectLive(ctx context.Context, cfg LiveConfig, cb LiveCallbacks) (*LiveSession, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key not found: set GEMINI_API_KEY in the environment")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultLiveEndpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	conn, _, err := websocket.Dial(ctx, endpoint+sep+"key="+cfg.APIKey, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("live connect failed: %w", err)
	}
	// Audio chunks arrive faster than the default read limit allows.
	conn.SetReadLimit(1 << 22)

	var setup liveSetup
	setup.Setup.Model = "models/" + cfg.Model
	setup.Setup.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = cfg.Voice
	if cfg.SystemInstruction != "" {
		setup.Setup.SystemInstruction = &struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		}{Parts: []struct {
			Text string `json:"text"`
		}{{Text: cfg.SystemInstruction}}}
	}

	payload, err := json.Marshal(setup)
	if err != nil {
		cancel()
		conn.Close(websocket.StatusInternalError, "setup marshal")
		return nil, err
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		cancel()
		conn.Close(websocket.StatusInternalError, "setup write")
		return nil, fmt.Errorf("live setup failed: %w", err)
	}

	s := &LiveSession{conn: conn, cancel: cancel}
	go s.receiveLoop(sessionCtx, cb)
	return s, nil
}

func (s *LiveSession) receiveLoop(ctx context.Context, cb LiveCallbacks) {
	defer func() {
		if cb.OnClose != nil {
			cb.OnClose()
		}
	}()
	opened := false
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && cb.OnError != nil {
				cb.OnError(fmt.Errorf("connection lost: %w", err))
			}
			return
		}

		var msg liveServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.ErrorLogger.Error("live message parse error", zap.Error(err))
			continue
		}

		if msg.SetupComplete != nil && !opened {
			opened = true
			if cb.OnOpen != nil {
				cb.OnOpen()
			}
			continue
		}
		if msg.ServerContent == nil {
			continue
		}
		if msg.ServerContent.ModelTurn != nil {
			for _, part := range msg.ServerContent.ModelTurn.Parts {
				if part.InlineData != nil && part.InlineData.Data != "" && cb.OnAudio != nil {
					cb.OnAudio(part.InlineData.Data)
				}
			}
		}
		if msg.ServerContent.Interrupted && cb.OnInterrupted != nil {
			cb.OnInterrupted()
		}
	}
}

// SendRealtimeInput forwards one captured audio chunk, fire-and-forget.
func (s *LiveSession) SendRealtimeInput(ctx context.Context, mimeType, data string) error {
	var input liveRealtimeInput
	input.RealtimeInput.MediaChunks = []struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	}{{MimeType: mimeType, Data: data}}

	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return s.conn.Write(ctx, websocket.MessageText, payload)
}

// Close tears the session down without draining scheduled audio.
func (s *LiveSession) Close() {
	s.cancel()
	s.conn.Close(websocket.StatusNormalClosure, "")
}
