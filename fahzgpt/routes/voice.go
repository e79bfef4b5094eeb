package routes

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/middlewares"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/services/voice"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type voiceClientFrame struct {
	Type  string `json:"type"` // start | audio | hangup
	Token string `json:"token,omitempty"`
	Voice string `json:"voice,omitempty"`
	Data  string `json:"data,omitempty"` // base64 PCM, 16kHz
}

// VoiceRoutes hosts the call socket. The first frame selects a voice and
// authenticates; every later frame is either a captured audio chunk or the
// hangup.
func VoiceRoutes(st *store.Store, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")
		conn.SetReadLimit(1 << 22)

		ctx := req.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var first voiceClientFrame
		if err := json.Unmarshal(data, &first); err != nil || first.Type != "start" {
			conn.Write(ctx, websocket.MessageText, []byte(`{"type":"error","message":"expected start frame"}`))
			return
		}
		uid, err := middlewares.ParseToken(first.Token, cfg.JWTSecret)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"type":"error","message":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		aiCfg, err := st.LoadConfig(ctx, uid)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"type":"error","message":"failed to load config"}`))
			return
		}

		// One writer at a time; events arrive from the upstream receive
		// loop and from playback timers.
		var writeMu sync.Mutex
		emit := func(ev voice.Event) {
			payload, err := json.Marshal(ev)
			if err != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				logging.ErrorLogger.Error("voice event write error", zap.Error(err))
			}
		}

		pipeline := voice.NewPipeline(voice.LiveConfig{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.VoiceModel,
			SystemInstruction: aiCfg.SystemInstruction,
		}, emit)
		defer pipeline.Hangup()

		if err := pipeline.Start(ctx, first.Voice); err != nil {
			// The pipeline already emitted the error and fell back to
			// selection; let the client retry with another start frame.
			logging.AppLogger.Info("voice call start failed", zap.String("user_id", uid), zap.Error(err))
		}

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var frame voiceClientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			switch frame.Type {
			case "audio":
				pipeline.ForwardAudio(ctx, frame.Data)
			case "start":
				if pipeline.State() == voice.StateSelecting {
					if err := pipeline.Start(ctx, frame.Voice); err != nil {
						logging.AppLogger.Info("voice call restart failed", zap.String("user_id", uid), zap.Error(err))
					}
				}
			case "hangup":
				pipeline.Hangup()
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	})
	return r
}
