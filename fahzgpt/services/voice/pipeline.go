package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"go.uber.org/zap"
)

type CallState string

const (
	StateSelecting  CallState = "selecting-voice"
	StateConnecting CallState = "connecting"
	StateActive     CallState = "active"
	StateEnded      CallState = "ended"
)

// The two prebuilt voice identities offered at call start.
var Voices = map[string]bool{
	"Puck": true,
	"Kore": true,
}

const conversationalHint = " Respond in a conversational tone. Keep answers concise for voice chat."

// Event frame types delivered to the call client.
const (
	EventReady       = "ready"
	EventAudio       = "audio"
	EventSpeaking    = "speaking"
	EventInterrupted = "interrupted"
	EventError       = "error"
	EventEnded       = "ended"
)

type Event struct {
	Type     string  `json:"type"`
	Data     string  `json:"data,omitempty"`
	Start    float64 `json:"start,omitempty"`
	Speaking bool    `json:"speaking,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// Pipeline runs one voice call: it owns the call state machine, forwards
// captured audio upstream, and turns streamed audio back into scheduled
// playback events for the client.
type Pipeline struct {
	cfg  LiveConfig
	emit func(Event)

	mu        sync.Mutex
	state     CallState
	live      *LiveSession
	startedAt time.Time

	sched *Scheduler
}

// NewPipeline starts in voice selection. emit delivers events to the client
// and must be safe for concurrent use.
func NewPipeline(cfg LiveConfig, emit func(Event)) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		emit:  emit,
		state: StateSelecting,
		sched: NewScheduler(),
	}
}

func (p *Pipeline) State() CallState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start confirms the voice choice and opens the realtime session.
func (p *Pipeline) Start(ctx context.Context, voiceName string) error {
	p.mu.Lock()
	if p.state != StateSelecting {
		p.mu.Unlock()
		return fmt.Errorf("call already started")
	}
	if !Voices[voiceName] {
		p.mu.Unlock()
		return fmt.Errorf("unknown voice: %s", voiceName)
	}
	p.state = StateConnecting
	p.mu.Unlock()

	cfg := p.cfg
	cfg.Voice = voiceName
	cfg.SystemInstruction = cfg.SystemInstruction + conversationalHint

	live, err := ConnectLive(ctx, cfg, LiveCallbacks{
		OnOpen:        p.onOpen,
		OnAudio:       p.onAudio,
		OnInterrupted: p.onInterrupted,
		OnError:       p.fail,
		OnClose:       p.onClose,
	})
	if err != nil {
		p.failBack(err)
		return err
	}

	p.mu.Lock()
	p.live = live
	p.mu.Unlock()
	return nil
}

func (p *Pipeline) onOpen() {
	p.mu.Lock()
	p.state = StateActive
	p.startedAt = time.Now()
	p.mu.Unlock()
	p.emit(Event{Type: EventReady})
}

// ForwardAudio relays one captured chunk upstream in arrival order. Send
// failures are logged, not surfaced; capture is fire-and-forget.
func (p *Pipeline) ForwardAudio(ctx context.Context, data string) {
	p.mu.Lock()
	live := p.live
	active := p.state == StateActive
	p.mu.Unlock()
	if !active || live == nil {
		return
	}
	if err := live.SendRealtimeInput(ctx, CaptureMimeType, data); err != nil {
		logging.ErrorLogger.Error("realtime input send error", zap.Error(err))
	}
}

func (p *Pipeline) onAudio(data string) {
	samples, err := DecodeChunk(data)
	if err != nil {
		logging.ErrorLogger.Error("audio chunk decode error", zap.Error(err))
		return
	}
	duration := ChunkDuration(len(samples), PlaybackSampleRate).Seconds()

	p.mu.Lock()
	now := time.Since(p.startedAt).Seconds()
	p.mu.Unlock()

	wasSpeaking := p.sched.Speaking()
	id, start := p.sched.Schedule(duration, now)

	p.emit(Event{Type: EventAudio, Data: data, Start: start})
	if !wasSpeaking {
		p.emit(Event{Type: EventSpeaking, Speaking: true})
	}

	// Mirror the client's buffer-ended notification: once this chunk's slot
	// has elapsed, retire it, and clear the speaking flag when nothing is
	// left in flight.
	delay := time.Duration((start + duration - now) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		p.sched.Complete(id)
		if !p.sched.Speaking() {
			p.emit(Event{Type: EventSpeaking, Speaking: false})
		}
	})
}

func (p *Pipeline) onInterrupted() {
	p.sched.Interrupt()
	p.emit(Event{Type: EventInterrupted})
	p.emit(Event{Type: EventSpeaking, Speaking: false})
}

func (p *Pipeline) fail(err error) {
	p.failBack(err)
}

// failBack drops the call to voice selection with a visible error. No
// automatic reconnect.
func (p *Pipeline) failBack(err error) {
	p.mu.Lock()
	if p.state == StateEnded {
		p.mu.Unlock()
		return
	}
	live := p.live
	p.live = nil
	p.state = StateSelecting
	p.mu.Unlock()

	if live != nil {
		live.Close()
	}
	p.sched.Interrupt()
	p.emit(Event{Type: EventError, Message: err.Error()})
}

func (p *Pipeline) onClose() {
	p.mu.Lock()
	ended := p.state == StateEnded
	p.mu.Unlock()
	if !ended {
		logging.AppLogger.Info("live session closed by remote")
	}
}

// Hangup ends the call: close the session, stop all playback, no drain.
func (p *Pipeline) Hangup() {
	p.mu.Lock()
	if p.state == StateEnded {
		p.mu.Unlock()
		return
	}
	live := p.live
	p.live = nil
	p.state = StateEnded
	p.mu.Unlock()

	if live != nil {
		live.Close()
	}
	p.sched.Interrupt()
	p.emit(Event{Type: EventEnded})
}
