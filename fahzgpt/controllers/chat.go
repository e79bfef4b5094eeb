package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/services/llm"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"go.uber.org/zap"
)

// AIGateway is what the chat flow needs from the generation layer.
type AIGateway interface {
	GenerateResponse(ctx context.Context, mode llm.GatewayMode, prompt string, cfg types.AIConfig, attachments []types.Attachment) (string, error)
	GenerateImage(ctx context.Context, mode llm.GatewayMode, prompt string) (string, error)
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

type ChatController struct {
	gateway  AIGateway
	sessions *SessionController
	store    *store.Store
	now      func() time.Time
}

func NewChatController(gateway AIGateway, sessions *SessionController, st *store.Store) *ChatController {
	return &ChatController{
		gateway:  gateway,
		sessions: sessions,
		store:    st,
		now:      time.Now,
	}
}

func (c *ChatController) message(role, content string) types.ChatMessage {
	return types.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: c.now().Format(time.RFC3339),
	}
}

// appendMessages adds messages to the active session in one whole-list
// update. The user message is persisted before the gateway call and the
// assistant message after it, so a crash or timeout mid-generation never
// loses the user's turn.
func (c *ChatController) appendMessages(ctx context.Context, userID string, msgs ...types.ChatMessage) (*types.ChatSession, error) {
	active, err := c.sessions.ActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	var messages []types.ChatMessage
	if active != nil {
		messages = active.Messages
	}
	messages = append(messages, msgs...)
	return c.sessions.UpdateActiveSession(ctx, userID, messages)
}

// SendMessage runs one chat turn. Empty input with no attachments is a
// no-op: nothing appended, no upstream call. Gateway failures become the
// assistant message instead of an error.
func (c *ChatController) SendMessage(ctx context.Context, userID string, req types.ChatRequest) (*types.ChatSession, bool, error) {
	defer logging.LogDuration(ctx, "chat_send_message")()

	if strings.TrimSpace(req.Content) == "" && len(req.Attachments) == 0 {
		active, err := c.sessions.ActiveSession(ctx, userID)
		return active, false, err
	}

	cfg, err := c.store.LoadConfig(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	mode := llm.ResolveMode(cfg.APIEndpoint)

	userMsg := c.message(types.RoleUser, req.Content)
	userMsg.Attachments = req.Attachments
	if _, err := c.appendMessages(ctx, userID, userMsg); err != nil {
		return nil, false, err
	}

	content, genErr := c.gateway.GenerateResponse(ctx, mode, req.Content, cfg, req.Attachments)
	aiMsg := c.message(types.RoleAI, content)
	if genErr != nil {
		logging.ErrorLogger.Error("text generation failed", zap.String("user_id", userID), zap.Error(genErr))
		aiMsg.Content = genErr.Error()
	}

	session, err := c.appendMessages(ctx, userID, aiMsg)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// GenerateImage appends the prompt and either the generated image or the
// failure text.
func (c *ChatController) GenerateImage(ctx context.Context, userID string, req types.GenerateRequest) (*types.ChatSession, bool, error) {
	defer logging.LogDuration(ctx, "chat_generate_image")()

	if strings.TrimSpace(req.Prompt) == "" {
		active, err := c.sessions.ActiveSession(ctx, userID)
		return active, false, err
	}

	cfg, err := c.store.LoadConfig(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	mode := llm.ResolveMode(cfg.APIEndpoint)

	userMsg := c.message(types.RoleUser, req.Prompt)
	if _, err := c.appendMessages(ctx, userID, userMsg); err != nil {
		return nil, false, err
	}

	aiMsg := c.message(types.RoleAI, "")
	imageURL, genErr := c.gateway.GenerateImage(ctx, mode, req.Prompt)
	if genErr != nil {
		logging.ErrorLogger.Error("image generation failed", zap.String("user_id", userID), zap.Error(genErr))
		aiMsg.Content = genErr.Error()
	} else {
		aiMsg.GeneratedImage = imageURL
	}

	session, err := c.appendMessages(ctx, userID, aiMsg)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// GenerateVideo is direct-mode only; the finished asset arrives as an
// object URL on the assistant message.
func (c *ChatController) GenerateVideo(ctx context.Context, userID string, req types.GenerateRequest) (*types.ChatSession, bool, error) {
	defer logging.LogDuration(ctx, "chat_generate_video")()

	if strings.TrimSpace(req.Prompt) == "" {
		active, err := c.sessions.ActiveSession(ctx, userID)
		return active, false, err
	}

	userMsg := c.message(types.RoleUser, req.Prompt)
	if _, err := c.appendMessages(ctx, userID, userMsg); err != nil {
		return nil, false, err
	}

	aiMsg := c.message(types.RoleAI, "")
	videoURL, genErr := c.gateway.GenerateVideo(ctx, req.Prompt)
	if genErr != nil {
		logging.ErrorLogger.Error("video generation failed", zap.String("user_id", userID), zap.Error(genErr))
		aiMsg.Content = genErr.Error()
	} else {
		aiMsg.GeneratedVideo = videoURL
	}

	session, err := c.appendMessages(ctx, userID, aiMsg)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}
