package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
)

const titleLimit = 30

// SessionController owns the per-user session list and active-session
// pointer. All mutations are whole-list replacements through the store.
type SessionController struct {
	store *store.Store
	now   func() time.Time
}

func NewSessionController(st *store.Store) *SessionController {
	return &SessionController{store: st, now: time.Now}
}

// deriveTitle takes the first message's leading characters, or the
// placeholder when there is nothing to derive from.
func deriveTitle(messages []types.ChatMessage) string {
	if len(messages) == 0 {
		return types.PlaceholderTitle
	}
	content := []rune(messages[0].Content)
	if len(content) > titleLimit {
		return string(content[:titleLimit]) + "..."
	}
	return string(content)
}

// newSessionID is time-based, bumped past any id already in the list so that
// back-to-back creates stay unique.
func (c *SessionController) newSessionID(sessions []types.ChatSession) string {
	id := c.now().UnixMilli()
	taken := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		taken[s.ID] = true
	}
	for taken[strconv.FormatInt(id, 10)] {
		id++
	}
	return strconv.FormatInt(id, 10)
}

// CreateSession prepends a new session (most-recent-first order) and makes
// it active. Returns the created session.
func (c *SessionController) CreateSession(ctx context.Context, userID string, initialMessages []types.ChatMessage) (*types.ChatSession, error) {
	sessions, err := c.store.LoadSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	session := types.ChatSession{
		ID:          c.newSessionID(sessions),
		Title:       deriveTitle(initialMessages),
		Messages:    initialMessages,
		LastUpdated: c.now().Format(time.RFC3339),
	}

	sessions = append([]types.ChatSession{session}, sessions...)
	if err := c.store.SaveSessions(ctx, userID, sessions); err != nil {
		return nil, err
	}
	if err := c.store.SaveActiveID(ctx, userID, session.ID); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateActiveSession replaces the active session's message list. With no
// active session, or a dangling pointer, it degrades to CreateSession. The
// title is re-derived only while it is still the placeholder.
func (c *SessionController) UpdateActiveSession(ctx context.Context, userID string, messages []types.ChatMessage) (*types.ChatSession, error) {
	activeID, err := c.store.LoadActiveID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := c.store.LoadSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].ID != activeID {
			continue
		}
		if (sessions[i].Title == types.PlaceholderTitle || sessions[i].Title == "") && len(messages) > 0 {
			sessions[i].Title = deriveTitle(messages)
		}
		sessions[i].Messages = messages
		sessions[i].LastUpdated = c.now().Format(time.RFC3339)
		if err := c.store.SaveSessions(ctx, userID, sessions); err != nil {
			return nil, err
		}
		updated := sessions[i]
		return &updated, nil
	}

	return c.CreateSession(ctx, userID, messages)
}

// ListSessions returns the stored list, most-recently-created-first.
func (c *SessionController) ListSessions(ctx context.Context, userID string) ([]types.ChatSession, error) {
	sessions, err := c.store.LoadSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []types.ChatSession{}
	}
	return sessions, nil
}

func (c *SessionController) SetActive(ctx context.Context, userID, sessionID string) error {
	return c.store.SaveActiveID(ctx, userID, sessionID)
}

// ActiveSession resolves the active pointer against the list. A dangling or
// empty pointer means no session is active.
func (c *SessionController) ActiveSession(ctx context.Context, userID string) (*types.ChatSession, error) {
	activeID, err := c.store.LoadActiveID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if activeID == "" {
		return nil, nil
	}
	sessions, err := c.store.LoadSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == activeID {
			session := sessions[i]
			return &session, nil
		}
	}
	return nil, nil
}

// NewChat always creates a fresh empty session and switches to it.
func (c *SessionController) NewChat(ctx context.Context, userID string) (*types.ChatSession, error) {
	return c.CreateSession(ctx, userID, nil)
}
