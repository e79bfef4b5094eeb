package controllers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	appstore "github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testProxy = "https://api.vikey.ai/v1"

func setupTestStore(t *testing.T) *appstore.Store {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	defaults := types.AIConfig{
		SystemInstruction: "You are a test assistant.",
		Temperature:       0.7,
		Model:             "gemini-flash-lite-latest",
		APIEndpoint:       testProxy,
	}
	return appstore.NewStore(dao.NewStoreDAO(db), defaults, testProxy)
}

func userMessage(content string) types.ChatMessage {
	return types.ChatMessage{Role: types.RoleUser, Content: content, Timestamp: time.Now().Format(time.RFC3339)}
}

func TestCreateSessionOrderingAndUniqueIDs(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	var created []string
	for i := 0; i < 5; i++ {
		s, err := ctrl.CreateSession(ctx, "u1", nil)
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		created = append(created, s.ID)
	}

	seen := map[string]bool{}
	for _, id := range created {
		if seen[id] {
			t.Errorf("duplicate session id %s", id)
		}
		seen[id] = true
	}

	sessions, err := ctrl.ListSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 5 {
		t.Fatalf("expected 5 sessions, got %d", len(sessions))
	}
	// Most recently created first.
	for i, s := range sessions {
		if s.ID != created[len(created)-1-i] {
			t.Errorf("position %d: expected %s, got %s", i, created[len(created)-1-i], s.ID)
		}
	}
}

func TestCreateSessionTitleDerivation(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	long := strings.Repeat("a", 45)
	tests := []struct {
		name     string
		messages []types.ChatMessage
		want     string
	}{
		{"no messages", nil, types.PlaceholderTitle},
		{"short content", []types.ChatMessage{userMessage("hi there")}, "hi there"},
		{"exactly 30 chars", []types.ChatMessage{userMessage(strings.Repeat("b", 30))}, strings.Repeat("b", 30)},
		{"long content", []types.ChatMessage{userMessage(long)}, long[:30] + "..."},
	}
	for _, tt := range tests {
		s, err := ctrl.CreateSession(ctx, "u1", tt.messages)
		if err != nil {
			t.Fatalf("%s: CreateSession failed: %v", tt.name, err)
		}
		if s.Title != tt.want {
			t.Errorf("%s: expected title %q, got %q", tt.name, tt.want, s.Title)
		}
	}
}

func TestUpdateActiveSessionCreatesWhenNoActive(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	msgs := []types.ChatMessage{userMessage("hello world")}
	s, err := ctrl.UpdateActiveSession(ctx, "u1", msgs)
	if err != nil {
		t.Fatalf("UpdateActiveSession failed: %v", err)
	}
	if s == nil || len(s.Messages) != 1 || s.Messages[0].Content != "hello world" {
		t.Fatalf("expected a new session carrying the messages, got %+v", s)
	}
	sessions, _ := ctrl.ListSessions(ctx, "u1")
	if len(sessions) != 1 {
		t.Errorf("expected exactly one session, got %d", len(sessions))
	}
}

func TestUpdateActiveSessionDanglingPointerCreates(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	if _, err := ctrl.CreateSession(ctx, "u1", nil); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := ctrl.SetActive(ctx, "u1", "no-such-id"); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	active, err := ctrl.ActiveSession(ctx, "u1")
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active != nil {
		t.Fatalf("dangling pointer should resolve to no active session")
	}

	s, err := ctrl.UpdateActiveSession(ctx, "u1", []types.ChatMessage{userMessage("fresh start")})
	if err != nil {
		t.Fatalf("UpdateActiveSession failed: %v", err)
	}
	if s.ID == "no-such-id" {
		t.Errorf("should have created a new session, not resurrected the dangling id")
	}
	sessions, _ := ctrl.ListSessions(ctx, "u1")
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestTitleNotRederivedOnceSet(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	s, err := ctrl.CreateSession(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if s.Title != types.PlaceholderTitle {
		t.Fatalf("empty session should start with placeholder title")
	}

	updated, err := ctrl.UpdateActiveSession(ctx, "u1", []types.ChatMessage{userMessage("first question")})
	if err != nil {
		t.Fatalf("UpdateActiveSession failed: %v", err)
	}
	if updated.Title != "first question" {
		t.Fatalf("placeholder should be replaced by first message title, got %q", updated.Title)
	}

	updated, err = ctrl.UpdateActiveSession(ctx, "u1", []types.ChatMessage{
		userMessage("a completely different opener"),
		userMessage("second question"),
	})
	if err != nil {
		t.Fatalf("UpdateActiveSession failed: %v", err)
	}
	if updated.Title != "first question" {
		t.Errorf("title must not be re-derived once set, got %q", updated.Title)
	}
}

func TestNewChatAlwaysCreatesAndActivates(t *testing.T) {
	ctrl := NewSessionController(setupTestStore(t))
	ctx := context.Background()

	first, _ := ctrl.CreateSession(ctx, "u1", []types.ChatMessage{userMessage("old")})
	second, err := ctrl.NewChat(ctx, "u1")
	if err != nil {
		t.Fatalf("NewChat failed: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("NewChat must create a distinct session")
	}
	active, _ := ctrl.ActiveSession(ctx, "u1")
	if active == nil || active.ID != second.ID {
		t.Errorf("NewChat must switch the active session")
	}
	if len(second.Messages) != 0 {
		t.Errorf("NewChat session must start empty")
	}
}
