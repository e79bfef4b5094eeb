package store

import (
	"context"
	"testing"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testProxy = "https://api.vikey.ai/v1"

func setupStore(t *testing.T) (*Store, *dao.StoreDAO) {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	storeDAO := dao.NewStoreDAO(db)
	defaults := types.AIConfig{
		SystemInstruction: "default instruction",
		Temperature:       0.7,
		Model:             "gemini-flash-lite-latest",
		APIEndpoint:       testProxy,
	}
	return NewStore(storeDAO, defaults, testProxy), storeDAO
}

func TestLoadConfigDefaultsWhenAbsent(t *testing.T) {
	st, _ := setupStore(t)
	cfg, err := st.LoadConfig(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIEndpoint != testProxy {
		t.Errorf("expected default endpoint %q, got %q", testProxy, cfg.APIEndpoint)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %v", cfg.Temperature)
	}
}

func TestConfigEndpointRepairRoundTrip(t *testing.T) {
	st, _ := setupStore(t)
	ctx := context.Background()

	// Stored without an endpoint: repaired to the default on load.
	noEndpoint := types.AIConfig{SystemInstruction: "custom", Temperature: 1.1, Model: "gemini-flash-lite-latest"}
	if err := st.SaveConfig(ctx, "u1", noEndpoint); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	cfg, err := st.LoadConfig(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIEndpoint != testProxy {
		t.Errorf("missing endpoint should be repaired to %q, got %q", testProxy, cfg.APIEndpoint)
	}
	if cfg.SystemInstruction != "custom" || cfg.Temperature != 1.1 {
		t.Errorf("repair must not disturb other fields: %+v", cfg)
	}

	// Stored with an endpoint: preserved unchanged.
	custom := cfg
	custom.APIEndpoint = "https://relay.example.com/v1"
	if err := st.SaveConfig(ctx, "u1", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	cfg, err = st.LoadConfig(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.APIEndpoint != "https://relay.example.com/v1" {
		t.Errorf("custom endpoint must survive the round trip, got %q", cfg.APIEndpoint)
	}
}

func TestMalformedRecordResetsToDefault(t *testing.T) {
	st, storeDAO := setupStore(t)
	ctx := context.Background()

	if err := storeDAO.Put(ctx, "config:u1", []byte(`{not json`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	cfg, err := st.LoadConfig(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadConfig should recover from a malformed record: %v", err)
	}
	if cfg.SystemInstruction != "default instruction" {
		t.Errorf("malformed config should reset to defaults, got %+v", cfg)
	}

	if err := storeDAO.Put(ctx, "sessions:u1", []byte(`"not a list"`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	sessions, err := st.LoadSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadSessions should recover from a malformed record: %v", err)
	}
	if sessions != nil {
		t.Errorf("malformed sessions should reset to empty, got %+v", sessions)
	}
}

func TestMalformedRecordNeverLeaksPartialDecode(t *testing.T) {
	st, storeDAO := setupStore(t)
	ctx := context.Background()

	// Valid JSON up to the bad field: decoding fails only after temperature
	// has already been read. None of it may reach the caller.
	if err := storeDAO.Put(ctx, "config:u1", []byte(`{"temperature": 99, "model": 123}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	cfg, err := st.LoadConfig(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadConfig should recover from a malformed record: %v", err)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("partial decode leaked through the reset: %+v", cfg)
	}
	if cfg.SystemInstruction != "default instruction" {
		t.Errorf("malformed config should reset to defaults, got %+v", cfg)
	}

	// Same for lists: one good element followed by a bad one.
	if err := storeDAO.Put(ctx, "sessions:u1", []byte(`[{"id":"ghost"}, 5]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	sessions, err := st.LoadSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadSessions should recover from a malformed record: %v", err)
	}
	if sessions != nil {
		t.Errorf("malformed sessions should reset to absent, got %+v", sessions)
	}
}

func TestSessionsWholeRecordReplacement(t *testing.T) {
	st, _ := setupStore(t)
	ctx := context.Background()

	a := []types.ChatSession{{ID: "1", Title: "a"}}
	if err := st.SaveSessions(ctx, "u1", a); err != nil {
		t.Fatalf("SaveSessions failed: %v", err)
	}
	b := []types.ChatSession{{ID: "2", Title: "b"}}
	if err := st.SaveSessions(ctx, "u1", b); err != nil {
		t.Fatalf("SaveSessions failed: %v", err)
	}
	got, err := st.LoadSessions(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadSessions failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("writes must replace the whole record, got %+v", got)
	}
}
