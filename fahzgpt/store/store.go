// Package store is the durable keyed-record layer for chat state. Each user
// has three independent JSON records: the session list, the active-session
// pointer, and the AI config. Records default when absent, and every write
// replaces the whole record.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"go.uber.org/zap"
)

const (
	keySessions = "sessions"
	keyActive   = "active"
	keyConfig   = "config"
)

type Store struct {
	dao           *dao.StoreDAO
	defaultConfig types.AIConfig
	defaultProxy  string
}

// NewStore wires the record DAO with the defaults used to repair or reset
// records. defaultProxy backfills configs stored without an endpoint.
func NewStore(storeDAO *dao.StoreDAO, defaultConfig types.AIConfig, defaultProxy string) *Store {
	return &Store{
		dao:           storeDAO,
		defaultConfig: defaultConfig,
		defaultProxy:  defaultProxy,
	}
}

func recordKey(name, userID string) string {
	return fmt.Sprintf("%s:%s", name, userID)
}

// load unmarshals one record into out. Absent records leave out untouched.
// Malformed records are reset to absent rather than failing the caller; the
// decode goes through a scratch copy so a record that fails partway through
// never leaves out half-written.
func (s *Store) load(ctx context.Context, name, userID string, out interface{}) (bool, error) {
	raw, err := s.dao.Get(ctx, recordKey(name, userID))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	dst := reflect.ValueOf(out).Elem()
	scratch := reflect.New(dst.Type())
	scratch.Elem().Set(dst)
	if err := json.Unmarshal(raw, scratch.Interface()); err != nil {
		logging.ErrorLogger.Error("malformed store record, resetting",
			zap.String("record", name), zap.String("user_id", userID), zap.Error(err))
		if derr := s.dao.Delete(ctx, recordKey(name, userID)); derr != nil {
			return false, derr
		}
		return false, nil
	}
	dst.Set(scratch.Elem())
	return true, nil
}

func (s *Store) save(ctx context.Context, name, userID string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.dao.Put(ctx, recordKey(name, userID), raw)
}

func (s *Store) LoadSessions(ctx context.Context, userID string) ([]types.ChatSession, error) {
	var sessions []types.ChatSession
	if _, err := s.load(ctx, keySessions, userID, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) SaveSessions(ctx context.Context, userID string, sessions []types.ChatSession) error {
	return s.save(ctx, keySessions, userID, sessions)
}

func (s *Store) LoadActiveID(ctx context.Context, userID string) (string, error) {
	var id string
	if _, err := s.load(ctx, keyActive, userID, &id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SaveActiveID(ctx context.Context, userID, id string) error {
	return s.save(ctx, keyActive, userID, id)
}

// LoadConfig returns the stored AI config, defaulted when absent. A stored
// config without an endpoint is repaired in place to the default proxy
// before use.
func (s *Store) LoadConfig(ctx context.Context, userID string) (types.AIConfig, error) {
	cfg := s.defaultConfig
	found, err := s.load(ctx, keyConfig, userID, &cfg)
	if err != nil {
		return types.AIConfig{}, err
	}
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = s.defaultProxy
		if found {
			if err := s.save(ctx, keyConfig, userID, cfg); err != nil {
				return types.AIConfig{}, err
			}
		}
	}
	return cfg, nil
}

func (s *Store) SaveConfig(ctx context.Context, userID string, cfg types.AIConfig) error {
	return s.save(ctx, keyConfig, userID, cfg)
}
