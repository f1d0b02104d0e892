package settings

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

const settingsKey = "app"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Load(ctx context.Context) (Settings, bool, error) {
	var raw []byte
	err := s.DB.QueryRow(ctx, "SELECT value FROM settings WHERE key = $1", settingsKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}, false, err
	}
	return out, true, nil
}

func (s *Store) Save(ctx context.Context, settings Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO settings (key, value, updated_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
  `, settingsKey, payload, settings.UpdatedAt)
	return err
}

type MemoryStore struct {
	mu       sync.RWMutex
	settings *Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return Settings{}, false, nil
	}
	out := *m.settings
	out.LeaveAllocations = maps.Clone(m.settings.LeaveAllocations)
	return out, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings.LeaveAllocations = maps.Clone(settings.LeaveAllocations)
	m.settings = &settings
	return nil
}
