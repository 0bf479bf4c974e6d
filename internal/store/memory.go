package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ptchy/chiabot/internal/ledger"
)

// Memory keeps sessions in a process-local map. Values are copied on
// the way in and out so callers can never mutate stored state except
// through Put.
type Memory struct {
	mu       sync.Mutex
	sessions map[int64]*ledger.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[int64]*ledger.Session)}
}

func (m *Memory) Get(ctx context.Context, key int64) (*ledger.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return nil, nil
	}
	return cloneSession(s)
}

func (m *Memory) Put(ctx context.Context, key int64, s *ledger.Session) error {
	copied, err := cloneSession(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = copied
	return nil
}

// cloneSession deep-copies via the same JSON encoding the Postgres
// backend persists, so both stores round-trip sessions identically.
func cloneSession(s *ledger.Session) (*ledger.Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out ledger.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
