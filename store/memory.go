package store

import (
	"context"
	"sync"

	"pizza-telegram/conversation"
)

// Memory keeps sessions in process. Used for local runs without Redis or Postgres.
type Memory struct {
	mu       sync.Mutex
	sessions map[int64][]byte
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[int64][]byte)}
}

func (m *Memory) Load(ctx context.Context, chatID int64) (*conversation.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[chatID]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decode(data)
}

// Save stores an encoded copy so callers cannot alias stored state.
func (m *Memory) Save(ctx context.Context, s conversation.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ChatID] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.sessions, chatID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
