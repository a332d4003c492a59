// Package store keeps conversation sessions between events and restarts.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"pizza-telegram/conversation"
)

// Store is a conversation.SessionStore that can report its health.
type Store interface {
	conversation.SessionStore
	Ping(ctx context.Context) error
}

func encode(s conversation.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*conversation.Session, error) {
	var s conversation.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
