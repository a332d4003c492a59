package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pizza-telegram/conversation"
)

// Redis stores each session as a JSON string that expires after ttl of inactivity.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

func (r *Redis) Load(ctx context.Context, chatID int64) (*conversation.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decode(data)
}

func (r *Redis) Save(ctx context.Context, s conversation.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ChatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, chatID int64) error {
	if err := r.rdb.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
