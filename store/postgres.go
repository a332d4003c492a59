package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pizza-telegram/conversation"
)

// Postgres stores sessions in the sessions table as jsonb.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Load(ctx context.Context, chatID int64) (*conversation.Session, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM sessions WHERE chat_id = $1`, chatID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(data)
}

func (p *Postgres) Save(ctx context.Context, s conversation.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (chat_id, state, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (chat_id) DO UPDATE SET
			state = $2,
			data = $3,
			updated_at = now()`,
		s.ChatID, string(s.State), data,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, chatID int64) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// PurgeIdle deletes sessions not touched since before cutoff and returns how many went.
func (p *Postgres) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
