package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"pizza-telegram/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// DSN builds the connection URL, escaping credentials.
func DSN(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	return u.String()
}

func Init(ctx context.Context, cfg config.DBConfig) error {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	Pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := Pool.Ping(pingCtx); err != nil {
		Pool.Close()
		Pool = nil
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
