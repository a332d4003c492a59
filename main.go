package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"pizza-telegram/bot"
	"pizza-telegram/catalog"
	"pizza-telegram/config"
	"pizza-telegram/conversation"
	"pizza-telegram/db"
	"pizza-telegram/geocoder"
	"pizza-telegram/jobs"
	"pizza-telegram/ops"
	"pizza-telegram/services"
	"pizza-telegram/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.UsesPostgres() {
		if err := db.Init(ctx, cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()

		if cfg.AutoMigrate {
			if err := applyMigrations(ctx, false); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
	}

	var commerce conversation.Commerce = services.Commerce{}
	if cfg.CatalogFile != "" {
		cat, err := catalog.Load(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		commerce = cat
		log.Printf("using catalog file %s", cfg.CatalogFile)
	}

	sessions, cleanup, err := openSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if err := sessions.Ping(ctx); err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	engine := conversation.NewEngine(commerce, geocoder.NewYandex(nil, cfg.Geocoder.YandexKey, cfg.Geocoder.BaseURL))
	dispatcher := conversation.NewDispatcher(engine, sessions)

	b, err := bot.New(cfg, dispatcher, commerce)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("Bot started.")
		return b.Start(ctx)
	})
	if cfg.HTTPPort != "" {
		g.Go(func() error {
			return ops.New(sessions, commerce).Serve(ctx, ":"+cfg.HTTPPort)
		})
	}
	if cleanup != nil {
		if err := cleanup.Start(); err != nil {
			return fmt.Errorf("session cleanup: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			cleanup.Stop()
			return nil
		})
	}
	return g.Wait()
}

// openSessionStore returns the configured store and, for Postgres, the job
// purging idle sessions. Redis expires keys itself.
func openSessionStore(cfg *config.Config) (store.Store, *jobs.SessionCleanupJob, error) {
	switch cfg.Sessions.Store {
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return store.NewRedis(rdb, cfg.Sessions.TTL), nil, nil
	case config.SessionStorePostgres:
		pg := store.NewPostgres(db.Pool)
		return pg, jobs.NewSessionCleanupJob(pg, cfg.Sessions.TTL), nil
	case config.SessionStoreMemory:
		log.Println("warning: sessions are kept in memory and lost on restart")
		return store.NewMemory(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.Sessions.Store)
}

func runMigrate(cfg *config.Config) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
