package store

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyonlab/notetracker/internal/config"
	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
)

const storeInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (store.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), storeInitTimeout)
		defer cancel()

		switch cfg.StoreDriver {
		case config.StoreDriverPostgres:
			p, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to connect database: %w", err)
			}
			if err := p.Ping(ctx); err != nil {
				p.Close()
				return nil, fmt.Errorf("failed to ping database: %w", err)
			}
			if err := RunMigration(ctx, p); err != nil {
				p.Close()
				return nil, fmt.Errorf("failed to run migration: %w", err)
			}
			return NewPostgresStore(p), nil

		case config.StoreDriverRedis:
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				return nil, fmt.Errorf("REDIS_URL is invalid: %w", err)
			}
			client := redis.NewClient(opts)
			if err := client.Ping(ctx).Err(); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("failed to ping redis: %w", err)
			}
			return NewRedisStore(client), nil

		case config.StoreDriverMemory:
			return NewMemoryStore(), nil

		default:
			return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
		}
	})
}
