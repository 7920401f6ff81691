package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"quizzes-service/internal/app"
	"quizzes-service/internal/config"
	"quizzes-service/internal/infra/memory"
	pgstore "quizzes-service/internal/infra/postgres"
	redisstore "quizzes-service/internal/infra/redis"
)

// openStore connects the configured backend. The returned close function
// releases its connections.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (app.Store, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil

	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("redis addr not configured")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redisstore.NewStore(client)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("using redis store", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
		return store, func() { client.Close() }, nil

	case "postgres":
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("using postgres store")
		return pgstore.NewStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
