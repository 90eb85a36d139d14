// Package db opens the document store selected in the configuration.
package db

import (
	"context"
	"fmt"
	"time"

	"floor-backend/internal/config"
	"floor-backend/internal/database"
	"floor-backend/internal/store"
	"floor-backend/internal/store/memstore"
	"floor-backend/internal/store/mongostore"
	"floor-backend/internal/store/pgstore"
	"floor-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect opens and pings a PostgreSQL pool
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded schema to pool
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	return database.NewMigratorWithFS(pool, migrations.FS, ".", log).RunMigrations(ctx)
}

// OpenStore connects the configured backend. PostgreSQL is migrated
// before use.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return pgstore.New(pool, log), nil
	case config.BackendMongo:
		s, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))
		return s, nil
	case config.BackendMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memstore.New(log), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
