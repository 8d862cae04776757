package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm/logger"

	"github.com/JonMunkholm/contacts/internal/config"
	"github.com/JonMunkholm/contacts/internal/core"
)

// Open builds the Store selected by cfg.Store.Driver. For the SQL drivers
// it connects, verifies the connection and applies the bootstrap schema
// when cfg.Store.Migrate is set.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Debug("using in-memory store")
		return NewMemory(), nil

	case config.DriverPostgres, config.DriverGorm:
		pool, err := NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("connected to database", "name", databaseName(cfg.Database.URL), "driver", cfg.Store.Driver)

		if cfg.Store.Migrate {
			db := stdlib.OpenDBFromPool(pool)
			err := Migrate(ctx, db, log)
			db.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}

		if cfg.Store.Driver == config.DriverPostgres {
			return NewPostgres(pool), nil
		}

		gormLog := logger.New(printfLogger{log: log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
		g, err := NewGorm(stdlib.OpenDBFromPool(pool), gormLog, func() error {
			pool.Close()
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
		return g, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewPool parses the connection string, applies pool limits and pings
// the server once before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, core.NewStorageError("connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.NewStorageError("connect", err)
	}
	return pool, nil
}

// databaseName extracts the database name for logging without credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
