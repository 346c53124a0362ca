package config

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPGXPoolConfig parses dsn into a pgxpool.Config with tuned pool settings.
func PostgresPGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	const defaultMaxConnections = int32(8)
	const defaultMinConnections = int32(1)
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool creates a pgx pool for dsn and pings it.
func PostgresPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}
