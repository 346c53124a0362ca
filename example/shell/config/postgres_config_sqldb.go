package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

const (
	defaultMaxOpenConnections = 10
	defaultMaxIdleConnections = 5
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
)

type connectionPool interface {
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
}

func tunePool(db connectionPool) {
	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}

// PostgresSQLDB opens a *sql.DB with the lib/pq driver for dsn and pings it.
func PostgresSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	tunePool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
