package config

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLX opens a *sqlx.DB with the lib/pq driver for dsn and pings it.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
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
