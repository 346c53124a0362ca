package config

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// SQLiteDSN turns a database file path into a go-sqlite3 DSN with a busy timeout.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000", path)
}

// SQLiteSQLDB opens the SQLite database file at path and pings it.
// SQLite allows one writer, so the pool is limited to a single connection.
func SQLiteSQLDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
