package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// SQLAdapter implements DBAdapter for sql.DB. It serves both PostgreSQL via lib/pq and SQLite via go-sqlite3.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a SQLAdapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Query runs query on the database.
func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exec runs query on the database.
func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a SQLXAdapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Query runs query on the database.
func (s *SQLXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exec runs query on the database.
func (s *SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return result, nil
}
