// Package config provides configuration for the lendingctl example:
// settings loaded through viper, factories for the database connections a journal can run on
// (pgx.Pool, sql.DB, sqlx.DB for PostgreSQL, sql.DB for SQLite), and OpenTelemetry providers.
//
// This package is part of the shell (infrastructure) layer.
package config
