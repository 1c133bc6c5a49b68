// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mmynk/splitease/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
// Wallet balances are NUMERIC and every wallet mutation is a single conditional UPDATE,
// so concurrent requests cannot lose updates or overdraw a wallet.
type PostgresStore struct {
	db *sqlx.DB
}

// New connects to databaseURL, applies pending migrations and returns the store.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("Migrations applied", "version", version, "dirty", dirty)
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// inTx runs fn inside a transaction, committing on success.
func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique_violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
