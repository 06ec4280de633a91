package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one versioned schema step. Statements must be idempotent
// within a version because each step runs in its own transaction.
type migration struct {
	version int
	stmts   []string
}

// Schema evolution happens here, once at startup, instead of ad-hoc
// per-request column additions.
var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				id                       TEXT PRIMARY KEY,
				user_id                  TEXT REFERENCES users(id),
				pickup                   TEXT NOT NULL,
				dropoff                  TEXT NOT NULL,
				distance_km              DOUBLE PRECISION NOT NULL,
				price                    DOUBLE PRECISION NOT NULL,
				pickup_at                TIMESTAMPTZ NOT NULL,
				created_at               TIMESTAMPTZ NOT NULL,
				status                   TEXT NOT NULL DEFAULT 'pending',
				deposit_amount           DOUBLE PRECISION NOT NULL DEFAULT 0,
				deposit_paid             BOOLEAN NOT NULL DEFAULT FALSE,
				payment_status           TEXT NOT NULL DEFAULT 'deposit_pending',
				payment_session_ref      TEXT,
				payment_confirmation_ref TEXT,
				customer_name            TEXT,
				customer_phone           TEXT,
				customer_email           TEXT,
				notes                    TEXT
			)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_bookings_status_created ON bookings (status, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings (created_at DESC)`,
		},
	},
}

// Migrate applies all pending migrations in order, each in its own
// transaction, tracking progress in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INT PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && m.version <= int(current.Int64) {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
