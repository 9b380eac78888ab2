// Package postgres implements the pets and matches repositories on PostgreSQL via pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
)

// Schema creates the tables if missing. seq columns carry creation order.
const Schema = `
CREATE TABLE IF NOT EXISTS pets (
	seq           BIGSERIAL,
	id            TEXT PRIMARY KEY,
	status        TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	color         TEXT NOT NULL DEFAULT '',
	breed         TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	photo_urls    TEXT NOT NULL DEFAULT '[]',
	latitude      DOUBLE PRECISION,
	longitude     DOUBLE PRECISION,
	address       TEXT NOT NULL DEFAULT '',
	contact_name  TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pets_status_seq ON pets (status, seq);
CREATE TABLE IF NOT EXISTS matches (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	lost_id    TEXT NOT NULL,
	found_id   TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Open opens a pgx-backed pool and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Pinger adapts *sql.DB to the health check contract.
type Pinger struct {
	db *sql.DB
}

// NewPinger creates a Pinger.
func NewPinger(db *sql.DB) Pinger { return Pinger{db: db} }

// Ping checks connectivity.
func (p Pinger) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
