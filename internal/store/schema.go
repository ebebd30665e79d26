package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the tables and indexes if they do not already exist.
// Idempotent; run once at startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username text PRIMARY KEY,
			password text NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			title text NOT NULL,
			username text NOT NULL REFERENCES users (username) ON DELETE CASCADE,
			UNIQUE (title, username)
		)`,
		`CREATE TABLE IF NOT EXISTS prayer_requests (
			id BIGSERIAL PRIMARY KEY,
			title text NOT NULL,
			category_id bigint NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
			username text NOT NULL,
			answered boolean NOT NULL DEFAULT false
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prayer_requests_category_id ON prayer_requests (category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prayer_requests_username ON prayer_requests (username)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
