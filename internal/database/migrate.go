package database

import (
	"context"
	"fmt"
)

// schema holds the DDL applied at startup. Statements are idempotent so the
// server can restart against an already-initialized database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL UNIQUE,
		manager_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		team_id       UUID REFERENCES teams(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sprints (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name        TEXT NOT NULL,
		description TEXT,
		start_at    DATE NOT NULL,
		end_at      DATE NOT NULL,
		team_id     UUID NOT NULL REFERENCES teams(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS feelings (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		author_id       UUID NOT NULL REFERENCES users(id),
		recipient_id    UUID NOT NULL REFERENCES users(id),
		type            TEXT NOT NULL,
		category        TEXT NOT NULL,
		content         TEXT NOT NULL,
		is_anonymous    BOOLEAN NOT NULL DEFAULT FALSE,
		status          TEXT NOT NULL DEFAULT 'pending',
		reviewed_by     UUID REFERENCES users(id),
		reviewed_at     TIMESTAMPTZ,
		review_notes    TEXT,
		team_id         UUID NOT NULL REFERENCES teams(id),
		sprint_id       UUID REFERENCES sprints(id),
		feeling_id      UUID REFERENCES feelings(id),
		version         INTEGER NOT NULL DEFAULT 1,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_author ON feedback (author_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_recipient ON feedback (recipient_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_team_status ON feedback (team_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_team_window ON sprints (team_id, start_at, end_at)`,
}

// Migrate applies the startup schema.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
