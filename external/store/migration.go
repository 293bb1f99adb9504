package store

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE session_status AS ENUM ('pending', 'joining', 'recording', 'processing', 'completed', 'failed'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		meeting_url TEXT NOT NULL,
		grant_id TEXT NOT NULL,
		status session_status NOT NULL DEFAULT 'pending',
		bot_id TEXT,
		transcript JSONB,
		recording_url TEXT,
		summary JSONB,
		progress_message TEXT NOT NULL DEFAULT '',
		progress_percentage INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_bot ON sessions (bot_id) WHERE bot_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_grant_unassigned ON sessions (grant_id, created_at DESC) WHERE bot_id IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions (created_at DESC)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
