package database

import (
	"context"
	"fmt"

	"cv-platform-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is a named, idempotent schema step.
type Migration struct {
	Name string
	SQL  string
}

// Migrations are applied in order on every start; each statement must be idempotent.
var Migrations = []Migration{
	{
		Name: "create_accounts",
		SQL: `
			CREATE TABLE IF NOT EXISTS accounts (
				id                UUID PRIMARY KEY,
				username          TEXT NOT NULL,
				email             TEXT NOT NULL,
				password_hash     TEXT NOT NULL,
				role              TEXT NOT NULL CHECK (role IN ('candidate', 'recruiter')),
				date_of_birth     DATE NOT NULL,
				address           TEXT NOT NULL,
				city              TEXT NOT NULL,
				phone             TEXT NOT NULL,
				candidate_profile UUID,
				created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key ON accounts (email);`,
	},
	{
		Name: "create_candidate_profiles",
		SQL: `
			CREATE TABLE IF NOT EXISTS candidate_profiles (
				id             UUID PRIMARY KEY,
				name           TEXT NOT NULL,
				email          TEXT NOT NULL,
				phone          TEXT NOT NULL,
				date_of_birth  TEXT NOT NULL,
				region         TEXT NOT NULL,
				linkedin       TEXT,
				github         TEXT,
				domain         TEXT NOT NULL,
				skills         TEXT[] NOT NULL DEFAULT '{}',
				experience     TEXT NOT NULL,
				score          DOUBLE PRECISION NOT NULL DEFAULT 0,
				cv_url         TEXT,
				cv_views       BIGINT NOT NULL DEFAULT 0,
				user_id        UUID,
				created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS candidate_profiles_email_key ON candidate_profiles (email);
			CREATE INDEX IF NOT EXISTS candidate_profiles_user_id_idx ON candidate_profiles (user_id);`,
	},
}

// RunMigrations executes all migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	logger.Log.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Log.Error("Migration failed", "name", m.Name, "error", err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		logger.Log.Info("Migration completed", "name", m.Name)
	}

	logger.Log.Info("All migrations completed successfully")
	return nil
}
